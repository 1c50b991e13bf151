// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey = "is_authenticated"
	emailKey  = "user_email"
	nameKey   = "user_name"
	roleKey   = "user_role"
)

// SessionUser is the signed-in user carried in the cookie and request context.
type SessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// UserFetcher reloads a session user from storage so a deleted account or a
// changed role takes effect on the next request. A nil user with a nil error
// means the account no longer exists.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, email string) (*SessionUser, error)
}

// SessionManager issues and reads the signed session cookie.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager creates a cookie-backed session manager. secure marks
// cookies Secure with SameSite=None; otherwise SameSite=Lax is used so the
// cookie works over plain http on localhost.
func NewSessionManager(key, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if key == "" {
		return nil, errors.New("session key is empty; provide at least 32 random characters")
	}
	if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}
	if name == "" {
		return nil, errors.New("session name is empty")
	}

	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher enables reloading the user on every request.
func (m *SessionManager) SetUserFetcher(f UserFetcher) {
	m.fetcher = f
}

// GetSession returns the session for r. A cookie that no longer decodes
// (for example after a key change) yields a fresh session and no error.
func (m *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			return sess, nil
		}
		return nil, err
	}
	return sess, nil
}

// SignIn stores u in the session cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u SessionUser) error {
	sess, err := m.GetSession(r)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	sess.Values[isAuthKey] = true
	sess.Values[emailKey] = u.Email
	sess.Values[nameKey] = u.Name
	sess.Values[roleKey] = u.Role
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SignOut expires the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.GetSession(r)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser puts the signed-in user, if any, into the request context.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.GetSession(r)
		if err != nil {
			m.log.Warn("session load failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
			next.ServeHTTP(w, r)
			return
		}

		u := &SessionUser{
			Email: stringValue(sess, emailKey),
			Name:  stringValue(sess, nameKey),
			Role:  stringValue(sess, roleKey),
		}
		if m.fetcher != nil {
			fresh, err := m.fetcher.FetchSessionUser(r.Context(), u.Email)
			switch {
			case err != nil:
				// Keep the cookie identity rather than signing the user out
				// because of a transient database error.
				m.log.Warn("session user refresh failed", zap.String("email", u.Email), zap.Error(err))
			case fresh == nil:
				next.ServeHTTP(w, r)
				return
			default:
				u = fresh
			}
		}
		next.ServeHTTP(w, WithUser(r, u))
	})
}

// RequireSignedIn answers 401 JSON when no user is in context.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"Please log in to continue"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Context helpers                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the signed-in user, if any.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithUser returns r carrying u as the signed-in user.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func stringValue(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
