package account_test

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/campusride/internal/app/services/otp"
	pendingstore "github.com/dalemusser/campusride/internal/app/store/pending"
	userstore "github.com/dalemusser/campusride/internal/app/store/users"
	"github.com/dalemusser/campusride/internal/domain/models"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]models.User)}
}

func (f *fakeUsers) Get(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, userstore.ErrNotFound
	}
	u.ApplyDefaults()
	return &u, nil
}

func (f *fakeUsers) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return models.User{}, userstore.ErrDuplicateEmail
	}
	u.ApplyDefaults()
	u.CreatedAt = time.Now()
	f.users[u.Email] = u
	return u, nil
}

func (f *fakeUsers) SetStats(_ context.Context, email string, upd userstore.StatsUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, userstore.ErrNotFound
	}
	if upd.TotalRides != nil {
		u.TotalRides = *upd.TotalRides
	}
	if upd.MoneySaved != nil {
		u.MoneySaved = *upd.MoneySaved
	}
	if upd.Completed != nil {
		u.Completed = *upd.Completed
	}
	if upd.Rating != nil {
		u.Rating = *upd.Rating
	}
	f.users[email] = u
	return &u, nil
}

func (f *fakeUsers) SetPasswordHash(_ context.Context, email, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return userstore.ErrNotFound
	}
	u.PasswordHash = hash
	u.LegacyPassword = ""
	f.users[email] = u
	return nil
}

func (f *fakeUsers) MarkEmailVerified(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return userstore.ErrNotFound
	}
	u.EmailVerified = true
	f.users[email] = u
	return nil
}

type fakePending struct {
	mu      sync.Mutex
	records map[string]models.PendingRegistration
}

func newFakePending() *fakePending {
	return &fakePending{records: make(map[string]models.PendingRegistration)}
}

func (f *fakePending) Save(_ context.Context, p models.PendingRegistration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[p.Email] = p
	return nil
}

func (f *fakePending) Get(_ context.Context, email string) (*models.PendingRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.records[email]
	if !ok {
		return nil, pendingstore.ErrNotFound
	}
	return &p, nil
}

func (f *fakePending) MarkVerified(_ context.Context, email string, at, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.records[email]
	if !ok {
		p = models.PendingRegistration{Email: email, CreatedAt: at}
	}
	p.VerifiedAt = &at
	p.ExpiresAt = expiresAt
	f.records[email] = p
	return nil
}

func (f *fakePending) Delete(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, email)
	return nil
}

// fakeCodes accepts "123456" for any email that was issued a code.
type fakeCodes struct {
	mu       sync.Mutex
	issued   []string
	live     map[string]bool
	issueErr error
}

func newFakeCodes() *fakeCodes {
	return &fakeCodes{live: make(map[string]bool)}
}

func (f *fakeCodes) Issue(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.issueErr != nil {
		return f.issueErr
	}
	f.issued = append(f.issued, email)
	f.live[email] = true
	return nil
}

func (f *fakeCodes) Verify(_ context.Context, email, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.live[email] {
		return otp.ErrNotFound
	}
	if code != "123456" {
		return otp.ErrMismatch
	}
	delete(f.live, email)
	return nil
}

func (f *fakeCodes) issuedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.issued)
}
