package account

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/campusride/internal/app/store/users"
	"github.com/dalemusser/campusride/internal/app/system/authutil"
	"github.com/dalemusser/campusride/internal/domain/models"
	"go.uber.org/zap"
)

type demoUser struct {
	user     models.User
	password string
}

var demoUsers = []demoUser{
	{
		user: models.User{
			Email: "rider@demo.com", Name: "Demo Rider", Role: models.RoleRider,
			PRN: "PRN001", License: "LIC001", Vehicle: "MH12AB1234",
		},
		password: "rider123",
	},
	{
		user: models.User{
			Email: "passenger@demo.com", Name: "Demo Passenger", Role: models.RolePassenger,
			PRN: "PRN002",
		},
		password: "passenger123",
	},
}

// SeedDemoUsers creates the two demo accounts if they do not exist. It
// returns how many were created.
func (s *Service) SeedDemoUsers(ctx context.Context) (int, error) {
	created := 0
	for _, d := range demoUsers {
		hash, err := authutil.HashPassword(d.password)
		if err != nil {
			return created, err
		}
		u := d.user
		u.PasswordHash = hash
		u.EmailVerified = true
		u.Rating = models.DefaultRating

		if _, err := s.users.Create(ctx, u); err != nil {
			if errors.Is(err, userstore.ErrDuplicateEmail) {
				continue
			}
			return created, err
		}
		created++
		s.log.Info("demo user seeded", zap.String("email", u.Email), zap.String("role", u.Role))
	}
	return created, nil
}
