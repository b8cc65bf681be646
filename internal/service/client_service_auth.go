package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MKhiriev/lks-registry/models"
	"golang.org/x/crypto/bcrypt"
)

// Login implements DashboardService. Hashing runs on the caller's goroutine;
// only the final state change runs on the controller.
func (s *dashboardService) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrWrongPassword
	}

	var (
		stored   models.User
		hasUsers bool
	)
	err := s.do(ctx, func() error {
		hasUsers = len(s.state.Users) > 0
		if idx := findUser(s.state.Users, username); idx >= 0 {
			stored = s.state.Users[idx]
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !hasUsers {
		return s.createFirstAdmin(ctx, username, password)
	}

	if stored.Username == "" {
		return ErrWrongPassword
	}
	if err = bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongPassword
		}
		return fmt.Errorf("check password: %w", err)
	}

	return s.do(ctx, func() error {
		return s.mutate(models.ChangeNotifications, func(state *models.AppState) error {
			state.IsLoggedIn = true
			current := stored.Public()
			state.CurrentUser = &current
			s.notifications.Add(state, current.Username, models.ActionLogin, current.Username)
			return nil
		})
	})
}

func (s *dashboardService) createFirstAdmin(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	admin := models.User{Username: username, Name: username, Role: models.RoleAdmin, PasswordHash: string(hash)}

	return s.do(ctx, func() error {
		if len(s.state.Users) > 0 {
			return ErrUserExists
		}
		return s.mutate(models.ChangeUsers, func(state *models.AppState) error {
			state.Users = append(state.Users, admin)
			state.IsLoggedIn = true
			current := admin.Public()
			state.CurrentUser = &current
			s.notifications.Add(state, username, models.ActionCreate, "user "+username)
			return nil
		})
	})
}

func (s *dashboardService) Logout(ctx context.Context) error {
	return s.do(ctx, func() error {
		return s.mutate(models.ChangeSession, func(state *models.AppState) error {
			state.IsLoggedIn = false
			state.CurrentUser = nil
			return nil
		})
	})
}

// AddUser implements DashboardService. Only a logged-in admin may add users;
// an empty role defaults to operator.
func (s *dashboardService) AddUser(ctx context.Context, user models.User, password string) error {
	user.Username = strings.TrimSpace(user.Username)
	if user.Username == "" || password == "" {
		return ErrInvalidDataProvided
	}
	if user.Role == "" {
		user.Role = models.RoleOperator
	}
	if user.Name == "" {
		user.Name = user.Username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	return s.do(ctx, func() error {
		if !s.state.IsLoggedIn || s.state.CurrentUser == nil || s.state.CurrentUser.Role != models.RoleAdmin {
			return ErrNotLoggedIn
		}
		return s.mutate(models.ChangeUsers, func(state *models.AppState) error {
			if findUser(state.Users, user.Username) >= 0 {
				return ErrUserExists
			}
			state.Users = append(state.Users, user)
			s.notifications.Add(state, s.actor(), models.ActionCreate, "user "+user.Username)
			return nil
		})
	})
}

func findUser(users []models.User, username string) int {
	return slices.IndexFunc(users, func(u models.User) bool { return u.Username == username })
}
