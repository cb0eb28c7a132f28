package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/iliyamo/contact-book/internal/model"
	"github.com/iliyamo/contact-book/internal/repository"
	"github.com/iliyamo/contact-book/internal/utils"
)

// UserStore is the persistence the CredentialStore needs. Create must
// enforce username uniqueness atomically and report a clash with
// repository.ErrUsernameTaken; GetByUsername reports a miss with
// repository.ErrUserNotFound.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// CredentialStore registers users and verifies their passwords.
type CredentialStore struct {
	users UserStore
	cost  int
	log   *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialStore(users UserStore, bcryptCost int, log *slog.Logger) *CredentialStore {
	return &CredentialStore{users: users, cost: bcryptCost, log: log}
}

// Register hashes secret and stores a new user.
func (s *CredentialStore) Register(ctx context.Context, username, secret string) (model.User, error) {
	hash, err := utils.HashPassword(secret, s.cost)
	if err != nil {
		return model.User{}, wrapInternal("hash password", err)
	}
	u, err := s.users.Create(ctx, username, hash)
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return model.User{}, ErrDuplicateIdentity
	case err != nil:
		return model.User{}, wrapInternal("create user", err)
	}
	return u, nil
}

// Verify returns the user when secret matches the stored hash. An unknown
// username still costs one bcrypt comparison so that it cannot be told apart
// from a wrong password by timing.
func (s *CredentialStore) Verify(ctx context.Context, username, secret string) (model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		utils.VerifyPassword(s.dummy(), secret)
		return model.User{}, ErrInvalidCredentials
	case err != nil:
		return model.User{}, wrapInternal("load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, secret) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *CredentialStore) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := utils.HashPassword("not-a-real-password", s.cost)
		if err != nil {
			s.log.Error("dummy hash", "err", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
