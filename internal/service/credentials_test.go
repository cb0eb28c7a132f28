package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/contact-book/internal/logging"
)

func TestCredentialStore_Register(t *testing.T) {
	users := newMemUsers()
	s := NewCredentialStore(users, 4, logging.Discard())

	u, err := s.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2"), "bcrypt hash expected")
}

func TestCredentialStore_DuplicateRegardlessOfPassword(t *testing.T) {
	s := NewCredentialStore(newMemUsers(), 4, logging.Discard())
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	for _, pw := range []string{"secret1", "another", "x"} {
		_, err := s.Register(ctx, "alice", pw)
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	}

	// usernames are case-sensitive
	_, err = s.Register(ctx, "Alice", "secret1")
	assert.NoError(t, err)
}

func TestCredentialStore_Verify(t *testing.T) {
	s := NewCredentialStore(newMemUsers(), 4, logging.Discard())
	ctx := context.Background()
	reg, err := s.Register(ctx, "alice", "secret1")
	require.NoError(t, err)

	u, err := s.Verify(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	_, wrongPw := s.Verify(ctx, "alice", "secret2")
	_, unknown := s.Verify(ctx, "bob", "secret1")
	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestCredentialStore_StoreFailureIsInternal(t *testing.T) {
	users := newMemUsers()
	users.err = errBoom
	s := NewCredentialStore(users, 4, logging.Discard())

	_, err := s.Register(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, errBoom)

	_, err = s.Verify(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestCredentialStore_SecretTooLongIsInternal(t *testing.T) {
	s := NewCredentialStore(newMemUsers(), 4, logging.Discard())
	_, err := s.Register(context.Background(), "alice", strings.Repeat("p", 80))
	assert.ErrorIs(t, err, ErrInternal)
}
