package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestAccessToken_RoundTrip(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 500, time.UTC)

	tok, err := NewAccessToken(secret, 42, time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.Truncate(time.Second).Add(time.Hour), tok.Exp)
	assert.NotEmpty(t, tok.ID)

	uid, claims, err := ParseAccessToken(secret, tok.Token, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, tok.ID, claims.ID)
	assert.True(t, tok.Exp.Equal(claims.ExpiresAt.Time))
}

func TestAccessToken_SameSecondTokensDiffer(t *testing.T) {
	now := time.Now()
	a, err := NewAccessToken(secret, 1, time.Hour, now)
	require.NoError(t, err)
	b, err := NewAccessToken(secret, 1, time.Hour, now)
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.NotEqual(t, HashToken(a.Token), HashToken(b.Token))
}

func TestParseAccessToken_Expired(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken(secret, 1, time.Minute, now)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(secret, tok.Token, now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_ExpiredWithBadSignatureIsMalformed(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken([]byte("another-secret-another-secret-xx"), 1, time.Minute, now)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(secret, tok.Token, now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParseAccessToken_ExpiryBoundary(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	tok, err := NewAccessToken(secret, 1, time.Minute, now)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(secret, tok.Token, tok.Exp)
	assert.NoError(t, err)
	_, _, err = ParseAccessToken(secret, tok.Token, tok.Exp.Add(time.Nanosecond))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken(secret, 1, time.Hour, now)
	require.NoError(t, err)

	parts := strings.Split(tok.Token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "exp": now.Add(time.Hour).Unix()})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1"}).SignedString(secret)
	require.NoError(t, err)

	badSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "exp": now.Add(time.Hour).Unix()}).SignedString(secret)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage":     "not.a.jwt",
		"empty":       "",
		"tampered":    tampered,
		"alg none":    unsigned,
		"missing exp": noExp,
		"bad subject": badSub,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseAccessToken(secret, raw, now)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashToken("abc"))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, VerifyPassword(hash, "secret1"))
	assert.False(t, VerifyPassword(hash, "secret2"))

	other, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes are salted")

	_, err = HashPassword(strings.Repeat("x", 73), 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
