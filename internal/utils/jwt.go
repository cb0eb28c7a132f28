package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing for revocation keys
	"encoding/hex"  // hex encoding of digests
	"errors"
	"strconv"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
	"github.com/google/uuid"       // random token ids
)

// Errors returned by ParseAccessToken. ErrTokenExpired is only reported for
// tokens whose signature verified.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
)

// AccessClaims are the claims carried by a session token: subject (sub) is
// the decimal user id, ID (jti) a random UUID so that two tokens issued for
// the same user within one second still differ.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT together with the claims it encodes.
type AccessToken struct {
	Token    string    // the serialized JWT string
	ID       string    // jti
	IssuedAt time.Time // UTC issue time, second precision
	Exp      time.Time // UTC expiration time, second precision
}

// NewAccessToken builds and signs an HS256 JWT for userID, valid for ttl
// from now. Times are truncated to seconds because that is what the token
// can carry; Exp therefore matches what a verifier will later read.
func NewAccessToken(secret []byte, userID uint64, ttl time.Duration, now time.Time) (AccessToken, error) {
	iat := now.UTC().Truncate(time.Second)
	exp := iat.Add(ttl)
	jti := uuid.NewString()

	claims := AccessClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, ID: jti, IssuedAt: iat, Exp: exp}, nil
}

// ParseAccessToken checks raw against secret in two steps: structure,
// algorithm and signature first, then expiry against now. A token is
// expired once now is after its exp claim. It returns the subject as a user
// id along with the token's claims.
func ParseAccessToken(secret []byte, raw string, now time.Time) (uint64, AccessClaims, error) {
	var claims AccessClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.ExpiresAt == nil {
		return 0, claims, ErrTokenMalformed
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return 0, claims, ErrTokenMalformed
	}
	if now.After(claims.ExpiresAt.Time) {
		return 0, claims, ErrTokenExpired
	}
	return uid, claims, nil
}

// HashToken returns the SHA-256 hash of a raw token as a hex string. Only
// this digest is ever persisted.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
