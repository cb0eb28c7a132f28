package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iliyamo/contact-book/internal/utils"
)

// Identity is the authenticated user resolved from a valid session token.
type Identity struct {
	UserID uint64
}

// SessionToken is an issued token with the claims it encodes.
type SessionToken struct {
	Raw       string
	Subject   uint64
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs session tokens with a fixed lifetime.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: secret, ttl: ttl, now: now}
}

// Issue creates a token for userID expiring ttl after now. Earlier tokens of
// the same user stay valid.
func (i *TokenIssuer) Issue(userID uint64) (SessionToken, error) {
	tok, err := utils.NewAccessToken(i.secret, userID, i.ttl, i.now())
	if err != nil {
		return SessionToken{}, wrapInternal("sign token", err)
	}
	return SessionToken{
		Raw:       tok.Token,
		Subject:   userID,
		ID:        tok.ID,
		IssuedAt:  tok.IssuedAt,
		ExpiresAt: tok.Exp,
	}, nil
}

// TokenValidator is the gate every protected operation passes through.
type TokenValidator struct {
	secret []byte
	ledger *RevocationLedger
	now    func() time.Time
	log    *slog.Logger
}

func NewTokenValidator(secret []byte, ledger *RevocationLedger, now func() time.Time, log *slog.Logger) *TokenValidator {
	if now == nil {
		now = time.Now
	}
	return &TokenValidator{secret: secret, ledger: ledger, now: now, log: log}
}

// Validate checks signature, expiry and revocation of raw, in that order,
// and returns the identity embedded at issuance.
func (v *TokenValidator) Validate(ctx context.Context, raw string) (Identity, error) {
	tok, err := v.inspect(ctx, raw)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: tok.Subject}, nil
}

func (v *TokenValidator) inspect(ctx context.Context, raw string) (SessionToken, error) {
	uid, claims, err := utils.ParseAccessToken(v.secret, raw, v.now())
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			v.log.InfoContext(ctx, "token rejected", "reason", "expired")
			return SessionToken{}, ErrTokenExpired
		}
		v.log.InfoContext(ctx, "token rejected", "reason", "malformed")
		return SessionToken{}, ErrTokenMalformed
	}
	revoked, err := v.ledger.Contains(ctx, utils.HashToken(raw))
	if err != nil {
		return SessionToken{}, err
	}
	if revoked {
		v.log.InfoContext(ctx, "token rejected", "reason", "revoked", "user_id", uid)
		return SessionToken{}, ErrTokenRevoked
	}
	tok := SessionToken{Raw: raw, Subject: uid, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		tok.IssuedAt = claims.IssuedAt.Time
	}
	return tok, nil
}
