package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/iliyamo/contact-book/internal/model"
	"github.com/iliyamo/contact-book/internal/queue"
)

// EventPublisher delivers audit events. Delivery is best effort: a failure
// is logged and never fails the operation that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

// Session is the result of a successful login.
type Session struct {
	Token SessionToken
	User  model.User
}

// AuthService wires the credential store, issuer, validator and ledger into
// the register, login and logout operations.
type AuthService struct {
	Credentials *CredentialStore
	Issuer      *TokenIssuer
	Validator   *TokenValidator
	Ledger      *RevocationLedger

	events EventPublisher
	log    *slog.Logger
	now    func() time.Time
}

func NewAuthService(creds *CredentialStore, issuer *TokenIssuer, validator *TokenValidator, ledger *RevocationLedger, events EventPublisher, log *slog.Logger) *AuthService {
	return &AuthService{
		Credentials: creds,
		Issuer:      issuer,
		Validator:   validator,
		Ledger:      ledger,
		events:      events,
		log:         log,
		now:         time.Now,
	}
}

// Register creates a user. Input shape is validated by the caller.
func (a *AuthService) Register(ctx context.Context, username, secret string) (model.User, error) {
	u, err := a.Credentials.Register(ctx, username, secret)
	if err != nil {
		return model.User{}, err
	}
	a.log.InfoContext(ctx, "user registered", "user_id", u.ID)
	a.emit(ctx, queue.AuthEvent{Type: queue.EventUserRegistered, UserID: u.ID, Username: u.Username})
	return u, nil
}

// Login verifies credentials and issues a fresh token.
func (a *AuthService) Login(ctx context.Context, username, secret string) (Session, error) {
	u, err := a.Credentials.Verify(ctx, username, secret)
	if err != nil {
		return Session{}, err
	}
	tok, err := a.Issuer.Issue(u.ID)
	if err != nil {
		return Session{}, err
	}
	a.emit(ctx, queue.AuthEvent{Type: queue.EventSessionOpened, UserID: u.ID, Username: u.Username, TokenID: tok.ID})
	return Session{Token: tok, User: u}, nil
}

// Validate resolves raw to an identity; see TokenValidator.Validate.
func (a *AuthService) Validate(ctx context.Context, raw string) (Identity, error) {
	return a.Validator.Validate(ctx, raw)
}

// Logout revokes raw. The token must itself be valid: logging out with an
// expired, malformed or already revoked token fails with the matching token
// error. When two logouts of one token race, only one succeeds.
func (a *AuthService) Logout(ctx context.Context, raw string) error {
	tok, err := a.Validator.inspect(ctx, raw)
	if err != nil {
		return err
	}
	created, err := a.Ledger.Add(ctx, raw, tok.ExpiresAt)
	if err != nil {
		return err
	}
	if !created {
		// Either another logout won the race or the token expired while
		// we were here; in both cases it is no longer usable.
		return ErrTokenRevoked
	}
	a.log.InfoContext(ctx, "session revoked", "user_id", tok.Subject, "jti", tok.ID)
	a.emit(ctx, queue.AuthEvent{Type: queue.EventSessionRevoked, UserID: tok.Subject, TokenID: tok.ID})
	return nil
}

func (a *AuthService) emit(ctx context.Context, ev queue.AuthEvent) {
	if a.events == nil {
		return
	}
	ev.OccurredAt = a.now().UTC()
	if err := a.events.Publish(ctx, ev); err != nil {
		a.log.WarnContext(ctx, "publish auth event", "type", ev.Type, "err", err)
	}
}
