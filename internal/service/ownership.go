package service

import (
	"errors"

	"github.com/iliyamo/contact-book/internal/repository"
)

// OwnershipGate confines contact operations to the authenticated owner.
// It turns an identity into the owner id used to scope every query and
// folds "absent" and "owned by someone else" into ErrResourceNotFound.
type OwnershipGate struct{}

// Owner returns the owner id for id. A zero identity never comes out of
// the validator; seeing one means the caller skipped authentication.
func (OwnershipGate) Owner(id Identity) (uint64, error) {
	if id.UserID == 0 {
		return 0, ErrTokenMalformed
	}
	return id.UserID, nil
}

// Translate maps repository outcomes to the service taxonomy.
func (OwnershipGate) Translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrContactNotFound):
		return ErrResourceNotFound
	case errors.Is(err, repository.ErrOwnerNotFound):
		// the identity outlived its user row
		return ErrTokenRevoked
	default:
		return wrapInternal(op, err)
	}
}
