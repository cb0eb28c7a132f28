package service

import (
	"context"
	"log/slog"

	"github.com/iliyamo/contact-book/internal/model"
)

// ContactRepository is the owner-scoped persistence behind ContactService.
// Update and delete report a miss with repository.ErrContactNotFound.
type ContactRepository interface {
	Create(ctx context.Context, c *model.Contact) error
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Contact, error)
	UpdateByIDAndOwner(ctx context.Context, c *model.Contact) error
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error
}

// ContactInput carries client supplied fields. There is no owner field:
// ownership always comes from the identity.
type ContactInput struct {
	Name  string
	Phone string
}

// ContactService is the contact store as seen by an authenticated caller.
type ContactService struct {
	repo ContactRepository
	gate OwnershipGate
	log  *slog.Logger
}

func NewContactService(repo ContactRepository, log *slog.Logger) *ContactService {
	return &ContactService{repo: repo, log: log}
}

// Create stores a contact owned by id.
func (s *ContactService) Create(ctx context.Context, id Identity, in ContactInput) (model.Contact, error) {
	owner, err := s.gate.Owner(id)
	if err != nil {
		return model.Contact{}, err
	}
	c := model.Contact{OwnerID: owner, Name: in.Name, Phone: in.Phone}
	if err := s.repo.Create(ctx, &c); err != nil {
		return model.Contact{}, s.gate.Translate("create contact", err)
	}
	s.log.DebugContext(ctx, "contact created", "user_id", owner, "contact_id", c.ID)
	return c, nil
}

// List returns id's contacts ordered by name. The result is never nil.
func (s *ContactService) List(ctx context.Context, id Identity) ([]model.Contact, error) {
	owner, err := s.gate.Owner(id)
	if err != nil {
		return nil, err
	}
	out, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, s.gate.Translate("list contacts", err)
	}
	if out == nil {
		out = []model.Contact{}
	}
	return out, nil
}

// Update replaces name and phone of contactID when id owns it.
func (s *ContactService) Update(ctx context.Context, id Identity, contactID uint64, in ContactInput) (model.Contact, error) {
	owner, err := s.gate.Owner(id)
	if err != nil {
		return model.Contact{}, err
	}
	c := model.Contact{ID: contactID, OwnerID: owner, Name: in.Name, Phone: in.Phone}
	if err := s.repo.UpdateByIDAndOwner(ctx, &c); err != nil {
		return model.Contact{}, s.gate.Translate("update contact", err)
	}
	return c, nil
}

// Delete removes contactID when id owns it.
func (s *ContactService) Delete(ctx context.Context, id Identity, contactID uint64) error {
	owner, err := s.gate.Owner(id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByIDAndOwner(ctx, contactID, owner); err != nil {
		return s.gate.Translate("delete contact", err)
	}
	s.log.DebugContext(ctx, "contact deleted", "user_id", owner, "contact_id", contactID)
	return nil
}
