package model

import "time"

// Contact represents a row in the `contacts` table. Every contact
// belongs to exactly one user through OwnerID, which is stamped from
// the authenticated identity and never taken from client input.
//
// Fields:
//
//	ID        – primary key identifier.
//	OwnerID   – users.id of the owning user.
//	Name      – display name of the contact.
//	Phone     – phone number in "(DD) NNNNN-NNNN" form.
//	CreatedAt – timestamp of creation.
//	UpdatedAt – timestamp of last update.
type Contact struct {
	ID        uint64    // contacts.id
	OwnerID   uint64    // contacts.owner_id (references users.id)
	Name      string    // contacts.name
	Phone     string    // contacts.phone
	CreatedAt time.Time // contacts.created_at
	UpdatedAt time.Time // contacts.updated_at
}
