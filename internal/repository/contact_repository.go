package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"fmt"

	"github.com/iliyamo/contact-book/internal/model"
)

// ContactRepo encapsulates all queries on the 'contacts' table. Every
// statement that reads or changes an existing row carries the owner id in
// its WHERE clause; there is no lookup by id alone.
type ContactRepo struct {
	db *sql.DB
}

// NewContactRepo constructs a ContactRepo with the provided DB handle.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// Create inserts a new contact. On success c.ID holds the generated key.
func (r *ContactRepo) Create(ctx context.Context, c *model.Contact) error {
	const q = "INSERT INTO contacts (owner_id, name, phone) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, q, c.OwnerID, c.Name, c.Phone)
	if err != nil {
		if isMySQLError(err, mysqlNoParentRow) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	c.ID = uint64(id)
	return nil
}

// ListByOwner returns the owner's contacts ordered by name. Ties are broken
// by id so the order is stable. An owner without contacts gets an empty,
// non-nil slice.
func (r *ContactRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Contact, error) {
	const q = `SELECT id, owner_id, name, phone
	           FROM contacts WHERE owner_id = ? ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return out, nil
}

// UpdateByIDAndOwner overwrites name and phone of c.ID if it belongs to
// c.OwnerID. It returns ErrContactNotFound when no row matched.
func (r *ContactRepo) UpdateByIDAndOwner(ctx context.Context, c *model.Contact) error {
	const q = `UPDATE contacts
	           SET name = ?, phone = ?
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, c.ID, c.OwnerID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return expectOneRow(res)
}

// DeleteByIDAndOwner removes the contact if it belongs to ownerID. It
// returns ErrContactNotFound when no row matched.
func (r *ContactRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	const q = "DELETE FROM contacts WHERE id = ? AND owner_id = ?"
	res, err := r.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrContactNotFound
	}
	return nil
}
