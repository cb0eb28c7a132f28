// Package repository defines the data access layer and the sentinel errors
// shared by its repositories. Higher layers translate these values into the
// service error taxonomy; raw driver errors are only ever wrapped.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUsernameTaken is returned when the users.username unique index rejects
// an insert.
var ErrUsernameTaken = errors.New("username already exists")

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrContactNotFound is returned when a contact does not exist or is not
// owned by the requesting user; the two cases are not distinguished.
var ErrContactNotFound = errors.New("contact not found")

// ErrOwnerNotFound is returned when a contact references a user that no
// longer exists (foreign key violation).
var ErrOwnerNotFound = errors.New("owner not found")

// MySQL server error numbers inspected by the repositories.
const (
	mysqlDupEntry    = 1062 // ER_DUP_ENTRY
	mysqlNoParentRow = 1452 // ER_NO_REFERENCED_ROW_2
)

func isMySQLError(err error, number uint16) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == number
}
