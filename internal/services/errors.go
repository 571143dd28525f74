package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
)

// DuplicateIdentityError reports a case-insensitive username/email collision,
// naming every conflicting field.
type DuplicateIdentityError struct {
	Fields []string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("already taken: %s", strings.Join(e.Fields, ", "))
}

// ValidationError aggregates every offending field or item in one error so
// the caller sees the whole picture instead of the first failure.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) HasProblems() bool {
	return len(e.Problems) > 0
}

const pgUniqueViolation = "23505"

// isDuplicateKey recognizes unique-constraint violations from both gorm's
// error translation and raw postgres errors, so concurrent inserts that slip
// past the pre-checks still map onto the normal error taxonomy.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
