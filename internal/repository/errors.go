package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when an insert or update hits a unique constraint.
	ErrDuplicate = errors.New("record violates a uniqueness constraint")
	// ErrNotFound is returned when a lookup by id matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrReferenced is returned when a delete is blocked by a foreign key.
	ErrReferenced = errors.New("record is still referenced")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrReferenced
		}
	}
	return err
}
