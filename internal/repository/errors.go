package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrSecurityNotFound  = errors.New("security not found")
	ErrExchangeNotFound  = errors.New("exchange not found")
	ErrUnknownSecurity   = errors.New("referential violation: security does not exist")
	ErrSecurityHasPrices = errors.New("delete restricted: security has price history")
	ErrDuplicateKey      = errors.New("uniqueness violation")
	ErrImmutableRow      = errors.New("row is immutable")
)

// SQLSTATE codes this package classifies
const (
	pgRestrictViolation   = "23001"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// pgCode extracts the SQLSTATE from a PostgreSQL error, or "".
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// classifyWrite maps integrity errors from INSERT/UPDATE statements to package sentinels.
// The original error is kept in the chain.
func classifyWrite(err error) error {
	switch pgCode(err) {
	case pgForeignKeyViolation:
		return errors.Join(ErrUnknownSecurity, err)
	case pgUniqueViolation:
		return errors.Join(ErrDuplicateKey, err)
	case pgRestrictViolation:
		return errors.Join(ErrImmutableRow, err)
	}
	return err
}

// classifyDelete maps integrity errors from DELETE statements to package sentinels.
func classifyDelete(err error) error {
	switch pgCode(err) {
	case pgForeignKeyViolation:
		return errors.Join(ErrSecurityHasPrices, err)
	case pgRestrictViolation:
		return errors.Join(ErrImmutableRow, err)
	}
	return err
}
