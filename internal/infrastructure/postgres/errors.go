package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que el ledger distingue.
const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	// clase 22: data exception (numeric_value_out_of_range, invalid_text_representation, ...)
	classDataException = "22"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation asiento de auditoría con id repetido.
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isSerializationFailure otro escritor confirmó primero; el commit puede reintentarse.
func isSerializationFailure(err error) bool {
	return pgCode(err) == codeSerializationFailure
}

// isDataException el valor no cabe en la columna; repetir el INSERT falla igual.
func isDataException(err error) bool {
	return strings.HasPrefix(pgCode(err), classDataException)
}
