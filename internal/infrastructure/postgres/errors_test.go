package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgCode_ErrorEnvuelto(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})
	assert.True(t, isUniqueViolation(err))
	assert.False(t, isSerializationFailure(err))
}

func TestPgCode_ErrorSinCodigo(t *testing.T) {
	err := errors.New("23505 en el texto no basta")
	assert.False(t, isUniqueViolation(err))
	assert.Equal(t, "", pgCode(err))
}

func TestPgCode_Serializacion(t *testing.T) {
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: codeSerializationFailure}))
}

func TestPgCode_DesbordeNumerico(t *testing.T) {
	assert.True(t, isDataException(&pgconn.PgError{Code: "22003"}))
	assert.False(t, isDataException(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isDataException(errors.New("sin código")))
}
