package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insertar item: %w", &pgconn.PgError{Code: "23505"})))

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro error")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsLockConflict(t *testing.T) {
	// lock_timeout vencido esperando la fila (configurado en NewPool).
	assert.True(t, isLockConflict(&pgconn.PgError{Code: "55P03"}))
	// Deadlock detectado por el servidor, también envuelto.
	assert.True(t, isLockConflict(fmt.Errorf("bloquear orden: %w", &pgconn.PgError{Code: "40P01"})))
	// Deadline del caller vencido durante la espera.
	assert.True(t, isLockConflict(context.DeadlineExceeded))
	assert.True(t, isLockConflict(context.Canceled))

	assert.False(t, isLockConflict(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isLockConflict(errors.New("conexión caída")))
	assert.False(t, isLockConflict(nil))
}
