package cash

import (
	"context"
	"time"

	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

// CashTxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que los movimientos de una transferencia se escriben todos o ninguno.
type CashTxRunner interface {
	RunCash(ctx context.Context, fn func(
		shiftRepo repository.CashShiftRepository,
		movRepo repository.CashMovementRepository,
	) error) error
}

// IdempotencyStore reserva claves de idempotencia para operaciones que no deben repetirse.
type IdempotencyStore interface {
	// Reserve devuelve false si la clave ya estaba reservada.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release libera la clave para permitir reintentar una operación que falló.
	Release(ctx context.Context, key string) error
}
