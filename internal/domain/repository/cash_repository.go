package repository

import (
	"context"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
)

// CashRegisterRepository lectura de cajas.
type CashRegisterRepository interface {
	GetByID(ctx context.Context, id string) (*entity.CashRegister, error)
	ListByBranch(ctx context.Context, branchID string) ([]entity.CashRegister, error)
}

// CashShiftRepository persistencia de turnos de caja (usable con pool o tx).
type CashShiftRepository interface {
	Create(ctx context.Context, shift *entity.CashRegisterShift) error
	GetByID(ctx context.Context, id string) (*entity.CashRegisterShift, error)
	// GetForUpdate bloquea la fila del turno (SELECT FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.CashRegisterShift, error)
	GetOpenByRegister(ctx context.Context, registerID string) (*entity.CashRegisterShift, error)
	Close(ctx context.Context, shift *entity.CashRegisterShift) error
}

// CashMovementRepository movimientos de caja. Solo alta y lectura: los movimientos no se modifican ni se borran.
type CashMovementRepository interface {
	Create(ctx context.Context, m *entity.CashMovement) error
	ListByShift(ctx context.Context, shiftID string) ([]entity.CashMovement, error)
}
