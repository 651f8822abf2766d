package repository

import (
	"context"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
)

// OrderRepository puerto de lectura de pedidos.
type OrderRepository interface {
	// GetByID devuelve el pedido con sus ítems, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}

// BranchRepository puerto de lectura de sucursales.
type BranchRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
}
