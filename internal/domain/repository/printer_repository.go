package repository

import (
	"context"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
)

// PrinterRepository lectura de impresoras y configuración de impresión por sucursal.
type PrinterRepository interface {
	ListByBranch(ctx context.Context, branchID string) ([]entity.Printer, error)
	// GetConfig devuelve nil si la sucursal no tiene configuración de impresión.
	GetConfig(ctx context.Context, branchID string) (*entity.PrinterConfig, error)
}

// CategoryRepository lectura de categorías del menú.
type CategoryRepository interface {
	ListByBranch(ctx context.Context, branchID string) ([]entity.MenuCategory, error)
}
