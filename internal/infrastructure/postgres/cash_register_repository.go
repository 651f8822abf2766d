package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo lectura de cajas.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador.
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const cashRegisterColumns = `id, branch_id, name, role, is_active, created_at`

// GetByID devuelve la caja o nil si no existe.
func (r *CashRegisterRepo) GetByID(ctx context.Context, id string) (*entity.CashRegister, error) {
	var c entity.CashRegister
	err := r.q.QueryRow(ctx, `SELECT `+cashRegisterColumns+` FROM cash_registers WHERE id = $1`, id).
		Scan(&c.ID, &c.BranchID, &c.Name, &c.Role, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return &c, nil
}

// ListByBranch lista las cajas de una sucursal.
func (r *CashRegisterRepo) ListByBranch(ctx context.Context, branchID string) ([]entity.CashRegister, error) {
	rows, err := r.q.Query(ctx, `SELECT `+cashRegisterColumns+` FROM cash_registers WHERE branch_id = $1 ORDER BY name`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list cash registers: %w", err)
	}
	defer rows.Close()
	var out []entity.CashRegister
	for rows.Next() {
		var c entity.CashRegister
		if err := rows.Scan(&c.ID, &c.BranchID, &c.Name, &c.Role, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
