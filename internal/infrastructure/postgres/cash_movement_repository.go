package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/restobar-api/internal/domain"
	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

var _ repository.CashMovementRepository = (*CashMovementRepo)(nil)

// CashMovementRepo movimientos de caja. Solo inserción y lectura (un trigger bloquea UPDATE/DELETE).
type CashMovementRepo struct {
	q Querier
}

// NewCashMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashMovementRepository(q Querier) *CashMovementRepo {
	return &CashMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *CashMovementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_movements (id, shift_id, type, amount, concept, recorded_by, transfer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ShiftID, m.Type, m.Amount, m.Concept, m.RecordedBy, nullIfEmpty(m.TransferID), m.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create cash movement: %w", err)
	}
	return nil
}

// ListByShift lista los movimientos del turno en orden cronológico.
func (r *CashMovementRepo) ListByShift(ctx context.Context, shiftID string) ([]entity.CashMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, shift_id, type, amount, concept, recorded_by, transfer_id, created_at
		FROM cash_movements WHERE shift_id = $1
		ORDER BY created_at, id`, shiftID)
	if err != nil {
		return nil, fmt.Errorf("list cash movements: %w", err)
	}
	defer rows.Close()
	var out []entity.CashMovement
	for rows.Next() {
		var m entity.CashMovement
		var transferID *string
		if err := rows.Scan(&m.ID, &m.ShiftID, &m.Type, &m.Amount, &m.Concept, &m.RecordedBy, &transferID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cash movement: %w", err)
		}
		m.TransferID = deref(transferID)
		out = append(out, m)
	}
	return out, rows.Err()
}
