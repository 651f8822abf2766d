package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restobar-api/internal/domain"
	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/repository"
)

var _ repository.CashShiftRepository = (*CashShiftRepo)(nil)

// CashShiftRepo turnos de caja (usable con pool o tx).
type CashShiftRepo struct {
	q Querier
}

// NewCashShiftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashShiftRepository(q Querier) *CashShiftRepo {
	return &CashShiftRepo{q: q}
}

const cashShiftColumns = `
	id, register_id, opening_amount, status, opened_by, opened_at,
	closed_by, closed_at, expected_amount, declared_amount, difference, notes`

func scanShift(row pgx.Row) (*entity.CashRegisterShift, error) {
	var s entity.CashRegisterShift
	var closedBy *string
	if err := row.Scan(
		&s.ID, &s.RegisterID, &s.OpeningAmount, &s.Status, &s.OpenedBy, &s.OpenedAt,
		&closedBy, &s.ClosedAt, &s.ExpectedAmount, &s.DeclaredAmount, &s.Difference, &s.Notes,
	); err != nil {
		return nil, err
	}
	s.ClosedBy = deref(closedBy)
	return &s, nil
}

// Create abre un turno. El índice único parcial rechaza un segundo turno abierto en la misma caja.
func (r *CashShiftRepo) Create(ctx context.Context, s *entity.CashRegisterShift) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO cash_register_shifts (id, register_id, opening_amount, status, opened_by, opened_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.RegisterID, s.OpeningAmount, s.Status, s.OpenedBy, s.OpenedAt, s.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create cash shift: %w", err)
	}
	return nil
}

// GetByID devuelve el turno o nil si no existe.
func (r *CashShiftRepo) GetByID(ctx context.Context, id string) (*entity.CashRegisterShift, error) {
	s, err := scanShift(r.q.QueryRow(ctx, `SELECT `+cashShiftColumns+` FROM cash_register_shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash shift: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el turno y bloquea la fila (SELECT FOR UPDATE). Solo tiene sentido dentro de una tx.
func (r *CashShiftRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashRegisterShift, error) {
	s, err := scanShift(r.q.QueryRow(ctx, `SELECT `+cashShiftColumns+` FROM cash_register_shifts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if isLockTimeout(err) {
			return nil, fmt.Errorf("turno %s bloqueado por otra operación: %w", id, domain.ErrConflict)
		}
		return nil, fmt.Errorf("get cash shift for update: %w", err)
	}
	return s, nil
}

// GetOpenByRegister devuelve el turno abierto de la caja o nil.
func (r *CashShiftRepo) GetOpenByRegister(ctx context.Context, registerID string) (*entity.CashRegisterShift, error) {
	s, err := scanShift(r.q.QueryRow(ctx,
		`SELECT `+cashShiftColumns+` FROM cash_register_shifts WHERE register_id = $1 AND status = 'open'`, registerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get open cash shift: %w", err)
	}
	return s, nil
}

// Close persiste el arqueo. Solo cierra turnos abiertos: si otro proceso lo cerró antes, ErrShiftClosed.
func (r *CashShiftRepo) Close(ctx context.Context, s *entity.CashRegisterShift) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE cash_register_shifts
		SET status = 'closed', closed_by = $2, closed_at = $3,
		    expected_amount = $4, declared_amount = $5, difference = $6, notes = $7
		WHERE id = $1 AND status = 'open'`,
		s.ID, nullIfEmpty(s.ClosedBy), s.ClosedAt, s.ExpectedAmount, s.DeclaredAmount, s.Difference, s.Notes,
	)
	if err != nil {
		return fmt.Errorf("close cash shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrShiftClosed
	}
	return nil
}
