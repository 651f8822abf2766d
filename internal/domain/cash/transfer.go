package cash

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/restobar-api/internal/domain"
	"github.com/jhoicas/restobar-api/internal/domain/entity"
)

// TransferRequest datos de una transferencia entre turnos de caja.
// DestShift nil = retiro final sin caja de destino (p. ej. depósito bancario).
type TransferRequest struct {
	TransferID   string
	SourceShift  *entity.CashRegisterShift
	DestShift    *entity.CashRegisterShift
	DestRegister *entity.CashRegister
	Amount       decimal.Decimal
	Concept      string
	UserID       string
	Now          time.Time
}

// TransferPlan movimientos a insertar en la misma transacción.
type TransferPlan struct {
	Withdrawal entity.CashMovement
	Entry      *entity.CashMovement // nil sin destino
}

// Movements devuelve los movimientos del plan en orden de inserción.
func (p TransferPlan) Movements() []entity.CashMovement {
	out := []entity.CashMovement{p.Withdrawal}
	if p.Entry != nil {
		out = append(out, *p.Entry)
	}
	return out
}

// HasCentPrecision indica si el monto cabe en NUMERIC(14,2) sin redondeo.
// "1.500" es válido; "1.505" no.
func HasCentPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

// ValidateTransfer chequea las precondiciones que no dependen del saldo.
func ValidateTransfer(req TransferRequest) error {
	if !req.Amount.GreaterThan(decimal.Zero) || !HasCentPrecision(req.Amount) {
		return domain.ErrInvalidInput
	}
	if strings.TrimSpace(req.Concept) == "" || req.UserID == "" {
		return domain.ErrInvalidInput
	}
	if req.SourceShift == nil {
		return domain.ErrNotFound
	}
	if !req.SourceShift.IsOpen() {
		return domain.ErrShiftClosed
	}
	if req.DestShift != nil {
		if req.DestShift.ID == req.SourceShift.ID {
			return domain.ErrInvalidInput
		}
		if !req.DestShift.IsOpen() {
			return domain.ErrShiftClosed
		}
	}
	return nil
}

// PlanTransfer arma el retiro en origen y la entrada en destino por el mismo monto.
// La entrada es un depósito si el destino es la caja fuerte, un ingreso en cualquier otro caso.
// sourceBalance es el saldo del origen leído bajo bloqueo: si no alcanza, ErrInsufficientBalance.
func PlanTransfer(req TransferRequest, sourceBalance decimal.Decimal) (TransferPlan, error) {
	if err := ValidateTransfer(req); err != nil {
		return TransferPlan{}, err
	}
	if req.Amount.GreaterThan(sourceBalance) {
		return TransferPlan{}, domain.ErrInsufficientBalance
	}
	concept := strings.TrimSpace(req.Concept)
	plan := TransferPlan{
		Withdrawal: entity.CashMovement{
			ShiftID:    req.SourceShift.ID,
			Type:       entity.CashMovementWithdrawal,
			Amount:     req.Amount,
			Concept:    concept,
			RecordedBy: req.UserID,
			TransferID: req.TransferID,
			CreatedAt:  req.Now,
		},
	}
	if req.DestShift != nil {
		entryType := entity.CashMovementIncome
		if req.DestRegister != nil && req.DestRegister.Role == entity.RegisterRoleFuerte {
			entryType = entity.CashMovementDeposit
		}
		plan.Entry = &entity.CashMovement{
			ShiftID:    req.DestShift.ID,
			Type:       entryType,
			Amount:     req.Amount,
			Concept:    concept,
			RecordedBy: req.UserID,
			TransferID: req.TransferID,
			CreatedAt:  req.Now,
		}
	}
	return plan, nil
}

// ComposeConcept arma el concepto de auditoría: prefijo fijo más notas opcionales.
func ComposeConcept(prefix, notes string) string {
	prefix = strings.TrimSpace(prefix)
	notes = strings.TrimSpace(notes)
	switch {
	case notes == "":
		return prefix
	case prefix == "":
		return notes
	}
	return prefix + " - " + notes
}
