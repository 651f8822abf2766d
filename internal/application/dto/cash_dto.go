package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenShiftRequest body para POST /api/cash/shifts.
type OpenShiftRequest struct {
	RegisterID    string          `json:"register_id" validate:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount" validate:"gte=0"`
}

// CloseShiftRequest body para POST /api/cash/shifts/:id/close (arqueo).
type CloseShiftRequest struct {
	DeclaredAmount decimal.Decimal `json:"declared_amount" validate:"gte=0"`
	Notes          string          `json:"notes" validate:"max=500"`
}

// ManualMovementRequest body para POST /api/cash/shifts/:id/movements.
// Depósitos y retiros solo se generan por transferencias.
type ManualMovementRequest struct {
	Type    string          `json:"type" validate:"required,oneof=income expense"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
	Concept string          `json:"concept" validate:"required,max=200"`
}

// TransferRequest body para POST /api/cash/transfers.
// DestShiftID nulo = retiro final sin caja de destino.
type TransferRequest struct {
	SourceShiftID string          `json:"source_shift_id" validate:"required"`
	DestShiftID   *string         `json:"dest_shift_id,omitempty"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Concept       string          `json:"concept" validate:"required,max=120"` // prefijo fijo de la UI
	Notes         string          `json:"notes,omitempty" validate:"max=200"`
}

// ShiftResponse datos de un turno.
type ShiftResponse struct {
	ID            string          `json:"id"`
	RegisterID    string          `json:"register_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	Status        string          `json:"status"`
	OpenedBy      string          `json:"opened_by"`
	OpenedAt      time.Time       `json:"opened_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

// MovementDTO movimiento de caja.
type MovementDTO struct {
	ID         string          `json:"id"`
	ShiftID    string          `json:"shift_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Concept    string          `json:"concept"`
	RecordedBy string          `json:"recorded_by"`
	TransferID string          `json:"transfer_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ShiftTotalsDTO totales por tipo de movimiento.
type ShiftTotalsDTO struct {
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
	Deposit    decimal.Decimal `json:"deposit"`
	Withdrawal decimal.Decimal `json:"withdrawal"`
}

// ShiftSummaryResponse resumen de un turno. Balance, Totals y Movements solo viajan
// si el usuario tiene permiso; MovementCount siempre.
type ShiftSummaryResponse struct {
	Shift         ShiftResponse    `json:"shift"`
	RegisterName  string           `json:"register_name"`
	RegisterRole  string           `json:"register_role"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	Totals        *ShiftTotalsDTO  `json:"totals,omitempty"`
	Movements     []MovementDTO    `json:"movements,omitempty"`
	MovementCount int              `json:"movement_count"`
	Capabilities  []string         `json:"capabilities"`
}

// CloseShiftResponse resultado del arqueo.
type CloseShiftResponse struct {
	Shift          ShiftResponse   `json:"shift"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	DeclaredAmount decimal.Decimal `json:"declared_amount"`
	Difference     decimal.Decimal `json:"difference"`
	Classification string          `json:"classification"`
}

// TransferResponse resultado de una transferencia.
type TransferResponse struct {
	TransferID    string          `json:"transfer_id"`
	WithdrawalID  string          `json:"withdrawal_id"`
	EntryID       *string         `json:"entry_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	SourceBalance decimal.Decimal `json:"source_balance"`
}
