package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un turno de caja.
const (
	ShiftStatusOpen   = "open"
	ShiftStatusClosed = "closed"
)

// CashRegisterShift turno de caja: período en que la caja acumula movimientos desde un saldo inicial.
// Una caja tiene como máximo un turno abierto (índice único parcial en BD).
type CashRegisterShift struct {
	ID             string
	RegisterID     string
	OpeningAmount  decimal.Decimal
	Status         string
	OpenedBy       string
	OpenedAt       time.Time
	ClosedBy       string
	ClosedAt       *time.Time
	ExpectedAmount *decimal.Decimal // saldo calculado al cierre
	DeclaredAmount *decimal.Decimal // arqueo declarado
	Difference     *decimal.Decimal // declarado - esperado
	Notes          string
}

// IsOpen indica si el turno admite movimientos.
func (s *CashRegisterShift) IsOpen() bool {
	return s.Status == ShiftStatusOpen
}
