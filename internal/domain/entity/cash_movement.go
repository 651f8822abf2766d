package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de caja.
const (
	CashMovementIncome     = "income"     // ingreso
	CashMovementExpense    = "expense"    // egreso
	CashMovementDeposit    = "deposit"    // depósito recibido
	CashMovementWithdrawal = "withdrawal" // retiro
)

// CashMovement movimiento de caja. Inmutable: las correcciones son movimientos nuevos.
// Amount siempre es >= 0; el signo lo da Type.
type CashMovement struct {
	ID         string
	ShiftID    string
	Type       string
	Amount     decimal.Decimal
	Concept    string
	RecordedBy string
	TransferID string // vacío salvo en transferencias; agrupa retiro y entrada
	CreatedAt  time.Time
}

// IsCredit indica si el movimiento suma al saldo.
func (m CashMovement) IsCredit() bool {
	return m.Type == CashMovementIncome || m.Type == CashMovementDeposit
}

// IsDebit indica si el movimiento resta del saldo.
func (m CashMovement) IsDebit() bool {
	return m.Type == CashMovementExpense || m.Type == CashMovementWithdrawal
}

// IsValidCashMovementType verifica el tipo.
func IsValidCashMovementType(t string) bool {
	switch t {
	case CashMovementIncome, CashMovementExpense, CashMovementDeposit, CashMovementWithdrawal:
		return true
	}
	return false
}
