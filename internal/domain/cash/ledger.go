// Package cash contiene la lógica pura del libro de caja: saldo, permisos de visualización y
// armado de transferencias entre cajas.
package cash

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
)

// ComputeBalance calcula el saldo de un turno:
// saldo = apertura + Σ(ingresos + depósitos) − Σ(egresos + retiros).
// Se recalcula siempre desde la lista; el orden de los movimientos no importa. Sin turno, 0.
func ComputeBalance(shift *entity.CashRegisterShift, movements []entity.CashMovement) decimal.Decimal {
	if shift == nil {
		return decimal.Zero
	}
	balance := shift.OpeningAmount
	for _, m := range movements {
		balance = balance.Add(SignedAmount(m))
	}
	return balance
}

// SignedAmount devuelve el monto con el signo que aporta al saldo. Tipos desconocidos aportan 0.
func SignedAmount(m entity.CashMovement) decimal.Decimal {
	switch {
	case m.IsCredit():
		return m.Amount
	case m.IsDebit():
		return m.Amount.Neg()
	}
	return decimal.Zero
}

// Summary totales de un turno por tipo de movimiento.
type Summary struct {
	Opening    decimal.Decimal
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Deposit    decimal.Decimal
	Withdrawal decimal.Decimal
	Balance    decimal.Decimal
	Count      int
}

// Summarize agrupa los movimientos por tipo. Balance coincide con ComputeBalance.
func Summarize(shift *entity.CashRegisterShift, movements []entity.CashMovement) Summary {
	s := Summary{
		Opening:    decimal.Zero,
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		Deposit:    decimal.Zero,
		Withdrawal: decimal.Zero,
		Count:      len(movements),
	}
	if shift != nil {
		s.Opening = shift.OpeningAmount
	}
	for _, m := range movements {
		switch m.Type {
		case entity.CashMovementIncome:
			s.Income = s.Income.Add(m.Amount)
		case entity.CashMovementExpense:
			s.Expense = s.Expense.Add(m.Amount)
		case entity.CashMovementDeposit:
			s.Deposit = s.Deposit.Add(m.Amount)
		case entity.CashMovementWithdrawal:
			s.Withdrawal = s.Withdrawal.Add(m.Amount)
		}
	}
	s.Balance = ComputeBalance(shift, movements)
	return s
}

// Clasificaciones del desvío de arqueo.
const (
	DeviationNormal      = "normal"
	DeviationAdvertencia = "advertencia"
	DeviationCritico     = "critico"
)

// ClassifyDeviation clasifica la diferencia entre declarado y esperado:
// normal hasta 1%, advertencia hasta 5%, crítico por encima. Con esperado 0, cualquier diferencia es crítica.
func ClassifyDeviation(expected, difference decimal.Decimal) string {
	if difference.IsZero() {
		return DeviationNormal
	}
	if expected.IsZero() {
		return DeviationCritico
	}
	pct := difference.Div(expected).Mul(decimal.NewFromInt(100)).Abs()
	switch {
	case pct.LessThanOrEqual(decimal.NewFromInt(1)):
		return DeviationNormal
	case pct.LessThanOrEqual(decimal.NewFromInt(5)):
		return DeviationAdvertencia
	default:
		return DeviationCritico
	}
}
