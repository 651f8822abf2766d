package entity

import "time"

// Roles de caja dentro del circuito de efectivo.
const (
	RegisterRoleVentas = "ventas" // caja de mostrador
	RegisterRoleAlivio = "alivio" // acumula los alivios de las cajas de venta
	RegisterRoleFuerte = "fuerte" // caja fuerte, destino final
)

// CashRegister caja física o lógica de una sucursal.
type CashRegister struct {
	ID        string
	BranchID  string
	Name      string
	Role      string
	IsActive  bool
	CreatedAt time.Time
}
