package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canales de venta.
const (
	SalesChannelMostrador = "mostrador"
	SalesChannelApps      = "apps"
)

// Tipos de servicio de un pedido.
const (
	ServiceTypeSalon    = "salon"
	ServiceTypeTakeAway = "take_away"
	ServiceTypeDelivery = "delivery"
)

// Order es un pedido de la sucursal. El core de impresión solo lo lee.
type Order struct {
	ID           string
	BranchID     string
	Number       int     // numero_pedido, secuencial por sucursal
	CallerNumber *int    // numero_llamador (opcional)
	SalesChannel *string // mostrador | apps (nullable)
	ServiceType  string  // salon | take_away | delivery
	CreatedAt    time.Time
	Items        []OrderItem
}

// IsDineIn indica si el pedido se consume en el salón.
func (o *Order) IsDineIn() bool {
	return o.ServiceType == ServiceTypeSalon
}

// Channel devuelve el canal de venta o "" si no está informado.
func (o *Order) Channel() string {
	if o.SalesChannel == nil {
		return ""
	}
	return *o.SalesChannel
}

// Total suma los subtotales de los ítems.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// OrderItem línea de un pedido. CategoryID vacío = sin categoría.
type OrderItem struct {
	ID         string
	OrderID    string
	Name       string
	Quantity   int
	CategoryID string
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
	Notes      string
}
