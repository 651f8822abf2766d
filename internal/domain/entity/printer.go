package entity

// Anchos de papel soportados (mm).
const (
	PaperWidth58 = 58
	PaperWidth80 = 80
)

// Printer impresora configurada en una sucursal.
type Printer struct {
	ID         string
	BranchID   string
	Name       string
	Host       string
	Port       int
	PaperWidth int // mm
	IsActive   bool
}

// Toggle es un flag de configuración de tres estados. Unset deja decidir al default de cada política.
type Toggle int

const (
	ToggleUnset Toggle = iota
	ToggleEnabled
	ToggleDisabled
)

// ToggleFromPtr convierte un booleano nullable (columna de BD, campo JSON) en Toggle.
func ToggleFromPtr(b *bool) Toggle {
	switch {
	case b == nil:
		return ToggleUnset
	case *b:
		return ToggleEnabled
	default:
		return ToggleDisabled
	}
}

// Ptr es la inversa de ToggleFromPtr.
func (t Toggle) Ptr() *bool {
	switch t {
	case ToggleEnabled:
		v := true
		return &v
	case ToggleDisabled:
		v := false
		return &v
	}
	return nil
}

// Resolve devuelve el booleano efectivo, usando def cuando el flag no fue definido.
func (t Toggle) Resolve(def bool) bool {
	switch t {
	case ToggleEnabled:
		return true
	case ToggleDisabled:
		return false
	}
	return def
}

// PrinterConfig configuración de impresión de una sucursal (una por sucursal).
// Los IDs vacíos significan "sin impresora asignada".
type PrinterConfig struct {
	BranchID            string
	TicketPrinterID     string
	TicketEnabled       bool
	ValePrinterID       string
	ComandaPrinterID    string
	SalonValesEnabled   Toggle // default: habilitado
	NoSalonAllInComanda Toggle // default: habilitado
}

// PrintPolicy son los flags de PrinterConfig ya resueltos a booleanos.
type PrintPolicy struct {
	TicketEnabled       bool
	SalonValesEnabled   bool
	NoSalonAllInComanda bool
}

// Policy resuelve los flags de tres estados una sola vez.
func (c PrinterConfig) Policy() PrintPolicy {
	return PrintPolicy{
		TicketEnabled:       c.TicketEnabled,
		SalonValesEnabled:   c.SalonValesEnabled.Resolve(true),
		NoSalonAllInComanda: c.NoSalonAllInComanda.Resolve(true),
	}
}
