package entity

// PrintTreatment indica cómo se imprimen los ítems de una categoría del menú.
type PrintTreatment string

const (
	PrintTreatmentComanda    PrintTreatment = "comanda"     // va al ticket de cocina
	PrintTreatmentVale       PrintTreatment = "vale"        // un vale por unidad
	PrintTreatmentNoImprimir PrintTreatment = "no_imprimir" // nunca se imprime
)

// DefaultPrintTreatment se aplica a ítems sin categoría o con una categoría que no existe.
// Ante la duda la comida va a cocina: nunca se descarta un ítem en silencio.
const DefaultPrintTreatment = PrintTreatmentComanda

// IsValid verifica que el tratamiento sea uno de los conocidos.
func (t PrintTreatment) IsValid() bool {
	switch t {
	case PrintTreatmentComanda, PrintTreatmentVale, PrintTreatmentNoImprimir:
		return true
	}
	return false
}

// MenuCategory categoría del menú de una sucursal.
type MenuCategory struct {
	ID             string
	BranchID       string
	Name           string
	PrintTreatment PrintTreatment
}
