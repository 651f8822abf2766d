package entity

// DocumentKind tipo de documento impreso.
type DocumentKind string

const (
	DocumentKindTicket  DocumentKind = "ticket"
	DocumentKindVale    DocumentKind = "vale"
	DocumentKindComanda DocumentKind = "comanda"
)

// IsValid verifica que el tipo sea uno de los conocidos.
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentKindTicket, DocumentKindVale, DocumentKindComanda:
		return true
	}
	return false
}

// PrintJob trabajo de impresión ya renderizado. Se crea por pedido y no se persiste en BD.
type PrintJob struct {
	Kind      DocumentKind
	PrinterID string
	Payload   []byte
	Label     string
}
