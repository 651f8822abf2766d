// Package printing decide qué impresoras reciben qué documentos de un pedido.
//
// El ruteo es determinístico y no hace I/O salvo la llamada al Renderer. Una impresora
// faltante o inactiva nunca es un error: el documento correspondiente simplemente no se genera.
package printing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
)

// Renderer convierte un documento en el payload nativo de la impresora.
type Renderer interface {
	Render(kind entity.DocumentKind, doc Document, paperWidth int) ([]byte, error)
}

// Document datos que recibe el renderer para cualquiera de los tres tipos.
type Document struct {
	BranchName   string
	OrderNumber  int
	CallerNumber *int
	SalesChannel string
	CreatedAt    time.Time
	Items        []DocumentItem
	Total        decimal.Decimal // solo se completa en el ticket
}

// DocumentItem línea de un documento.
type DocumentItem struct {
	Name      string
	Quantity  int
	Notes     string
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// RouteInput todo lo que el router necesita para un pedido.
type RouteInput struct {
	Order      *entity.Order
	Config     entity.PrinterConfig
	Printers   []entity.Printer
	Categories []entity.MenuCategory
	BranchName string
	IsDineIn   bool
}

// BuildPrintJobs arma los trabajos de impresión de un pedido: ticket de cliente, vales (uno por unidad)
// y comanda de cocina. Los tipos son independientes entre sí. El único error posible viene del renderer.
func BuildPrintJobs(in RouteInput, r Renderer) ([]entity.PrintJob, error) {
	if in.Order == nil {
		return nil, nil
	}
	policy := in.Config.Policy()
	printers := indexActivePrinters(in.Printers)
	treatments := indexTreatments(in.Categories)

	var jobs []entity.PrintJob

	if policy.TicketEnabled {
		if p, ok := printers[in.Config.TicketPrinterID]; ok {
			job, err := ticketJob(in, p, r)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}
	}

	if policy.SalonValesEnabled {
		if p, ok := printers[in.Config.ValePrinterID]; ok {
			vales, err := valeJobs(in, treatments, p, r)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, vales...)
		}
	}

	if p, ok := printers[in.Config.ComandaPrinterID]; ok {
		items := comandaItems(in.Order.Items, treatments, in.IsDineIn, policy.NoSalonAllInComanda)
		if len(items) > 0 {
			doc := baseDocument(in)
			doc.Items = items
			payload, err := r.Render(entity.DocumentKindComanda, doc, p.PaperWidth)
			if err != nil {
				return nil, fmt.Errorf("render comanda pedido %d: %w", in.Order.Number, err)
			}
			jobs = append(jobs, entity.PrintJob{
				Kind:      entity.DocumentKindComanda,
				PrinterID: p.ID,
				Payload:   payload,
				Label:     fmt.Sprintf("Comanda #%d", in.Order.Number),
			})
		}
	}

	return jobs, nil
}

// ResolveTreatment devuelve el tratamiento de impresión de un ítem. Sin categoría o con una
// categoría desconocida se usa entity.DefaultPrintTreatment.
func ResolveTreatment(item entity.OrderItem, treatments map[string]entity.PrintTreatment) entity.PrintTreatment {
	if item.CategoryID == "" {
		return entity.DefaultPrintTreatment
	}
	if t, ok := treatments[item.CategoryID]; ok && t.IsValid() {
		return t
	}
	return entity.DefaultPrintTreatment
}

func ticketJob(in RouteInput, p entity.Printer, r Renderer) (entity.PrintJob, error) {
	doc := baseDocument(in)
	doc.Items = make([]DocumentItem, 0, len(in.Order.Items))
	for _, it := range in.Order.Items {
		doc.Items = append(doc.Items, toDocumentItem(it))
	}
	doc.Total = in.Order.Total()
	payload, err := r.Render(entity.DocumentKindTicket, doc, p.PaperWidth)
	if err != nil {
		return entity.PrintJob{}, fmt.Errorf("render ticket pedido %d: %w", in.Order.Number, err)
	}
	return entity.PrintJob{
		Kind:      entity.DocumentKindTicket,
		PrinterID: p.ID,
		Payload:   payload,
		Label:     fmt.Sprintf("Ticket #%d", in.Order.Number),
	}, nil
}

func valeJobs(in RouteInput, treatments map[string]entity.PrintTreatment, p entity.Printer, r Renderer) ([]entity.PrintJob, error) {
	var jobs []entity.PrintJob
	for _, it := range in.Order.Items {
		if ResolveTreatment(it, treatments) != entity.PrintTreatmentVale {
			continue
		}
		for unit := 1; unit <= it.Quantity; unit++ {
			doc := baseDocument(in)
			doc.Items = []DocumentItem{{Name: it.Name, Quantity: 1, Notes: it.Notes, UnitPrice: it.UnitPrice, Subtotal: it.UnitPrice}}
			payload, err := r.Render(entity.DocumentKindVale, doc, p.PaperWidth)
			if err != nil {
				return nil, fmt.Errorf("render vale %q pedido %d: %w", it.Name, in.Order.Number, err)
			}
			jobs = append(jobs, entity.PrintJob{
				Kind:      entity.DocumentKindVale,
				PrinterID: p.ID,
				Payload:   payload,
				Label:     fmt.Sprintf("Vale %s (%d/%d) #%d", it.Name, unit, it.Quantity, in.Order.Number),
			})
		}
	}
	return jobs, nil
}

// comandaItems filtra los ítems que van a la comanda según el modo de servicio.
// Fuera del salón, con allInComanda, los vales también van a cocina porque no hay a quién entregarlos.
func comandaItems(items []entity.OrderItem, treatments map[string]entity.PrintTreatment, isDineIn, allInComanda bool) []DocumentItem {
	collapse := !isDineIn && allInComanda
	var out []DocumentItem
	for _, it := range items {
		t := ResolveTreatment(it, treatments)
		switch {
		case t == entity.PrintTreatmentComanda:
			out = append(out, toDocumentItem(it))
		case collapse && t != entity.PrintTreatmentNoImprimir:
			out = append(out, toDocumentItem(it))
		}
	}
	return out
}

func baseDocument(in RouteInput) Document {
	return Document{
		BranchName:   in.BranchName,
		OrderNumber:  in.Order.Number,
		CallerNumber: in.Order.CallerNumber,
		SalesChannel: in.Order.Channel(),
		CreatedAt:    in.Order.CreatedAt,
	}
}

func toDocumentItem(it entity.OrderItem) DocumentItem {
	return DocumentItem{
		Name:      it.Name,
		Quantity:  it.Quantity,
		Notes:     it.Notes,
		UnitPrice: it.UnitPrice,
		Subtotal:  it.Subtotal,
	}
}

func indexActivePrinters(list []entity.Printer) map[string]entity.Printer {
	out := make(map[string]entity.Printer, len(list))
	for _, p := range list {
		if p.IsActive && p.ID != "" {
			out[p.ID] = p
		}
	}
	return out
}

func indexTreatments(list []entity.MenuCategory) map[string]entity.PrintTreatment {
	out := make(map[string]entity.PrintTreatment, len(list))
	for _, c := range list {
		out[c.ID] = c.PrintTreatment
	}
	return out
}
