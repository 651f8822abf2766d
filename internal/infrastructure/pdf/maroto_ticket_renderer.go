// Package pdf renderiza tickets, vales y comandas como PDF de una sola página con el ancho
// del rollo (58 u 80 mm), para impresoras que reciben PDF o para vista previa.
//
// Layout (ticket):
//
//	┌──────────────────────────┐
//	│  SUCURSAL / Pedido #N    │
//	│  Llamador · canal · hora │
//	│  ──────────────────────  │
//	│  Cant x Ítem    Subtotal │
//	│    > notas               │
//	│  ──────────────────────  │
//	│  TOTAL                   │
//	└──────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/printing"
)

var _ printing.Renderer = (*TicketRenderer)(nil)

const margin = 3.0 // mm

var colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}

// TicketRenderer implementa printing.Renderer usando Maroto v2.
type TicketRenderer struct {
	defaultPaperWidth int
}

// NewTicketRenderer construye el renderer. defaultPaperWidth se usa si la impresora no informa un ancho válido.
func NewTicketRenderer(defaultPaperWidth int) *TicketRenderer {
	if defaultPaperWidth != entity.PaperWidth58 && defaultPaperWidth != entity.PaperWidth80 {
		defaultPaperWidth = entity.PaperWidth80
	}
	return &TicketRenderer{defaultPaperWidth: defaultPaperWidth}
}

// Render genera el PDF y devuelve sus bytes. El alto de página se calcula con las filas del documento.
func (g *TicketRenderer) Render(kind entity.DocumentKind, doc printing.Document, paperWidth int) ([]byte, error) {
	if paperWidth != entity.PaperWidth58 && paperWidth != entity.PaperWidth80 {
		paperWidth = g.defaultPaperWidth
	}
	fontSize := 8.0
	if paperWidth == entity.PaperWidth58 {
		fontSize = 7
	}

	b := &rowBuilder{font: fontSize}
	switch kind {
	case entity.DocumentKindTicket:
		ticketRows(b, doc)
	case entity.DocumentKindVale:
		valeRows(b, doc)
	case entity.DocumentKindComanda:
		comandaRows(b, doc)
	default:
		return nil, fmt.Errorf("pdf: tipo de documento desconocido %q", kind)
	}

	cfg := config.NewBuilder().
		WithDimensions(float64(paperWidth), b.height+2*margin+2).
		WithLeftMargin(margin).WithRightMargin(margin).
		WithTopMargin(margin).WithBottomMargin(margin).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: fontSize}).
		WithTitle(fmt.Sprintf("%s #%d", kind, doc.OrderNumber), true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(b.rows...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar %s: %w", kind, err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func ticketRows(b *rowBuilder, doc printing.Document) {
	b.text(6, doc.BranchName, props.Text{Style: fontstyle.Bold, Size: b.font + 2, Align: align.Center})
	b.text(5, fmt.Sprintf("Pedido #%d", doc.OrderNumber), props.Text{Align: align.Center})
	headerRows(b, doc)
	b.separator()
	for _, it := range doc.Items {
		b.pair(fmt.Sprintf("%d x %s", it.Quantity, it.Name), "$"+it.Subtotal.StringFixed(2), false)
		if it.Quantity > 1 {
			b.text(4, "    c/u $"+it.UnitPrice.StringFixed(2), props.Text{Size: b.font - 1, Color: colorGray})
		}
		notesRow(b, it.Notes)
	}
	b.separator()
	b.pair("TOTAL", "$"+doc.Total.StringFixed(2), true)
	b.text(6, "¡Gracias por su compra!", props.Text{Align: align.Center, Top: 2})
}

func valeRows(b *rowBuilder, doc printing.Document) {
	b.text(6, "VALE", props.Text{Style: fontstyle.Bold, Size: b.font + 2, Align: align.Center})
	b.text(5, doc.BranchName, props.Text{Align: align.Center, Color: colorGray})
	b.separator()
	for _, it := range doc.Items {
		b.text(9, it.Name, props.Text{Style: fontstyle.Bold, Size: b.font + 6, Align: align.Center})
		notesRow(b, it.Notes)
	}
	b.separator()
	b.text(5, fmt.Sprintf("Pedido #%d", doc.OrderNumber), props.Text{Align: align.Center})
	headerRows(b, doc)
}

func comandaRows(b *rowBuilder, doc printing.Document) {
	b.text(7, "COMANDA", props.Text{Style: fontstyle.Bold, Size: b.font + 4, Align: align.Center})
	b.text(7, fmt.Sprintf("#%d", doc.OrderNumber), props.Text{Style: fontstyle.Bold, Size: b.font + 4, Align: align.Center})
	headerRows(b, doc)
	b.separator()
	for _, it := range doc.Items {
		b.text(6, fmt.Sprintf("%d x %s", it.Quantity, it.Name), props.Text{Style: fontstyle.Bold, Size: b.font + 1})
		notesRow(b, it.Notes)
	}
	b.separator()
}

func headerRows(b *rowBuilder, doc printing.Document) {
	if doc.CallerNumber != nil {
		b.text(7, fmt.Sprintf("Llamador %d", *doc.CallerNumber), props.Text{Style: fontstyle.Bold, Size: b.font + 4, Align: align.Center})
	}
	var parts []string
	if doc.SalesChannel != "" {
		parts = append(parts, strings.ToUpper(doc.SalesChannel))
	}
	if !doc.CreatedAt.IsZero() {
		parts = append(parts, doc.CreatedAt.Format("02/01/2006 15:04"))
	}
	if len(parts) > 0 {
		b.text(4, strings.Join(parts, " · "), props.Text{Size: b.font - 1, Align: align.Center, Color: colorGray})
	}
}

func notesRow(b *rowBuilder, notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}
	b.text(4, "  > "+notes, props.Text{Size: b.font - 1, Style: fontstyle.Italic})
}

// rowBuilder acumula filas y su alto total (mm) para dimensionar la página.
type rowBuilder struct {
	rows   []core.Row
	height float64
	font   float64
}

func (b *rowBuilder) add(h float64, r core.Row) {
	b.rows = append(b.rows, r)
	b.height += h
}

func (b *rowBuilder) text(h float64, value string, p props.Text) {
	if p.Size == 0 {
		p.Size = b.font
	}
	b.add(h, row.New(h).Add(col.New(12).Add(text.New(value, p))))
}

func (b *rowBuilder) pair(left, right string, bold bool) {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	b.add(5, row.New(5).Add(
		col.New(8).Add(text.New(left, props.Text{Size: b.font, Style: style})),
		col.New(4).Add(text.New(right, props.Text{Size: b.font, Style: style, Align: align.Right})),
	))
}

func (b *rowBuilder) separator() {
	b.add(2, line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.2}))
}
