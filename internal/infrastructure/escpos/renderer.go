// Package escpos renderiza tickets, vales y comandas en comandos ESC/POS para impresoras térmicas.
//
// El texto se codifica en CP858 (página 19 en impresoras Epson y compatibles), que cubre
// acentos, ñ y el símbolo del euro. Los caracteres fuera de la página se reemplazan por '?'.
package escpos

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/printing"
)

var _ printing.Renderer = (*Renderer)(nil)

// Comandos ESC/POS usados.
var (
	cmdInit        = []byte{0x1B, 0x40}             // ESC @
	cmdCodePage858 = []byte{0x1B, 0x74, 19}         // ESC t 19
	cmdAlignLeft   = []byte{0x1B, 0x61, 0}          // ESC a 0
	cmdAlignCenter = []byte{0x1B, 0x61, 1}          // ESC a 1
	cmdBoldOn      = []byte{0x1B, 0x45, 1}          // ESC E 1
	cmdBoldOff     = []byte{0x1B, 0x45, 0}          // ESC E 0
	cmdSizeNormal  = []byte{0x1D, 0x21, 0x00}       // GS ! 0
	cmdSizeDouble  = []byte{0x1D, 0x21, 0x11}       // GS ! doble alto y ancho
	cmdCut         = []byte{0x1D, 0x56, 0x42, 0x03} // GS V B: avanza y corte parcial
)

// Columns caracteres por línea en fuente A según el ancho de papel.
func Columns(paperWidth int) int {
	if paperWidth == entity.PaperWidth58 {
		return 32
	}
	return 48
}

// Renderer implementa printing.Renderer.
type Renderer struct {
	defaultPaperWidth int
}

// New construye el renderer. defaultPaperWidth se usa si la impresora no informa un ancho válido.
func New(defaultPaperWidth int) *Renderer {
	if defaultPaperWidth != entity.PaperWidth58 && defaultPaperWidth != entity.PaperWidth80 {
		defaultPaperWidth = entity.PaperWidth80
	}
	return &Renderer{defaultPaperWidth: defaultPaperWidth}
}

// Render arma el payload del documento.
func (r *Renderer) Render(kind entity.DocumentKind, doc printing.Document, paperWidth int) ([]byte, error) {
	if paperWidth != entity.PaperWidth58 && paperWidth != entity.PaperWidth80 {
		paperWidth = r.defaultPaperWidth
	}
	w := &writer{cols: Columns(paperWidth)}
	w.raw(cmdInit, cmdCodePage858)

	switch kind {
	case entity.DocumentKindTicket:
		renderTicket(w, doc)
	case entity.DocumentKindVale:
		renderVale(w, doc)
	case entity.DocumentKindComanda:
		renderComanda(w, doc)
	default:
		return nil, fmt.Errorf("escpos: tipo de documento desconocido %q", kind)
	}

	w.feed(3)
	w.raw(cmdCut)
	return w.buf.Bytes(), nil
}

func renderTicket(w *writer, doc printing.Document) {
	w.raw(cmdAlignCenter, cmdBoldOn)
	w.line(doc.BranchName)
	w.raw(cmdBoldOff)
	w.line(fmt.Sprintf("Pedido #%d", doc.OrderNumber))
	header(w, doc)
	w.raw(cmdAlignLeft)
	w.separator()
	for _, it := range doc.Items {
		w.columns(fmt.Sprintf("%d x %s", it.Quantity, it.Name), money(it.Subtotal))
		if it.Quantity > 1 {
			w.line("    c/u " + money(it.UnitPrice))
		}
		notes(w, it.Notes)
	}
	w.separator()
	w.raw(cmdBoldOn)
	w.columns("TOTAL", money(doc.Total))
	w.raw(cmdBoldOff)
	w.feed(1)
	w.raw(cmdAlignCenter)
	w.line("¡Gracias por su compra!")
}

func renderVale(w *writer, doc printing.Document) {
	w.raw(cmdAlignCenter, cmdBoldOn)
	w.line("VALE")
	w.raw(cmdBoldOff)
	w.line(doc.BranchName)
	w.separator()
	for _, it := range doc.Items {
		w.raw(cmdSizeDouble, cmdBoldOn)
		w.wrapped(it.Name, w.cols/2)
		w.raw(cmdSizeNormal, cmdBoldOff)
		notes(w, it.Notes)
	}
	w.separator()
	w.line(fmt.Sprintf("Pedido #%d", doc.OrderNumber))
	header(w, doc)
}

func renderComanda(w *writer, doc printing.Document) {
	w.raw(cmdAlignCenter, cmdSizeDouble, cmdBoldOn)
	w.line("COMANDA")
	w.line(fmt.Sprintf("#%d", doc.OrderNumber))
	w.raw(cmdSizeNormal, cmdBoldOff)
	header(w, doc)
	w.raw(cmdAlignLeft)
	w.separator()
	for _, it := range doc.Items {
		w.raw(cmdBoldOn)
		w.wrapped(fmt.Sprintf("%d x %s", it.Quantity, it.Name), w.cols)
		w.raw(cmdBoldOff)
		notes(w, it.Notes)
	}
	w.separator()
}

// header llamador, canal y hora, comunes a los tres documentos.
func header(w *writer, doc printing.Document) {
	if doc.CallerNumber != nil {
		w.raw(cmdSizeDouble)
		w.line(fmt.Sprintf("Llamador %d", *doc.CallerNumber))
		w.raw(cmdSizeNormal)
	}
	if doc.SalesChannel != "" {
		w.line(strings.ToUpper(doc.SalesChannel))
	}
	if !doc.CreatedAt.IsZero() {
		w.line(doc.CreatedAt.Format("02/01/2006 15:04"))
	}
}

func notes(w *writer, n string) {
	n = strings.TrimSpace(n)
	if n == "" {
		return
	}
	w.wrapped("  > "+n, w.cols)
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// writer acumula el payload.
type writer struct {
	buf  bytes.Buffer
	cols int
}

func (w *writer) raw(cmds ...[]byte) {
	for _, c := range cmds {
		w.buf.Write(c)
	}
}

// line escribe s en CP858 seguido de salto de línea.
func (w *writer) line(s string) {
	for _, r := range s {
		if b, ok := charmap.CodePage858.EncodeRune(r); ok {
			w.buf.WriteByte(b)
			continue
		}
		w.buf.WriteByte('?')
	}
	w.buf.WriteByte('\n')
}

func (w *writer) feed(n int) {
	for i := 0; i < n; i++ {
		w.buf.WriteByte('\n')
	}
}

func (w *writer) separator() {
	w.line(strings.Repeat("-", w.cols))
}

// columns texto a la izquierda y monto alineado a la derecha en la misma línea.
func (w *writer) columns(left, right string) {
	space := w.cols - len([]rune(right)) - 1
	lines := wrap(left, space)
	for i, l := range lines {
		if i == len(lines)-1 {
			pad := w.cols - len([]rune(l)) - len([]rune(right))
			if pad < 1 {
				pad = 1
			}
			w.line(l + strings.Repeat(" ", pad) + right)
			continue
		}
		w.line(l)
	}
}

func (w *writer) wrapped(s string, width int) {
	for _, l := range wrap(s, width) {
		w.line(l)
	}
}

// wrap corta por palabras a width runas; una palabra más larga que la línea se parte.
func wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var (
		out []string
		cur []rune
	)
	for _, word := range words {
		rw := []rune(word)
		for len(rw) > width {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = nil
			}
			out = append(out, string(rw[:width]))
			rw = rw[width:]
		}
		if len(rw) == 0 {
			continue
		}
		switch {
		case len(cur) == 0:
			cur = rw
		case len(cur)+1+len(rw) <= width:
			cur = append(append(cur, ' '), rw...)
		default:
			out = append(out, string(cur))
			cur = rw
		}
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}
