package pdf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restobar-api/internal/domain/entity"
	"github.com/jhoicas/restobar-api/internal/domain/printing"
)

func doc() printing.Document {
	return printing.Document{
		BranchName:  "Sucursal Centro",
		OrderNumber: 8,
		Items: []printing.DocumentItem{
			{Name: "Pizza muzzarella", Quantity: 1, UnitPrice: decimal.NewFromInt(9), Subtotal: decimal.NewFromInt(9), Notes: "bien cocida"},
		},
		Total: decimal.NewFromInt(9),
	}
}

func TestTicketRenderer_GeneraPDF(t *testing.T) {
	r := NewTicketRenderer(entity.PaperWidth80)
	for _, kind := range []entity.DocumentKind{entity.DocumentKindTicket, entity.DocumentKindVale, entity.DocumentKindComanda} {
		t.Run(string(kind), func(t *testing.T) {
			out, err := r.Render(kind, doc(), entity.PaperWidth58)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
		})
	}
}

func TestTicketRenderer_AltoCreceConLosItems(t *testing.T) {
	short := &rowBuilder{font: 8}
	ticketRows(short, doc())

	long := doc()
	for i := 0; i < 10; i++ {
		long.Items = append(long.Items, printing.DocumentItem{Name: "Empanada", Quantity: 1})
	}
	tall := &rowBuilder{font: 8}
	ticketRows(tall, long)

	assert.Greater(t, tall.height, short.height)
	assert.Equal(t, len(short.rows)+10, len(tall.rows))
}

func TestTicketRenderer_TipoDesconocido(t *testing.T) {
	_, err := NewTicketRenderer(entity.PaperWidth80).Render("factura", doc(), entity.PaperWidth80)
	assert.Error(t, err)
}
