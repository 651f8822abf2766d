package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/restobar-api/internal/application/dto"
	appprinting "github.com/jhoicas/restobar-api/internal/application/printing"
)

// PrintingHandler despacha pedidos a impresoras y atiende al agente de impresión.
type PrintingHandler struct {
	uc  *appprinting.PrintOrderUseCase
	log zerolog.Logger
}

// NewPrintingHandler construye el handler.
func NewPrintingHandler(uc *appprinting.PrintOrderUseCase, log zerolog.Logger) *PrintingHandler {
	return &PrintingHandler{uc: uc, log: log}
}

// PrintOrder godoc
// @Summary      Imprimir pedido
// @Description  Arma ticket, vales y comanda según la configuración de impresoras y los encola.
// @Tags         printing
// @Security     Bearer
// @Produce      json
// @Param        id       path   string  true   "ID del pedido"
// @Param        dry_run  query  bool    false  "Solo devolver el plan"
// @Success      200  {object}  dto.PrintOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/print [post]
func (h *PrintingHandler) PrintOrder(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.PrintOrder(c.UserContext(), appprinting.PrintOrderInput{
		OrderID:      id,
		BranchID:     GetBranchID(c),
		IsSuperadmin: IsSuperadmin(c),
		DryRun:       c.QueryBool("dry_run", false),
	})
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// NextJob godoc
// @Summary      Próximo trabajo de impresión
// @Description  Long-poll del agente del local. 204 si la cola sigue vacía al vencer la espera.
// @Tags         printing
// @Security     Bearer
// @Produce      json
// @Param        printer_id  path  string  true  "ID de la impresora"
// @Success      200  {object}  dto.QueuedPrintJob
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/print/queue/{printer_id}/next [get]
func (h *PrintingHandler) NextJob(c *fiber.Ctx) error {
	job, err := h.uc.NextJob(c.UserContext(), c.Params("printer_id"), GetBranchID(c), IsSuperadmin(c))
	if err != nil {
		return handleError(c, h.log, err)
	}
	if job == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(job)
}
