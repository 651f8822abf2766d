package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appcash "github.com/jhoicas/restobar-api/internal/application/cash"
	"github.com/jhoicas/restobar-api/internal/application/dto"
)

// HeaderIdempotencyKey evita registrar dos veces la misma transferencia ante reintentos del cliente.
const HeaderIdempotencyKey = "Idempotency-Key"

// CashHandler maneja turnos, movimientos y transferencias de caja (protegido).
type CashHandler struct {
	shifts    *appcash.ShiftUseCase
	transfers *appcash.TransferUseCase
	log       zerolog.Logger
}

// NewCashHandler construye el handler.
func NewCashHandler(shifts *appcash.ShiftUseCase, transfers *appcash.TransferUseCase, log zerolog.Logger) *CashHandler {
	return &CashHandler{shifts: shifts, transfers: transfers, log: log}
}

// OpenShift godoc
// @Summary      Abrir turno de caja
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShiftRequest  true  "Caja y monto inicial"
// @Success      201   {object}  dto.ShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/shifts [post]
func (h *CashHandler) OpenShift(c *fiber.Ctx) error {
	var in dto.OpenShiftRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.shifts.OpenShift(c.UserContext(), viewerFrom(c), GetBranchID(c), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetShift godoc
// @Summary      Resumen de turno
// @Description  Saldo, totales y movimientos solo si el rol lo permite; movement_count siempre.
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {object}  dto.ShiftSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/shifts/{id} [get]
func (h *CashHandler) GetShift(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.shifts.GetSummary(c.UserContext(), viewerFrom(c), GetBranchID(c), id)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// CloseShift godoc
// @Summary      Cerrar turno (arqueo)
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del turno"
// @Param        body  body  dto.CloseShiftRequest  true  "Monto contado"
// @Success      200   {object}  dto.CloseShiftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/shifts/{id}/close [post]
func (h *CashHandler) CloseShift(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.CloseShiftRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.shifts.CloseShift(c.UserContext(), viewerFrom(c), GetBranchID(c), id, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar ingreso o egreso manual
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del turno"
// @Param        body  body  dto.ManualMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash/shifts/{id}/movements [post]
func (h *CashHandler) RegisterMovement(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.ManualMovementRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.shifts.RegisterMovement(c.UserContext(), viewerFrom(c), GetBranchID(c), id, in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Transfer godoc
// @Summary      Transferir efectivo entre cajas
// @Description  Retiro en el turno origen y entrada en el destino en una sola transacción.
// @Description  Sin dest_shift_id es un retiro final.
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "Clave para reintentos seguros"
// @Param        body             body    dto.TransferRequest  true   "Transferencia"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cash/transfers [post]
func (h *CashHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.transfers.Transfer(c.UserContext(), viewerFrom(c), GetBranchID(c), c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		return handleError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
