package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restobar-api/internal/application/dto"
)

// HeaderBranchID permite a un superadmin operar sobre una sucursal concreta.
const HeaderBranchID = "X-Branch-ID"

// RequireBranch asegura que la petición tenga sucursal. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - usuario de local: la sucursal es la del token; el header se ignora.
//   - superadmin: si envía X-Branch-ID, esa pasa a ser la sucursal efectiva.
//   - 401 UNAUTHORIZED si no se puede resolver ninguna sucursal.
func RequireBranch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IsSuperadmin(c) {
			if h := strings.TrimSpace(c.Get(HeaderBranchID)); h != "" {
				c.Locals(LocalBranchID, h)
			}
			return c.Next()
		}
		if GetBranchID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "branch_id no encontrado en el token",
			})
		}
		return c.Next()
	}
}
