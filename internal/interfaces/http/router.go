package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appcash "github.com/jhoicas/restobar-api/internal/application/cash"
	appprinting "github.com/jhoicas/restobar-api/internal/application/printing"
	domaincash "github.com/jhoicas/restobar-api/internal/domain/cash"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Shifts    *appcash.ShiftUseCase
	Transfers *appcash.TransferUseCase
	Printing  *appprinting.PrintOrderUseCase
	JWTSecret string
	Log       zerolog.Logger
}

// roles del personal del local que operan caja y pedidos.
var staffRoles = []string{
	domaincash.LocalRoleFranquiciado,
	domaincash.LocalRoleContador,
	domaincash.LocalRoleEncargado,
	domaincash.LocalRoleCajero,
}

// Router registra las rutas de la API. Todas requieren Bearer Token y sucursal.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireBranch())

	// Caja
	cashHandler := NewCashHandler(deps.Shifts, deps.Transfers, deps.Log)
	cash := api.Group("/cash", RequireRole(staffRoles...))
	cash.Post("/shifts", cashHandler.OpenShift)
	cash.Get("/shifts/:id", cashHandler.GetShift)
	cash.Post("/shifts/:id/close", cashHandler.CloseShift)
	cash.Post("/shifts/:id/movements", cashHandler.RegisterMovement)
	cash.Post("/transfers", cashHandler.Transfer)

	// Impresión
	printHandler := NewPrintingHandler(deps.Printing, deps.Log)
	api.Post("/orders/:id/print", RequireRole(staffRoles...), printHandler.PrintOrder)
	api.Get("/print/queue/:printer_id/next",
		RequireRole(RoleAgente, domaincash.LocalRoleEncargado, domaincash.LocalRoleFranquiciado),
		printHandler.NextJob,
	)
}
