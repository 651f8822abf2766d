package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restobar-api/internal/application/dto"
	domaincash "github.com/jhoicas/restobar-api/internal/domain/cash"
	"github.com/jhoicas/restobar-api/pkg/jwt"
)

// Locals keys con la identidad del token en Fiber.
const (
	LocalUserID     = "user_id"
	LocalBranchID   = "branch_id"
	LocalRole       = "local_role"
	LocalSuperadmin = "superadmin"
)

// RoleAgente rol del agente de impresión instalado en el local.
const RoleAgente = "agente"

// AuthMiddleware valida el Bearer Token JWT y extrae la identidad a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalBranchID, id.BranchID)
		c.Locals(LocalRole, id.LocalRole)
		c.Locals(LocalSuperadmin, id.Superadmin)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. El superadmin siempre pasa.
// Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 MISSING_ROLE si el token no trae rol.
//   - 403 FORBIDDEN si el rol no está permitido.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if IsSuperadmin(c) {
			return c.Next()
		}
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol '" + role + "' no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetBranchID devuelve la sucursal efectiva de la petición.
func GetBranchID(c *fiber.Ctx) string { return localString(c, LocalBranchID) }

// GetRole devuelve el rol del usuario dentro del local.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// IsSuperadmin indica si el token es de un superadmin.
func IsSuperadmin(c *fiber.Ctx) bool {
	b, _ := c.Locals(LocalSuperadmin).(bool)
	return b
}

func viewerFrom(c *fiber.Ctx) domaincash.Viewer {
	return domaincash.Viewer{
		UserID:       GetUserID(c),
		LocalRole:    GetRole(c),
		IsSuperadmin: IsSuperadmin(c),
	}
}
