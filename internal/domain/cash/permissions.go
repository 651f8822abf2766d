package cash

import "github.com/jhoicas/restobar-api/internal/domain/entity"

// Capability permiso puntual sobre una caja.
type Capability string

const (
	CapViewBalance       Capability = "view_balance"
	CapViewMovements     Capability = "view_movements"
	CapViewMovementCount Capability = "view_movement_count"
)

// Roles del usuario dentro del local.
const (
	LocalRoleFranquiciado = "franquiciado"
	LocalRoleContador     = "contador"
	LocalRoleEncargado    = "encargado"
	LocalRoleCajero       = "cajero"
)

// Viewer contexto de permisos de quien consulta una caja.
type Viewer struct {
	UserID       string
	LocalRole    string
	IsSuperadmin bool
}

// CapabilitySet conjunto de capacidades resuelto para una caja y un usuario.
type CapabilitySet map[Capability]struct{}

// Has indica si el conjunto incluye la capacidad.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

func newSet(caps ...Capability) CapabilitySet {
	s := make(CapabilitySet, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

// privilegedLocalRoles ven saldo y detalle de cualquier caja.
var privilegedLocalRoles = map[string]bool{
	LocalRoleFranquiciado: true,
	LocalRoleContador:     true,
}

// restrictedRegisterRoles son las cajas donde el personal operativo solo ve la cantidad de movimientos.
var restrictedRegisterRoles = map[string]bool{
	entity.RegisterRoleAlivio: true,
	entity.RegisterRoleFuerte: true,
}

// Capabilities resuelve qué puede ver un usuario de una caja según su rol.
// Un rol local desconocido se trata como operativo.
func Capabilities(registerRole string, v Viewer) CapabilitySet {
	if v.IsSuperadmin || privilegedLocalRoles[v.LocalRole] || !restrictedRegisterRoles[registerRole] {
		return newSet(CapViewBalance, CapViewMovements, CapViewMovementCount)
	}
	return newSet(CapViewMovementCount)
}

// CanViewBalance indica si el usuario puede ver el saldo de una caja con ese rol.
func CanViewBalance(registerRole, localRole string, isSuperadmin bool) bool {
	return Capabilities(registerRole, Viewer{LocalRole: localRole, IsSuperadmin: isSuperadmin}).Has(CapViewBalance)
}

// CanViewMovements indica si el usuario puede ver el detalle de movimientos.
func CanViewMovements(registerRole, localRole string, isSuperadmin bool) bool {
	return Capabilities(registerRole, Viewer{LocalRole: localRole, IsSuperadmin: isSuperadmin}).Has(CapViewMovements)
}
