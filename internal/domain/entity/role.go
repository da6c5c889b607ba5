package entity

// Roles válidos para User, ordenados por jerarquía (mayor → menor):
//
//	admin    – puede hacer todo
//	approver – todo lo de editor + aprobar/rechazar productos
//	editor   – crear y editar productos, enviarlos a aprobación
//	viewer   – solo lectura del listado interno
const (
	RoleAdmin    = "admin"
	RoleApprover = "approver"
	RoleEditor   = "editor"
	RoleViewer   = "viewer"
)

// roleWeights pesos numéricos para comparar la jerarquía. Es la única fuente
// de verdad de los permisos: no hay listas de capacidades independientes.
var roleWeights = map[string]int{
	RoleAdmin:    4,
	RoleApprover: 3,
	RoleEditor:   2,
	RoleViewer:   1,
}

// RoleWeight devuelve el peso del rol; 0 si el rol no existe (siempre denegado).
func RoleWeight(role string) int {
	return roleWeights[role]
}

// IsValidRole indica si el string corresponde a un rol conocido.
func IsValidRole(role string) bool {
	_, ok := roleWeights[role]
	return ok
}

// RoleAtLeast devuelve true si role está en la jerarquía al mismo nivel o por
// encima de min. Un rol desconocido (peso 0) nunca alcanza ningún mínimo.
func RoleAtLeast(role, min string) bool {
	w, ok := roleWeights[role]
	if !ok {
		return false
	}
	return w >= roleWeights[min]
}
