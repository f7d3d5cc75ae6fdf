package entity

// Roles válidos en el claim "role" del token (la gestión de usuarios es externa).
const (
	RoleAdmin        = "ADMIN"
	RoleGestorInv    = "GESTOR_INV"
	RoleComprador    = "COMPRADOR"
	RoleLogistica    = "LOGISTICA"
	RoleJefeProd     = "JEFE_PROD"
	RoleAuditor      = "AUDITOR"
	RoleGerenteProy  = "GERENTE_PROY"
	RoleUsuarioFinal = "USUARIO_FINAL"
)
