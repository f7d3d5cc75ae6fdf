package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidTransition = errors.New("movimiento inválido: cantidad o tipo no permitidos")
	ErrInconsistentState = errors.New("estado previo del movimiento no disponible")
	ErrStore             = errors.New("fallo del almacén de inventario")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrUnsupported       = errors.New("operación no soportada")
)
