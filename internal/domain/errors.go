package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrShiftClosed         = errors.New("el turno de caja no está abierto")
	ErrInsufficientBalance = errors.New("saldo insuficiente en la caja de origen")
	ErrDuplicateRequest    = errors.New("la operación ya fue procesada")
)
