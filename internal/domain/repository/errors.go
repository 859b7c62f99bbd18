package repository

import "errors"

var (
	// ErrNotFound indica que la entidad no existe.
	ErrNotFound = errors.New("repository: not found")

	// ErrConflict indica una violación de unicidad (email, token hash, etc.).
	ErrConflict = errors.New("repository: conflict")

	// ErrInvalidInput indica datos que violan un constraint del modelo
	// (p.ej. la coherencia rol/cliente de app_user).
	ErrInvalidInput = errors.New("repository: invalid input")
)
