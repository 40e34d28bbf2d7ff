package domain

import "errors"

// ErrPersonaNotFound indica que no existe persona para el user_id dado.
var ErrPersonaNotFound = errors.New("persona not found")

// ValidationError representa entrada invalida: rasgo desconocido,
// valor fuera de rango o identificador malformado.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation indica si err corresponde a un error de validacion.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
