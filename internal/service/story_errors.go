package service

import "errors"

// Mensajes visibles para el usuario.
const (
	MsgEmptyKeywords     = "Please enter some keywords"
	MsgMissingAPIKey     = "OpenAI API key is not configured"
	MsgQuotaExceeded     = "OpenAI API quota exceeded. Please check your billing details."
	MsgInvalidAPIKey     = "Invalid OpenAI API key. Please check your configuration."
	MsgGenerationFailure = "Failed to generate story. Please try again later."
)

// ValidationError indica una entrada inválida; no se llamó al proveedor.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConfigurationError indica que falta la credencial del proveedor.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// ProviderError envuelve un fallo del proveedor con su mensaje visible.
type ProviderError struct {
	Code    string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return "provider error: " + e.Err.Error()
	}
	return "provider error: " + e.Message
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UserMessage devuelve el texto que se muestra al usuario para err.
func UserMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return configErr.Message
	}
	var providerErr *ProviderError
	if errors.As(err, &providerErr) && providerErr.Message != "" {
		return providerErr.Message
	}
	return MsgGenerationFailure
}
