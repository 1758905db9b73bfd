package llm

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Códigos estructurados que devuelve el proveedor.
const (
	CodeInsufficientQuota = "insufficient_quota"
	CodeInvalidAPIKey     = "invalid_api_key"
)

// ErrEmptyChoices se devuelve cuando la respuesta no trae ninguna opción.
var ErrEmptyChoices = errors.New("llm empty response: no choices")

// APIError normaliza los fallos del proveedor.
type APIError struct {
	Code       string
	Type       string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("llm api error: status=%d code=%s: %s", e.StatusCode, e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("llm http error: status=%d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm http error: status=%d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ErrorCode extrae el código estructurado de un error, si existe.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

func normalizeError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			Code:       codeString(apiErr.Code),
			Type:       apiErr.Type,
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Err:        err,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &APIError{
			StatusCode: reqErr.HTTPStatusCode,
			Err:        err,
		}
	}
	return fmt.Errorf("chat completion: %w", err)
}

// El proveedor puede mandar el código como string o número.
func codeString(code any) string {
	switch v := code.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
