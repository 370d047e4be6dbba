// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (SQL text, driver errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
// Status mirrors the HTTP status code so clients reading the body alone can
// branch on it.
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func New(status int, msg string) *APIError {
	return &APIError{Status: status, Message: msg}
}

// Error implements the error interface so handler-bound failures can travel
// through ordinary error returns.
func (e *APIError) Error() string { return e.Message }

// FieldError describes a single invalid payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError wraps multiple field errors under one envelope.
type ValidationError struct {
	Status  int          `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func NewValidation(fields []FieldError) *ValidationError {
	return &ValidationError{Status: 400, Message: "Beberapa bidang tidak valid", Errors: fields}
}

// Error implements the error interface so validation failures can travel
// through ordinary error returns and be surfaced at the handler boundary.
func (e *ValidationError) Error() string { return e.Message }
