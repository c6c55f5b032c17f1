package usecase

import "errors"

var (
	// ErrValidation marks caller input the provider was never asked about.
	ErrValidation = errors.New("validation failed")
	// ErrProvider marks a failure reported by, or while talking to, the market data provider.
	ErrProvider = errors.New("provider failure")
)

// FieldError is a validation failure tied to one request field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func (e *FieldError) Unwrap() error { return ErrValidation }

// ProviderError wraps a provider fault with the operation that failed.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

func (e *ProviderError) Unwrap() error { return e.Err }
