package service

// FieldErrors maps a request field to a human readable problem with it.
type FieldErrors map[string]string

// ValidationError reports write-validation failures with field-scoped
// messages. Controllers turn it into a 400 response body.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "validation failed"
}

func newValidationError(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}
