package pipeline

import "fmt"

// SizePreconditionError reports an input document that exceeds the
// configured maximum. It is raised before any external call is attempted.
type SizePreconditionError struct {
	SizeBytes int
	MaxBytes  int
}

func (e *SizePreconditionError) Error() string {
	return fmt.Sprintf("document too large (%.2fMB), max %.0fMB",
		float64(e.SizeBytes)/(1024*1024), float64(e.MaxBytes)/(1024*1024))
}

// ExternalServiceError reports a failed, timed-out or unreachable call to
// the document-understanding or mapping service. The call is never retried
// automatically.
type ExternalServiceError struct {
	Service string // e.g. "extraction", "remap"
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s service call failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// MalformedOutputError reports service output that does not parse as JSON
// even after one repair attempt. The whole extraction fails; no partial
// statement is ever returned.
type MalformedOutputError struct {
	Raw string // truncated raw model output, for diagnostics
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("model returned invalid JSON: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// SchemaValidationError reports parsed output that does not conform to the
// statement schema. Path names the first failing field; callers must not
// attempt partial use of the document.
type SchemaValidationError struct {
	Path   string
	Reason string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %s - %s", e.Path, e.Reason)
}
