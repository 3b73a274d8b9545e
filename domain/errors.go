package domain

import "fmt"

// ConfigurationError reports an unusable runtime configuration, such as a
// missing or placeholder API credential. It is fatal: no batch may start
// while one is outstanding.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// DocumentError reports an unreadable, corrupt or empty PDF. It isolates to
// the one document; the rest of the batch continues.
type DocumentError struct {
	Reason string
	Err    error
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document: %s: %v", e.Reason, e.Err)
	}
	return "document: " + e.Reason
}

func (e *DocumentError) Unwrap() error { return e.Err }

// ModelCallError reports a failed call to the vision model provider: network
// error, timeout or an error payload. The document is treated as unanalyzed.
type ModelCallError struct {
	Err error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call: %v", e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// ValidationError reports model output that could not be parsed as JSON.
// Raw holds the full textual response so the caller can surface it instead
// of a structured record.
type ValidationError struct {
	Raw string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
