package spire

import "fmt"

// ParseError reports a snapshot field that could not be mapped.
// One ParseError invalidates only the message that carried it.
type ParseError struct {
	Field   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Field, e.Message)
}

func errParse(field, format string, args ...interface{}) error {
	return &ParseError{Field: field, Message: fmt.Sprintf(format, args...)}
}
