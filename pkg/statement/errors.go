package statement

import "fmt"

// ParseError represents a statement file that is not valid YAML or does
// not match the statement schema.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	default:
		return e.Message
	}
}

// StepError represents an invalid step in a statement.
type StepError struct {
	Line    int
	Kind    StepKind
	Message string
}

func (e *StepError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("line %d: %s step: %s", e.Line, e.Kind, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

func stepErrorf(line int, kind StepKind, format string, args ...any) *StepError {
	return &StepError{Line: line, Kind: kind, Message: fmt.Sprintf(format, args...)}
}
