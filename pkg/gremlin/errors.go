package gremlin

import "fmt"

// ConfigError reports a component that cannot render because it was
// constructed without required configuration.
type ConfigError struct {
	Type string // Component type, e.g. "Predicate"
	Msg  string
}

// NewConfigError creates a new configuration error.
func NewConfigError(typ, msg string) *ConfigError {
	return &ConfigError{Type: typ, Msg: msg}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Type, e.Msg)
}

// CycleError reports a builder that is reachable as a sub-expression of itself.
type CycleError struct {
	Seed string // Namespace seed of the builder that closed the cycle
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("structural error: builder %s is nested inside itself", e.Seed)
}

// StructureError reports a chain that cannot be assembled, such as a call
// with no attribute to call.
type StructureError struct {
	Op  string
	Msg string
}

// NewStructureErrorf creates a new structure error with formatting.
func NewStructureErrorf(op, format string, args ...any) *StructureError {
	return &StructureError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("structural error: %s: %s", e.Op, e.Msg)
}
