package menus

import "fmt"

// ValidationError means the upstream response did not match the expected
// schema. Path points at the offending field.
type ValidationError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid response at %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// StructuralError means the response parsed but its item sequencing was
// malformed, e.g. a recipe row before any category row.
type StructuralError struct {
	Message string
}

func (e *StructuralError) Error() string {
	return e.Message
}
