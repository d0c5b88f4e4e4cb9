package vehicle

import "fmt"

// SchemaViolation names the first field that broke a constraint.
type SchemaViolation struct {
	Field      string
	Value      any
	Constraint string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation: %s=%s (expected %s)", e.Field, formatValue(e.Value), e.Constraint)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func violation(field string, value any, constraint string) *SchemaViolation {
	return &SchemaViolation{Field: field, Value: value, Constraint: constraint}
}
