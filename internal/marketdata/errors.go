package marketdata

import "fmt"

// SchemaError reports a required column missing from tabular bar input.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("bar data missing required column %q", e.Column)
}
