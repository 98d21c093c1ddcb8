package normalize

import "fmt"

// ValueError reports a non-null cell that cannot be coerced to its column type.
type ValueError struct {
	Dataset string
	Row     int // 1-based data row (header excluded) or record number
	Column  string
	Value   string
	Err     error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s row %d column %s: invalid value %q: %v", e.Dataset, e.Row, e.Column, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
