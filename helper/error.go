package helper

import "fmt"

// NewError wraps an error with the operation that failed.
// It is used at every failure site so errors carry their context up the stack.
func NewError(operation string, err error) error {
	return fmt.Errorf("error in %s: %w", operation, err)
}
