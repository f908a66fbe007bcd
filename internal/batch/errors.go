package batch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrCSVRead        = errors.New("failed to read csv")
)

type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found. Available: %s", e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}
