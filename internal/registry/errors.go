package registry

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/juju/errors"
)

// validationError signals a missing or empty required field (400).
type validationError struct{ fields []string }

func (e validationError) Error() string {
	return strings.Join(e.fields, " and ") + " " + plural(len(e.fields), "is", "are") + " required"
}

// Is lets callers match with errors.Is(err, errors.NotValid).
func (e validationError) Is(target error) bool { return target == errors.NotValid }

func (e validationError) StatusCode() int { return http.StatusBadRequest }

// ErrValidation returns an error naming the required fields.
func ErrValidation(fields ...string) error { return validationError{fields: fields} }

// IsValidation reports whether err (or anything it wraps) is a validation failure.
func IsValidation(err error) bool { return errors.Is(err, errors.NotValid) }

// recordNotFoundError is returned when update/delete target an unknown id (404).
type recordNotFoundError struct{ id int64 }

func (e recordNotFoundError) Error() string { return fmt.Sprintf("record %d not found", e.id) }

func (e recordNotFoundError) Is(target error) bool { return target == errors.NotFound }

func (e recordNotFoundError) StatusCode() int { return http.StatusNotFound }

// ErrRecordNotFound returns an error for a record id that does not exist.
func ErrRecordNotFound(id int64) error { return recordNotFoundError{id: id} }

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, errors.NotFound) }

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
