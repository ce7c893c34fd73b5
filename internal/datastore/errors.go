package datastore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownKelas is returned when a record references a class group id
	// the store does not hold.
	ErrUnknownKelas = fmt.Errorf("%w: unknown class group", ErrInvalidInput)

	// ErrDuplicateAttendance is returned when an attendance record for the
	// same date and class group already exists.
	ErrDuplicateAttendance = errors.New("data kehadiran untuk kelas ini pada tanggal tersebut sudah ada")
)

// FieldError describes a problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a rejected input.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Err.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }
