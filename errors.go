package scrollbar

import (
	"errors"
	"fmt"
)

var (
	// ErrUnitMismatch matches every *UnitError.
	ErrUnitMismatch = errors.New("unit mismatch")
	// ErrMissingBinding matches every *BindingError.
	ErrMissingBinding = errors.New("missing binding")
	// ErrDegenerateGeometry reports a zero-length range that has no fallback.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrNotSynchronized is returned when a drag reaches a scrollbar whose
	// max scroll was never computed.
	ErrNotSynchronized = errors.New("scrollbar not synchronized yet")
)

// UnitError reports a geometry attribute declared in the wrong unit.
type UnitError struct {
	// Attribute names the offending field, e.g. "width" or "left". It may be
	// empty when the error comes straight from a Val accessor.
	Attribute string
	Want, Got Unit
}

func (e *UnitError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("expected %s value, got %s", e.Want, e.Got)
	}
	return fmt.Sprintf("%s must be a %s value, got %s", e.Attribute, e.Want, e.Got)
}

func (e *UnitError) Is(target error) bool { return target == ErrUnitMismatch }

// BindingError reports an entity that is gone or lacks a required component.
type BindingError struct {
	Entity Entity
	What   string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("%v: %s", e.Entity, e.What)
}

func (e *BindingError) Is(target error) bool { return target == ErrMissingBinding }

// attribute names the field in a *UnitError produced by a Val accessor.
func attribute(name string, err error) error {
	var ue *UnitError
	if errors.As(err, &ue) && ue.Attribute == "" {
		return &UnitError{Attribute: name, Want: ue.Want, Got: ue.Got}
	}
	return err
}
