// Package enum describes Go enumerations and synthesizes conversions
// between two of them, matching enumerators by name or by position.
//
// Go has no enum type, so the enumerators of a type are declared once:
//
//	var statusEnum = enum.MustDeclare(StatusPending, StatusPaid, StatusShipped)
//
// The ordinal of an enumerator is its position in the declaration. Its name
// is the String method result when the type implements fmt.Stringer, and
// the fmt.Sprint rendering otherwise.
package enum

import (
	"errors"
	"fmt"
	"reflect"

	"graph-caster/primitive"
	"graph-caster/token"
)

var (
	ErrNotEnum        = errors.New("type is not an enum")
	ErrNoValues       = errors.New("enum declares no values")
	ErrDuplicateValue = errors.New("duplicate enum value")
	ErrDuplicateName  = errors.New("duplicate enum name")
	ErrRedeclared     = errors.New("enum declared twice")
	ErrUndeclared     = errors.New("enum is not declared")
	ErrMissingName    = errors.New("enum name has no counterpart")
	ErrCardinality    = errors.New("enum cardinalities differ")
	ErrUnknownValue   = errors.New("value is not a declared enumerator")
)

// Descriptor is the ordered list of enumerators of one enum type.
type Descriptor struct {
	typ     reflect.Type
	values  []reflect.Value
	names   []string
	byName  map[string]int
	byValue map[any]int
}

// Declare describes E by its enumerators, in ordinal order.
func Declare[E comparable](values ...E) (*Descriptor, error) {
	typ := token.Of[E]()
	if !primitive.FromReflectType(typ).IsEnum() {
		return nil, fmt.Errorf("%w: %s", ErrNotEnum, token.Short(typ))
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValues, token.Short(typ))
	}

	d := &Descriptor{
		typ:     typ,
		values:  make([]reflect.Value, 0, len(values)),
		names:   make([]string, 0, len(values)),
		byName:  make(map[string]int, len(values)),
		byValue: make(map[any]int, len(values)),
	}

	for i, v := range values {
		name := nameOf(v)

		if prev, exists := d.byValue[v]; exists {
			return nil, fmt.Errorf("%w: %s at #%d and #%d", ErrDuplicateValue, name, prev, i)
		}

		if prev, exists := d.byName[name]; exists {
			return nil, fmt.Errorf("%w: %q at #%d and #%d", ErrDuplicateName, name, prev, i)
		}

		d.values = append(d.values, reflect.ValueOf(v))
		d.names = append(d.names, name)
		d.byName[name] = i
		d.byValue[v] = i
	}

	return d, nil
}

// MustDeclare is like Declare but panics on error. It simplifies safe
// initialization of package level descriptors.
func MustDeclare[E comparable](values ...E) *Descriptor {
	d, err := Declare(values...)
	if err != nil {
		panic(err)
	}

	return d
}

func nameOf(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprint(v)
}

// Type returns the described enum type.
func (d *Descriptor) Type() reflect.Type { return d.typ }

// Len returns the number of enumerators.
func (d *Descriptor) Len() int { return len(d.values) }

// Names returns enumerator names in ordinal order.
func (d *Descriptor) Names() []string {
	return append([]string(nil), d.names...)
}

// Name returns the name of the enumerator at ordinal.
func (d *Descriptor) Name(ordinal int) string { return d.names[ordinal] }

// Value returns the enumerator at ordinal.
func (d *Descriptor) Value(ordinal int) reflect.Value { return d.values[ordinal] }

// Ordinal returns the position of v among the enumerators.
func (d *Descriptor) Ordinal(v reflect.Value) (int, bool) {
	if !v.IsValid() || v.Type() != d.typ {
		return 0, false
	}

	i, ok := d.byValue[v.Interface()]
	return i, ok
}

// Lookup returns the ordinal of the enumerator called name.
func (d *Descriptor) Lookup(name string) (int, bool) {
	i, ok := d.byName[name]
	return i, ok
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s%v", token.Short(d.typ), d.names)
}
