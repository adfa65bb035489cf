// Package token provides type tokens: comparable runtime descriptors of
// concrete Go types used as registry keys, together with the ancestor
// table that lets a transformer registered for a base type serve the
// types that extend it.
package token

import (
	"reflect"
	"strconv"
)

// Of returns the type token of T.
func Of[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// IsConcrete reports whether t can key a registry entry.
// Interface types (including any) never resolve to a single concrete type.
func IsConcrete(t reflect.Type) bool {
	return t != nil && t.Kind() != reflect.Interface
}

// IsReference reports whether values of t have reference identity,
// i.e. two copies of a value may point to the same underlying instance.
func IsReference(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// IsNil reports whether v holds nothing: an invalid value or a nil
// pointer, map, slice, interface, func or chan.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

// Same reports whether a and b are the same instance. Reference kinds
// compare by pointer; everything else is never the same instance.
func Same(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() || a.Type() != b.Type() || !IsReference(a.Type()) {
		return false
	}

	return a.Pointer() == b.Pointer()
}

// String renders t fully qualified, e.g. "*graph-caster/store.Order".
func String(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + String(t.Elem())
	case reflect.Slice:
		return "[]" + String(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + String(t.Elem())
	case reflect.Map:
		return "map[" + String(t.Key()) + "]" + String(t.Elem())
	default:
		if t.PkgPath() == "" || t.Name() == "" {
			return t.String()
		}
		return t.PkgPath() + "." + t.Name()
	}
}

// Short renders t with its package name only, e.g. "*store.Order".
func Short(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}

// PtrDepthAndBase returns the pointer depth and the final base type.
func PtrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for base != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}
