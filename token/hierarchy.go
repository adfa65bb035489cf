package token

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotConcrete = errors.New("type is not concrete")
	ErrCycle       = errors.New("ancestry would form a cycle")
	ErrRedeclared  = errors.New("parent already declared")
)

// Upcast presents a value of a child type as a value of its parent type.
type Upcast func(reflect.Value) reflect.Value

// Chain is an ordered list of upcasts leading from a type to one of its ancestors.
type Chain []Upcast

// Apply runs every upcast of the chain over v.
func (c Chain) Apply(v reflect.Value) reflect.Value {
	for _, up := range c {
		v = up(v)
	}

	return v
}

type link struct {
	parent reflect.Type
	up     Upcast
}

// Hierarchy is a parent-pointer table over type tokens. It is filled once
// at startup and only read afterward.
//
// A type's parent is the explicitly declared one, or, when embedded
// ancestry is enabled, the type of its leading exported embedded struct
// field: for
//
//	type Manager struct {
//		Employee
//		Reports []*Employee
//	}
//
// the parent of Manager is Employee and the parent of *Manager is *Employee.
type Hierarchy struct {
	declared map[reflect.Type]link
	embedded bool
}

// NewHierarchy creates an empty hierarchy.
func NewHierarchy(embedded bool) *Hierarchy {
	return &Hierarchy{
		declared: make(map[reflect.Type]link),
		embedded: embedded,
	}
}

// Declare records parent as the parent of child.
func (h *Hierarchy) Declare(child, parent reflect.Type, up Upcast) error {
	if !IsConcrete(child) || !IsConcrete(parent) {
		return fmt.Errorf("%w: cannot declare %s as parent of %s", ErrNotConcrete, Short(parent), Short(child))
	}

	if up == nil {
		return fmt.Errorf("parent %s of %s declared without an upcast", Short(parent), Short(child))
	}

	if _, exists := h.declared[child]; exists {
		return fmt.Errorf("%w: %s", ErrRedeclared, Short(child))
	}

	cyclic := child == parent
	h.Walk(parent, func(t reflect.Type, _ Chain) bool {
		cyclic = cyclic || t == child
		return !cyclic
	})

	if cyclic {
		return fmt.Errorf("%w: %s -> %s", ErrCycle, Short(child), Short(parent))
	}

	h.declared[child] = link{parent: parent, up: up}

	return nil
}

// Extends declares P as the parent of C, using up to turn a C into a P.
func Extends[C, P any](h *Hierarchy, up func(C) P) error {
	if up == nil {
		return h.Declare(Of[C](), Of[P](), nil)
	}

	return h.Declare(Of[C](), Of[P](), func(v reflect.Value) reflect.Value {
		c, _ := v.Interface().(C)
		p := up(c)
		return reflect.ValueOf(&p).Elem()
	})
}

// Parent returns the parent of t and the upcast leading to it.
// A nil hierarchy has no declared parents and uses embedded ancestry.
func (h *Hierarchy) Parent(t reflect.Type) (reflect.Type, Upcast, bool) {
	if t == nil {
		return nil, nil, false
	}

	if h != nil {
		if l, ok := h.declared[t]; ok {
			return l.parent, l.up, true
		}

		if !h.embedded {
			return nil, nil, false
		}
	}

	return embeddedParent(t)
}

// Walk calls visit with t and then each ancestor of t, nearest first,
// along with the chain of upcasts leading from t to it. It stops as soon
// as visit returns false or the ancestry ends.
func (h *Hierarchy) Walk(t reflect.Type, visit func(reflect.Type, Chain) bool) {
	seen := make(map[reflect.Type]struct{})

	var chain Chain
	for t != nil {
		if _, loop := seen[t]; loop {
			return
		}
		seen[t] = struct{}{}

		if !visit(t, chain) {
			return
		}

		parent, up, ok := h.Parent(t)
		if !ok {
			return
		}

		chain = append(chain[:len(chain):len(chain)], up)
		t = parent
	}
}

// Ancestors returns the ancestors of t, nearest first, excluding t itself.
func (h *Hierarchy) Ancestors(t reflect.Type) []reflect.Type {
	var out []reflect.Type
	h.Walk(t, func(a reflect.Type, _ Chain) bool {
		if a != t {
			out = append(out, a)
		}
		return true
	})

	return out
}

// PathTo returns the upcasts leading from t to ancestor.
// The chain is empty when t == ancestor.
func (h *Hierarchy) PathTo(t, ancestor reflect.Type) (Chain, bool) {
	var (
		found Chain
		ok    bool
	)

	h.Walk(t, func(a reflect.Type, chain Chain) bool {
		if a == ancestor {
			found, ok = chain, true
		}
		return !ok
	})

	return found, ok
}

func embeddedParent(t reflect.Type) (reflect.Type, Upcast, bool) {
	depth, base := PtrDepthAndBase(t)
	if depth > 1 || base.Kind() != reflect.Struct || base.NumField() == 0 {
		return nil, nil, false
	}

	field := base.Field(0)
	if !field.Anonymous || !field.IsExported() {
		return nil, nil, false
	}

	fieldDepth, fieldBase := PtrDepthAndBase(field.Type)
	if fieldDepth > 1 || fieldBase.Kind() != reflect.Struct {
		return nil, nil, false
	}

	var (
		parent reflect.Type
		up     Upcast
	)

	switch {
	case depth == 0:
		parent = field.Type
		up = func(v reflect.Value) reflect.Value {
			return v.Field(0)
		}

	case fieldDepth == 1:
		parent = field.Type
		up = func(v reflect.Value) reflect.Value {
			if v.IsNil() {
				return reflect.Zero(parent)
			}
			return v.Elem().Field(0)
		}

	default:
		parent = reflect.PointerTo(field.Type)
		up = func(v reflect.Value) reflect.Value {
			if v.IsNil() {
				return reflect.Zero(parent)
			}
			return v.Elem().Field(0).Addr()
		}
	}

	if parent == t {
		return nil, nil, false
	}

	return parent, up, true
}
