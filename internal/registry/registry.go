// Package registry indexes transformer handles by (target, source) type
// pair. A registry is built once and read-only afterward, so concurrent
// lookups need no locking.
package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"graph-caster/internal/diagnostic"
	"graph-caster/token"
)

var (
	ErrAmbiguous      = errors.New("ambiguous transformer pair")
	ErrUnresolvedType = errors.New("unresolved transformer type")
)

// Entry is one transformer direction to register.
type Entry[H any] struct {
	Source, Target reflect.Type
	Name           string
	Handle         H
}

// Pair is a registered (source, target) combination.
type Pair struct{ Source, Target reflect.Type }

func (p Pair) String() string {
	return token.Short(p.Source) + " -> " + token.Short(p.Target)
}

// Match is the result of a lookup: the handle, the type it was registered
// for, and the upcasts presenting the looked-up source as that type.
type Match[H any] struct {
	Handle H
	Source reflect.Type
	Chain  token.Chain
}

type Registry[H any] struct {
	hierarchy *token.Hierarchy
	byTarget  map[reflect.Type]map[reflect.Type]H
	names     map[Pair]string
}

// Build indexes entries. Every problem found is reported in the returned
// diagnostics; the registry is only usable when they hold no errors.
func Build[H any](h *token.Hierarchy, entries ...Entry[H]) (*Registry[H], diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	r := &Registry[H]{
		hierarchy: h,
		byTarget:  make(map[reflect.Type]map[reflect.Type]H),
		names:     make(map[Pair]string),
	}

	for _, e := range entries {
		pair := Pair{Source: e.Source, Target: e.Target}

		if !token.IsConcrete(e.Source) || !token.IsConcrete(e.Target) {
			diags.AddError(diagnostic.CodeUnresolved,
				fmt.Errorf("%w: %s declares %s", ErrUnresolvedType, e.Name, describe(e.Source, e.Target)), "")
			continue
		}

		row, ok := r.byTarget[e.Target]
		if !ok {
			row = make(map[reflect.Type]H)
			r.byTarget[e.Target] = row
		}

		if _, taken := row[e.Source]; taken {
			diags.AddError(diagnostic.CodeAmbiguous,
				fmt.Errorf("%w: %s and %s", ErrAmbiguous, r.names[pair], e.Name), pair.String())
			continue
		}

		row[e.Source] = e.Handle
		r.names[pair] = e.Name
	}

	return r, diags
}

func describe(src, dst reflect.Type) string {
	name := func(t reflect.Type) string {
		if t == nil {
			return "<nil>"
		}
		return token.Short(t)
	}

	return name(src) + " -> " + name(dst)
}

// Lookup finds the handle for (source, target), walking the ancestors of
// source, nearest first, when the exact pair is not registered.
func (r *Registry[H]) Lookup(source, target reflect.Type) (Match[H], bool) {
	row, ok := r.byTarget[target]
	if !ok {
		return Match[H]{}, false
	}

	var (
		match Match[H]
		found bool
	)

	r.hierarchy.Walk(source, func(t reflect.Type, chain token.Chain) bool {
		if handle, exists := row[t]; exists {
			match = Match[H]{Handle: handle, Source: t, Chain: chain}
			found = true
		}
		return !found
	})

	return match, found
}

// Exact finds the handle registered for exactly (source, target).
func (r *Registry[H]) Exact(source, target reflect.Type) (H, bool) {
	handle, ok := r.byTarget[target][source]
	return handle, ok
}

// HasTarget reports whether any handle produces target.
func (r *Registry[H]) HasTarget(target reflect.Type) bool {
	_, ok := r.byTarget[target]
	return ok
}

// Name returns the display name the pair was registered under.
func (r *Registry[H]) Name(source, target reflect.Type) string {
	return r.names[Pair{Source: source, Target: target}]
}

// Len returns the number of registered pairs.
func (r *Registry[H]) Len() int {
	return len(r.names)
}

func pairKey(p Pair) string {
	return token.String(p.Source) + " -> " + token.String(p.Target)
}

// Pairs returns every registered pair, sorted for stable output.
func (r *Registry[H]) Pairs() []Pair {
	pairs := make([]Pair, 0, len(r.names))
	for p := range r.names {
		pairs = append(pairs, p)
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairKey(pairs[i]) < pairKey(pairs[j])
	})

	return pairs
}
