package caster

import (
	"fmt"
	"reflect"

	"graph-caster/token"
)

// Converter builds a new target from a source.
type Converter[S, T any] interface {
	ToTarget(source S, ctx *Context) (T, error)
}

// BiConverter also builds a new source from a target.
type BiConverter[S, T any] interface {
	Converter[S, T]
	ToSource(target T, ctx *Context) (S, error)
}

// Synchronizer updates an existing target instead of building one.
// FetchTarget looks the target up and reports whether it exists,
// SyncTarget copies the source onto a found target, and PersistTarget
// stores the result. PersistTarget is called even when nothing was found,
// with the zero target, and its result is what the dispatch returns.
type Synchronizer[S, T any] interface {
	FetchTarget(source S, ctx *Context) (T, bool, error)
	SyncTarget(source S, target T, ctx *Context) error
	PersistTarget(target T, source S, ctx *Context) (T, error)
}

type Mapper[S, T any] = Synchronizer[S, T]

// BiSynchronizer updates existing instances in both directions.
type BiSynchronizer[S, T any] interface {
	Synchronizer[S, T]
	FetchSource(target T, ctx *Context) (S, bool, error)
	SyncSource(target T, source S, ctx *Context) error
	PersistSource(source S, target T, ctx *Context) (S, error)
}

// Persistor updates an existing target going forward and builds a new
// source going back.
type Persistor[S, T any] interface {
	Synchronizer[S, T]
	ToSource(target T, ctx *Context) (S, error)
}

// SkipPersistTarget is embedded by synchronizers that do not store anything.
type SkipPersistTarget[S, T any] struct{}

func (SkipPersistTarget[S, T]) PersistTarget(target T, _ S, _ *Context) (T, error) {
	return target, nil
}

// SkipPersistSource is the reverse counterpart of SkipPersistTarget.
type SkipPersistSource[S, T any] struct{}

func (SkipPersistSource[S, T]) PersistSource(source S, _ T, _ *Context) (S, error) {
	return source, nil
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc[S, T any] func(source S, ctx *Context) (T, error)

func (f ConverterFunc[S, T]) ToTarget(source S, ctx *Context) (T, error) {
	return f(source, ctx)
}

// BiFuncs adapts a pair of functions to BiConverter.
type BiFuncs[S, T any] struct {
	Forward  func(source S, ctx *Context) (T, error)
	Backward func(target T, ctx *Context) (S, error)
}

func (f BiFuncs[S, T]) ToTarget(source S, ctx *Context) (T, error) {
	return f.Forward(source, ctx)
}

func (f BiFuncs[S, T]) ToSource(target T, ctx *Context) (S, error) {
	return f.Backward(target, ctx)
}

// Transformer is a registration unit: one or two directions of a type
// pair. Build one with Convert, BiConvert, Sync, BiSync, Persist or Func.
type Transformer interface {
	handles() ([]handle, error)
}

// handle is one registered direction.
type handle struct {
	source, target reflect.Type
	name           string
	call           func(source reflect.Value, ctx *Context) (reflect.Value, error)
}

type transformer struct {
	list []handle
	err  error
}

func (t *transformer) handles() ([]handle, error) {
	return t.list, t.err
}

func valueAs[T any](v reflect.Value) T {
	if !v.IsValid() {
		var zero T
		return zero
	}

	t, _ := v.Interface().(T)
	return t
}

func valueOf[T any](t T) reflect.Value {
	return reflect.ValueOf(&t).Elem()
}

func forward[S, T any](name string, fn func(S, *Context) (T, error)) handle {
	return handle{
		source: token.Of[S](),
		target: token.Of[T](),
		name:   name,
		call: func(v reflect.Value, ctx *Context) (reflect.Value, error) {
			t, err := fn(valueAs[S](v), ctx)
			if err != nil {
				return reflect.Value{}, err
			}
			return valueOf(t), nil
		},
	}
}

func backward[S, T any](name string, fn func(T, *Context) (S, error)) handle {
	return forward(name+" (reverse)", fn)
}

func synchronize[S, T any](
	fetch func(S, *Context) (T, bool, error),
	sync func(S, T, *Context) error,
	persist func(T, S, *Context) (T, error),
) func(S, *Context) (T, error) {
	return func(source S, ctx *Context) (T, error) {
		var zero T

		target, found, err := fetch(source, ctx)
		if err != nil {
			return zero, err
		}

		if found {
			if err := sync(source, target, ctx); err != nil {
				return zero, err
			}
		} else {
			target = zero
		}

		return persist(target, source, ctx)
	}
}

func nameOf(v any) string {
	return fmt.Sprintf("%T", v)
}

// Convert registers a forward-only converter.
func Convert[S, T any](c Converter[S, T]) Transformer {
	if c == nil {
		return nil
	}

	return &transformer{list: []handle{
		forward(nameOf(c), c.ToTarget),
	}}
}

// BiConvert registers a converter in both directions.
func BiConvert[S, T any](c BiConverter[S, T]) Transformer {
	if c == nil {
		return nil
	}

	return &transformer{list: []handle{
		forward(nameOf(c), c.ToTarget),
		backward[S](nameOf(c), c.ToSource),
	}}
}

// Sync registers a forward-only synchronizer.
func Sync[S, T any](m Synchronizer[S, T]) Transformer {
	if m == nil {
		return nil
	}

	return &transformer{list: []handle{
		forward(nameOf(m), synchronize(m.FetchTarget, m.SyncTarget, m.PersistTarget)),
	}}
}

// BiSync registers a synchronizer in both directions.
func BiSync[S, T any](m BiSynchronizer[S, T]) Transformer {
	if m == nil {
		return nil
	}

	return &transformer{list: []handle{
		forward(nameOf(m), synchronize(m.FetchTarget, m.SyncTarget, m.PersistTarget)),
		backward[S](nameOf(m), synchronize(m.FetchSource, m.SyncSource, m.PersistSource)),
	}}
}

// Persist registers a synchronizer going forward and a converter going back.
func Persist[S, T any](p Persistor[S, T]) Transformer {
	if p == nil {
		return nil
	}

	return &transformer{list: []handle{
		forward(nameOf(p), synchronize(p.FetchTarget, p.SyncTarget, p.PersistTarget)),
		backward[S](nameOf(p), p.ToSource),
	}}
}
