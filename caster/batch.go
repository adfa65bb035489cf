package caster

import (
	"reflect"

	mapset "github.com/deckarep/golang-set/v2"

	"graph-caster/token"
)

// elementFunc converts one element within the batch context.
type elementFunc func(s *Service, elem any, ctx *Context) (any, error)

func lenient(target reflect.Type) elementFunc {
	return func(s *Service, elem any, ctx *Context) (any, error) {
		return s.process(elem, target, ctx)
	}
}

func strictly(declared, target reflect.Type) elementFunc {
	return func(s *Service, elem any, ctx *Context) (any, error) {
		return s.processStrictly(declared, elem, target, ctx)
	}
}

func elementsOf[S, T any](strict bool) elementFunc {
	if strict {
		return strictly(token.Of[S](), token.Of[T]())
	}

	return lenient(token.Of[T]())
}

// ProcessList converts every element of source to T. Null elements stay
// null. A nil source yields nil.
func ProcessList[S, T any](p Processor, source []S) ([]T, error) {
	return processList[S, T](p, source, false)
}

// ProcessListStrictly converts every element of source, declared as S, to
// T. Null elements are handed to the transformer too.
func ProcessListStrictly[S, T any](p Processor, source []S) ([]T, error) {
	return processList[S, T](p, source, true)
}

// ProcessInto appends the converted elements of source to target.
func ProcessInto[S, T any](p Processor, source []S, target *[]T) error {
	return processInto(p, source, target, false)
}

// ProcessStrictlyInto is ProcessInto with strict element dispatch.
func ProcessStrictlyInto[S, T any](p Processor, source []S, target *[]T) error {
	return processInto(p, source, target, true)
}

func processList[S, T any](p Processor, source []S, strict bool) ([]T, error) {
	if source == nil {
		return nil, nil
	}

	out := make([]T, 0, len(source))
	if err := processInto(p, source, &out, strict); err != nil {
		return nil, err
	}

	return out, nil
}

func processInto[S, T any](p Processor, source []S, target *[]T, strict bool) error {
	s, ctx, err := resolve(p)
	if err != nil {
		return err
	}

	if source == nil || target == nil {
		return nil
	}

	convert := elementsOf[S, T](strict)

	out := make([]T, 0, len(source))
	for _, elem := range source {
		v, err := convert(s, elem, ctx)
		if err != nil {
			return err
		}
		out = append(out, as[T](v))
	}

	*target = append(*target, out...)
	return nil
}

// ProcessSet converts every element of source to T.
func ProcessSet[S, T comparable](p Processor, source mapset.Set[S]) (mapset.Set[T], error) {
	return processSet[S, T](p, source, false)
}

// ProcessSetStrictly converts every element of source, declared as S, to T.
func ProcessSetStrictly[S, T comparable](p Processor, source mapset.Set[S]) (mapset.Set[T], error) {
	return processSet[S, T](p, source, true)
}

// ProcessSetInto adds the converted elements of source to target.
func ProcessSetInto[S, T comparable](p Processor, source mapset.Set[S], target mapset.Set[T]) error {
	return processSetInto(p, source, target, false)
}

// ProcessSetStrictlyInto is ProcessSetInto with strict element dispatch.
func ProcessSetStrictlyInto[S, T comparable](p Processor, source mapset.Set[S], target mapset.Set[T]) error {
	return processSetInto(p, source, target, true)
}

func processSet[S, T comparable](p Processor, source mapset.Set[S], strict bool) (mapset.Set[T], error) {
	if source == nil {
		return nil, nil
	}

	out := mapset.NewSetWithSize[T](source.Cardinality())
	if err := processSetInto(p, source, out, strict); err != nil {
		return nil, err
	}

	return out, nil
}

func processSetInto[S, T comparable](p Processor, source mapset.Set[S], target mapset.Set[T], strict bool) error {
	s, ctx, err := resolve(p)
	if err != nil {
		return err
	}

	if source == nil || target == nil {
		return nil
	}

	convert := elementsOf[S, T](strict)

	out := make([]T, 0, source.Cardinality())
	for _, elem := range source.ToSlice() {
		v, err := convert(s, elem, ctx)
		if err != nil {
			return err
		}
		out = append(out, as[T](v))
	}

	target.Append(out...)
	return nil
}

// ProcessMap converts every key of source to TK and every value to TV.
func ProcessMap[SK comparable, SV any, TK comparable, TV any](p Processor, source map[SK]SV) (map[TK]TV, error) {
	return processMap[SK, SV, TK, TV](p, source, false)
}

// ProcessMapStrictly converts every key, declared as SK, to TK and every
// value, declared as SV, to TV.
func ProcessMapStrictly[SK comparable, SV any, TK comparable, TV any](p Processor, source map[SK]SV) (map[TK]TV, error) {
	return processMap[SK, SV, TK, TV](p, source, true)
}

// ProcessMapInto stores the converted entries of source into target.
func ProcessMapInto[SK comparable, SV any, TK comparable, TV any](p Processor, source map[SK]SV, target map[TK]TV) error {
	return processMapInto(p, source, target, false)
}

// ProcessMapStrictlyInto is ProcessMapInto with strict key and value dispatch.
func ProcessMapStrictlyInto[SK comparable, SV any, TK comparable, TV any](p Processor, source map[SK]SV, target map[TK]TV) error {
	return processMapInto(p, source, target, true)
}

func processMap[SK comparable, SV any, TK comparable, TV any](p Processor, source map[SK]SV, strict bool) (map[TK]TV, error) {
	if source == nil {
		return nil, nil
	}

	out := make(map[TK]TV, len(source))
	if err := processMapInto(p, source, out, strict); err != nil {
		return nil, err
	}

	return out, nil
}

func processMapInto[SK comparable, SV any, TK comparable, TV any](p Processor, source map[SK]SV, target map[TK]TV, strict bool) error {
	s, ctx, err := resolve(p)
	if err != nil {
		return err
	}

	if source == nil || target == nil {
		return nil
	}

	convertKey := elementsOf[SK, TK](strict)
	convertValue := elementsOf[SV, TV](strict)

	out := make(map[TK]TV, len(source))
	for k, v := range source {
		tk, err := convertKey(s, k, ctx)
		if err != nil {
			return err
		}

		tv, err := convertValue(s, v, ctx)
		if err != nil {
			return err
		}

		out[as[TK](tk)] = as[TV](tv)
	}

	for k, v := range out {
		target[k] = v
	}

	return nil
}
