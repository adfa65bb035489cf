package caster

import (
	"fmt"
	"reflect"

	"graph-caster/enum"
	"graph-caster/token"
)

// ProcessNamed converts enum value source to the enumerator of T with the
// same name. A transformer registered for exactly (S, T) takes precedence.
// Both enums must be declared with WithEnums, and every name of S must
// exist in T.
func ProcessNamed[S, T any](p Processor, source S) (T, error) {
	return processEnum[S, T](p, source, enum.ByName)
}

// ProcessOrdinal converts enum value source to the enumerator of T at the
// same position. A transformer registered for exactly (S, T) takes
// precedence. Both enums must be declared with WithEnums and have as many
// enumerators.
func ProcessOrdinal[S, T any](p Processor, source S) (T, error) {
	return processEnum[S, T](p, source, enum.ByOrdinal)
}

func processEnum[S, T any](p Processor, source S, mode enum.Mode) (T, error) {
	var zero T

	s, ctx, err := resolve(p)
	if err != nil {
		return zero, err
	}

	if isNull(source) {
		return zero, nil
	}

	src, dst := token.Of[S](), token.Of[T]()
	if src == dst {
		return as[T](source), nil
	}

	if h, ok := s.registry.Exact(src, dst); ok {
		out, err := s.invoke(h, reflect.ValueOf(source), ctx, true)
		if err != nil {
			return zero, err
		}
		return valueAs[T](out), nil
	}

	m, err := s.enums.Mapping(mode, src, dst)
	if err != nil {
		return zero, s.fault(&Fault{
			Kind:    FaultEnumMapping,
			Message: fmt.Sprintf("cannot map enumerators by %s", mode),
			Source:  src,
			Target:  dst,
			Cause:   err,
		})
	}

	out, err := m.Apply(reflect.ValueOf(source))
	if err != nil {
		return zero, s.fault(&Fault{
			Kind:    FaultEnumMapping,
			Message: fmt.Sprintf("cannot map %v", source),
			Source:  src,
			Target:  dst,
			Cause:   err,
		})
	}

	return valueAs[T](out), nil
}
