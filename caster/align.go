package caster

import (
	"reflect"

	"graph-caster/internal/common"
	"graph-caster/token"
)

// ProcessIntoAligning reconciles target with source without replacing it.
//
// Every source element is matched against the live target elements with eq.
// A matched target element is updated in place: the transformer finds it in
// its context under the element type, and must return that same instance
// when the type is a pointer, map, chan or func. Values of other types are
// written back into their slot. Target elements matching no source element
// are removed, keeping the order of the rest, and unmatched source elements
// are converted and appended. A nil source empties target.
func ProcessIntoAligning[S, T any](p Processor, source []S, target *[]T, eq func(S, T) bool) error {
	return align(p, source, target, eq, false)
}

// ProcessStrictlyIntoAligning is ProcessIntoAligning with strict element
// dispatch.
func ProcessStrictlyIntoAligning[S, T any](p Processor, source []S, target *[]T, eq func(S, T) bool) error {
	return align(p, source, target, eq, true)
}

func align[S, T any](p Processor, source []S, target *[]T, eq func(S, T) bool, strict bool) error {
	s, ctx, err := resolve(p)
	if err != nil {
		return err
	}

	if eq == nil {
		return s.fault(usagef("alignment equality predicate is nil"))
	}

	if target == nil {
		return nil
	}

	if source == nil {
		clear(*target)
		*target = (*target)[:0]
		return nil
	}

	live := *target

	// matched[i] is the live index aligned with source[i], or -1 when new
	matched := make([]int, len(source))
	claimed := make([]int, len(live))
	for j := range claimed {
		claimed[j] = -1
	}

	for i, elem := range source {
		var hits []int
		for j, existing := range live {
			if eq(elem, existing) {
				hits = append(hits, j)
			}
		}

		switch {
		case common.IsEmpty(hits):
			matched[i] = -1

		case common.IsSingle(hits):
			j, _ := common.First(hits)
			if claimed[j] >= 0 {
				return s.fault(usagef("target element %s is matched by source elements #%d and #%d",
					dump.Sprint(live[j]), claimed[j], i))
			}
			claimed[j], matched[i] = i, j

		default:
			return s.fault(usagef("source element %s matches %d target elements",
				dump.Sprint(elem), len(hits)))
		}
	}

	// drop unmatched targets, keeping order; slot maps live index to new index
	slot := make([]int, len(live))
	kept := live[:0]
	for j, existing := range live {
		if claimed[j] >= 0 {
			slot[j] = len(kept)
			kept = append(kept, existing)
		}
	}
	clear(live[len(kept):])
	*target = kept

	targetType := token.Of[T]()
	convert := elementsOf[S, T](strict)

	for i, elem := range source {
		if matched[i] < 0 {
			continue
		}

		k := slot[matched[i]]
		existing := kept[k]

		elemCtx := ctx.derive(s)
		if err := elemCtx.put(targetType, existing); err != nil {
			return s.fault(usagef("target element #%d is nil", k))
		}

		out, err := convert(s, elem, elemCtx)
		if err != nil {
			return err
		}

		updated := as[T](out)
		if err := s.checkIdentity(token.Of[S](), any(existing), any(updated)); err != nil {
			return err
		}

		kept[k] = updated
	}

	for i, elem := range source {
		if matched[i] >= 0 {
			continue
		}

		out, err := convert(s, elem, ctx)
		if err != nil {
			return err
		}

		kept = append(kept, as[T](out))
	}

	*target = kept
	return nil
}

// checkIdentity fails when an aligned element of a reference kind came
// back as a different instance.
func (s *Service) checkIdentity(sourceType reflect.Type, existing, updated any) error {
	ev, uv := reflect.ValueOf(existing), reflect.ValueOf(updated)
	if !ev.IsValid() || !token.IsReference(ev.Type()) {
		return nil
	}

	if !token.Same(ev, uv) {
		return s.fault(&Fault{
			Kind:    FaultUsage,
			Message: "aligned transformer returned a different instance than the one it was given",
			Source:  sourceType,
			Target:  ev.Type(),
		})
	}

	return nil
}
