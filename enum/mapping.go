package enum

import (
	"fmt"
	"reflect"

	"graph-caster/internal/common"
	"graph-caster/internal/match"
	"graph-caster/utils"
)

//go:generate go tool stringer -type=Mode -linecomment -output=mode_string.go

// Mode selects how enumerators of two types are matched.
type Mode int

const (
	_         Mode = iota
	ByName         // name
	ByOrdinal      // ordinal
)

// Mapping converts enumerators of Source into enumerators of Target.
// It is immutable once synthesized.
type Mapping struct {
	Mode           Mode
	Source, Target *Descriptor

	// table[i] is the target ordinal for source ordinal i
	table []int
}

// Synthesize builds the mapping from src to dst, failing when any source
// enumerator cannot be matched.
func Synthesize(mode Mode, src, dst *Descriptor) (*Mapping, error) {
	m := &Mapping{
		Mode:   mode,
		Source: src,
		Target: dst,
		table:  make([]int, src.Len()),
	}

	switch mode {
	default:
		return nil, fmt.Errorf("unsupported enum mapping mode %d", int(mode))

	case ByName:
		var missing []string
		for i, name := range src.names {
			j, ok := dst.Lookup(name)
			if !ok {
				if hint, found := match.Closest(name, dst.names); found {
					name = fmt.Sprintf("%s (did you mean %s?)", name, hint)
				}
				missing = append(missing, name)
				continue
			}
			m.table[i] = j
		}

		if !common.IsEmpty(missing) {
			return nil, fmt.Errorf("%w: %s%v not in %s", ErrMissingName, src.typ, missing, dst)
		}

	case ByOrdinal:
		if src.Len() != dst.Len() {
			return nil, fmt.Errorf("%w: %s has %d, %s has %d",
				ErrCardinality, src.typ, src.Len(), dst.typ, dst.Len())
		}

		for i := range m.table {
			m.table[i] = i
		}
	}

	return m, nil
}

// Apply converts v, an enumerator of the source type.
func (m *Mapping) Apply(v reflect.Value) (reflect.Value, error) {
	i, ok := m.Source.Ordinal(v)
	if !ok || !utils.IsInRange(0, i, len(m.table)-1) {
		return reflect.Value{}, fmt.Errorf("%w: %v of %s", ErrUnknownValue, v, m.Source.typ)
	}

	return m.Target.Value(m.table[i]), nil
}
