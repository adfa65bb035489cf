package caster_test

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"graph-caster/caster"
)

func TestProcessList_NullElements(t *testing.T) {
	svc := mustService(caster.Func(sourceToTarget))
	source := []*Source{{Name: "a"}, nil, {Name: "b"}}

	lenient, err := caster.ProcessList[*Source, *Target](svc, source)
	require.NoError(t, err)
	assert.Equal(t, []*Target{{Name: "A"}, nil, {Name: "B"}}, lenient)

	strict, err := caster.ProcessListStrictly[*Source, *Target](svc, source)
	require.NoError(t, err)
	assert.Equal(t, []*Target{{Name: "A"}, {Null: true}, {Name: "B"}}, strict)
}

func TestProcessList_NilContainers(t *testing.T) {
	svc := mustService(caster.Func(sourceToTarget))

	got, err := caster.ProcessList[*Source, *Target](svc, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = caster.ProcessListStrictly[*Source, *Target](svc, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, caster.ProcessInto[*Source, *Target](svc, []*Source{{}}, nil))
	assert.NoError(t, caster.ProcessStrictlyInto[*Source, *Target](svc, nil, nil))

	got, err = caster.ProcessList[*Source, *Target](svc, []*Source{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProcessInto_Appends(t *testing.T) {
	svc := mustService(caster.Func(sourceToTarget))
	target := []*Target{{Name: "KEEP"}}

	require.NoError(t, caster.ProcessInto(svc, []*Source{{Name: "x"}}, &target))
	require.NoError(t, caster.ProcessStrictlyInto(svc, []*Source{nil}, &target))

	assert.Equal(t, []*Target{{Name: "KEEP"}, {Name: "X"}, {Null: true}}, target)
}

func TestProcessList_SharedContext(t *testing.T) {
	var (
		seen  []int
		after int
	)

	svc := mustService(
		caster.Func(func(s *Source, ctx *caster.Context) (*Target, error) {
			n, _ := caster.KeyedValue[int](ctx, "count")
			seen = append(seen, n)
			return sourceToTarget(s), ctx.SetKey("count", n+1)
		}),
		caster.Func(func(c Code, ctx *caster.Context) (Label, error) {
			if err := ctx.SetKey("count", 10); err != nil {
				return "", err
			}

			if _, err := caster.ProcessList[*Source, *Target](ctx, []*Source{{}, {}, {}}); err != nil {
				return "", err
			}

			after, _ = caster.KeyedValue[int](ctx, "count")
			return codeToLabel(c), nil
		}),
	)

	_, err := caster.Process[Label](svc, Code("batch"))
	require.NoError(t, err)

	assert.Equal(t, []int{10, 11, 12}, seen, "later elements see earlier additions")
	assert.Equal(t, 10, after, "the caller does not")
}

func TestProcessList_StopsOnError(t *testing.T) {
	var calls int
	svc := mustService(caster.Func(func(s *Source) (*Target, error) {
		calls++
		if s.Name == "bad" {
			return nil, errBroken
		}
		return sourceToTarget(s), nil
	}))

	got, err := caster.ProcessList[*Source, *Target](svc, []*Source{{Name: "ok"}, {Name: "bad"}, {Name: "never"}})
	assert.ErrorIs(t, err, errBroken)
	assert.Nil(t, got, "no partial results")
	assert.Equal(t, 2, calls)

	target := []*Target{{Name: "KEEP"}}
	err = caster.ProcessInto(svc, []*Source{{Name: "ok"}, {Name: "bad"}}, &target)
	assert.ErrorIs(t, err, caster.ErrTransformer)
	assert.Len(t, target, 1, "target untouched on failure")
}

func TestProcessList_PreservesLength(t *testing.T) {
	svc := mustService(caster.Func(sourceToTarget))

	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOf(rapid.StringMatching(`[a-z]{0,4}`)).Draw(t, "names")
		nulls := rapid.SliceOfN(rapid.Bool(), len(names), len(names)).Draw(t, "nulls")

		source := make([]*Source, len(names))
		for i, name := range names {
			if !nulls[i] {
				source[i] = &Source{Name: name}
			}
		}

		lenient, err := caster.ProcessList[*Source, *Target](svc, source)
		if err != nil {
			t.Fatalf("lenient: %v", err)
		}

		strict, err := caster.ProcessListStrictly[*Source, *Target](svc, source)
		if err != nil {
			t.Fatalf("strict: %v", err)
		}

		if len(lenient) != len(source) || len(strict) != len(source) {
			t.Fatalf("lengths %d/%d, want %d", len(lenient), len(strict), len(source))
		}

		for i := range source {
			if (source[i] == nil) != (lenient[i] == nil) {
				t.Fatalf("element %d: null-ness changed", i)
			}
			if strict[i] == nil {
				t.Fatalf("element %d: strict result is null", i)
			}
		}
	})
}

func TestProcessSet(t *testing.T) {
	svc := mustService(caster.Func(codeToLabel))

	got, err := caster.ProcessSet[Code, Label](svc, mapset.NewSet[Code]("a", "b", "A"))
	require.NoError(t, err)
	assert.True(t, got.Equal(mapset.NewSet[Label]("A", "B")))

	got, err = caster.ProcessSetStrictly[Code, Label](svc, mapset.NewSet[Code]("c"))
	require.NoError(t, err)
	assert.True(t, got.Contains("C"))

	got, err = caster.ProcessSet[Code, Label](svc, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	target := mapset.NewSet[Label]("Z")
	require.NoError(t, caster.ProcessSetInto(svc, mapset.NewSet[Code]("y"), target))
	require.NoError(t, caster.ProcessSetStrictlyInto(svc, mapset.NewSet[Code]("x"), target))
	assert.ElementsMatch(t, []Label{"X", "Y", "Z"}, target.ToSlice())

	assert.NoError(t, caster.ProcessSetInto[Code, Label](svc, mapset.NewSet[Code]("y"), nil))
}

func TestProcessMap_NullEntries(t *testing.T) {
	svc := mustService(caster.Func(sourceToTarget))
	key := &Source{Name: "k"}
	source := map[*Source]*Source{
		key: {Name: "v"},
		nil: nil,
	}

	lenient, err := caster.ProcessMap[*Source, *Source, *Target, *Target](svc, source)
	require.NoError(t, err)
	require.Len(t, lenient, 2)

	value, ok := lenient[nil]
	assert.True(t, ok, "null key converts to the null key")
	assert.Nil(t, value)

	strict, err := caster.ProcessMapStrictly[*Source, *Source, *Target, *Target](svc, source)
	require.NoError(t, err)
	require.Len(t, strict, 2)

	_, ok = strict[nil]
	assert.False(t, ok)

	for k, v := range strict {
		if k.Null {
			assert.Equal(t, &Target{Null: true}, v, "null value is simulated too")
		} else {
			assert.Equal(t, &Target{Name: "K"}, k)
			assert.Equal(t, &Target{Name: "V"}, v)
		}
	}
}

func TestProcessMapInto(t *testing.T) {
	svc := mustService(caster.Func(codeToLabel))
	target := map[Label]Label{"OLD": "OLD"}

	require.NoError(t, caster.ProcessMapInto(svc, map[Code]Code{"a": "b"}, target))
	require.NoError(t, caster.ProcessMapStrictlyInto(svc, map[Code]Code{"c": "d"}, target))
	assert.Equal(t, map[Label]Label{"OLD": "OLD", "A": "B", "C": "D"}, target)

	assert.NoError(t, caster.ProcessMapInto[Code, Code, Label, Label](svc, map[Code]Code{"a": "b"}, nil))

	got, err := caster.ProcessMap[Code, Code, Label, Label](svc, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
