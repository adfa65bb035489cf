package caster_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graph-caster/caster"
	"graph-caster/metrics"
	"graph-caster/options"
	"graph-caster/store"
	"graph-caster/warehouse"
)

// accounts is a fake table of API customers keyed by a generated id.
type accounts struct {
	rows   map[uuid.UUID]*warehouse.Customer
	byID   map[int64]uuid.UUID
	writes int
}

func newAccounts() *accounts {
	return &accounts{
		rows: make(map[uuid.UUID]*warehouse.Customer),
		byID: make(map[int64]uuid.UUID),
	}
}

// customerSync keeps warehouse customers in sync with stored ones, and
// turns them back into stored customers without a lookup.
type customerSync struct {
	table *accounts
}

func (s customerSync) FetchTarget(c *store.Customer, _ *caster.Context) (*warehouse.Customer, bool, error) {
	key, ok := s.table.byID[c.ID]
	if !ok {
		return nil, false, nil
	}

	return s.table.rows[key], true, nil
}

func (s customerSync) SyncTarget(c *store.Customer, w *warehouse.Customer, _ *caster.Context) error {
	w.Email = c.Email
	w.Active = c.IsActive
	return nil
}

func (s customerSync) PersistTarget(w *warehouse.Customer, c *store.Customer, _ *caster.Context) (*warehouse.Customer, error) {
	if w == nil {
		w = &warehouse.Customer{ID: uint(c.ID), Email: c.Email, Active: c.IsActive}
	}

	key, ok := s.table.byID[c.ID]
	if !ok {
		key = uuid.New()
		s.table.byID[c.ID] = key
	}

	s.table.rows[key] = w
	s.table.writes++
	return w, nil
}

func (s customerSync) ToSource(w *warehouse.Customer, _ *caster.Context) (*store.Customer, error) {
	return &store.Customer{Entity: store.Entity{ID: int64(w.ID)}, Email: w.Email, IsActive: w.Active}, nil
}

func TestPersist(t *testing.T) {
	table := newAccounts()
	svc := mustService(caster.Persist[*store.Customer, *warehouse.Customer](customerSync{table: table}))

	stored := &store.Customer{Entity: store.Entity{ID: 5}, Email: "a@example.com"}

	created, err := caster.Process[*warehouse.Customer](svc, stored)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", created.Email)
	assert.Len(t, table.rows, 1)

	stored.Email, stored.IsActive = "b@example.com", true

	updated, err := caster.Process[*warehouse.Customer](svc, stored)
	require.NoError(t, err)
	assert.Same(t, created, updated, "fetched and updated in place")
	assert.True(t, updated.Active)
	assert.Len(t, table.rows, 1)
	assert.Equal(t, 2, table.writes)

	back, err := caster.Process[*store.Customer](svc, updated)
	require.NoError(t, err)
	assert.Equal(t, stored, back)
	assert.Equal(t, 2, table.writes, "the reverse direction does not persist")
}

// labelSync edits labels stored in a context-provided index in both directions.
type labelSync struct {
	caster.SkipPersistTarget[Code, *Ref]
	caster.SkipPersistSource[Code, *Ref]
}

func (labelSync) FetchTarget(c Code, ctx *caster.Context) (*Ref, bool, error) {
	ref, ok := caster.KeyedValue[*Ref](ctx, string(c))
	return ref, ok, nil
}

func (labelSync) SyncTarget(c Code, ref *Ref, _ *caster.Context) error {
	ref.Kind = string(c)
	return nil
}

func (labelSync) FetchSource(ref *Ref, _ *caster.Context) (Code, bool, error) {
	return Code(ref.Kind), ref.Kind != "", nil
}

func (labelSync) SyncSource(*Ref, Code, *caster.Context) error {
	return nil
}

func TestBiSync(t *testing.T) {
	svc := mustService(caster.BiSync[Code, *Ref](labelSync{}))

	existing := &Ref{ID: 1}
	ctx := caster.NewContext(caster.Keyed("x", existing))

	raw, err := svc.Process(Code("x"), tokenOf[*Ref](), ctx)
	require.NoError(t, err)
	assert.Same(t, existing, raw)
	assert.Equal(t, "x", existing.Kind)

	missing, err := caster.Process[*Ref](svc, Code("y"))
	require.NoError(t, err)
	assert.Nil(t, missing, "nothing fetched, nothing persisted")

	code, err := caster.Process[Code](svc, &Ref{Kind: "z"})
	require.NoError(t, err)
	assert.Equal(t, Code("z"), code)
}

type failingSync struct {
	caster.SkipPersistTarget[*Row, *Item]
	fetch, sync error
}

func (s failingSync) FetchTarget(*Row, *caster.Context) (*Item, bool, error) {
	return &Item{}, true, s.fetch
}

func (s failingSync) SyncTarget(*Row, *Item, *caster.Context) error {
	return s.sync
}

func TestSync_Errors(t *testing.T) {
	errFetch, errSync := errors.New("fetch"), errors.New("sync")

	svc := mustService(caster.Sync[*Row, *Item](failingSync{fetch: errFetch}))
	_, err := caster.Process[*Item](svc, &Row{})
	assert.ErrorIs(t, err, errFetch)

	svc = mustService(caster.Sync[*Row, *Item](failingSync{sync: errSync}))
	_, err = caster.Process[*Item](svc, &Row{})
	assert.ErrorIs(t, err, errSync)
	assert.ErrorIs(t, err, caster.ErrTransformer)
}

func TestBiConvert_RoundTrip(t *testing.T) {
	svc := mustService(caster.BiConvert[Code, Label](caster.BiFuncs[Code, Label]{
		Forward:  func(c Code, _ *caster.Context) (Label, error) { return codeToLabel(c), nil },
		Backward: func(l Label, _ *caster.Context) (Code, error) { return Code(string(l) + "!"), nil },
	}))

	label, err := caster.Process[Label](svc, Code("go"))
	require.NoError(t, err)
	assert.Equal(t, Label("GO"), label)

	code, err := caster.Process[Code](svc, label)
	require.NoError(t, err)
	assert.Equal(t, Code("GO!"), code)
}

// unitError is a concrete error type returned as a typed pointer.
type unitError struct{ unit string }

func (e *unitError) Error() string { return "bad unit " + e.unit }

func TestFunc_Shapes(t *testing.T) {
	type Meters float64
	type Feet float64
	type Miles float64
	type Yards float64

	svc := mustService(
		caster.Func(func(m Meters) Feet { return Feet(m * 3.28084) }),
		caster.Func(func(m Meters) (Miles, error) {
			if m < 0 {
				return 0, errBroken
			}
			return Miles(m / 1609.344), nil
		}),
		caster.Func(func(f Feet) (Yards, bool) { return Yards(f / 3), f > 0 }),
		caster.Func(func(y Yards, ctx *caster.Context) (Meters, bool, error) {
			scale := caster.ValueOr(ctx, 1.0)
			return Meters(float64(y) * 0.9144 * scale), y != 0, nil
		}),
	)

	feet, err := caster.Process[Feet](svc, Meters(1))
	require.NoError(t, err)
	assert.InDelta(t, 3.28084, float64(feet), 1e-9)

	_, err = caster.Process[Miles](svc, Meters(-1))
	assert.ErrorIs(t, err, errBroken)

	yards, err := caster.Process[Yards](svc, Feet(-3))
	require.NoError(t, err)
	assert.Zero(t, yards, "false yields the zero target")

	raw, err := svc.Process(Yards(10), tokenOf[Meters](), caster.NewContext(2.0))
	require.NoError(t, err)
	assert.InDelta(t, 18.288, float64(raw.(Meters)), 1e-9)
}

func TestFunc_ConcreteErrorType(t *testing.T) {
	svc := mustService(caster.Func(func(s *Source) (*Target, *unitError) {
		if s.Name == "" {
			return nil, &unitError{unit: "none"}
		}
		return &Target{Name: s.Name}, nil
	}))

	target, err := caster.Process[*Target](svc, &Source{Name: "m"})
	require.NoError(t, err, "a nil *unitError is success")
	assert.Equal(t, "m", target.Name)

	_, err = caster.Process[*Target](svc, &Source{})
	assert.ErrorIs(t, err, caster.ErrTransformer)

	var ue *unitError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "none", ue.unit)
}

func TestService_Metrics(t *testing.T) {
	collector, err := metrics.NewCollector(options.MetricsConfig{Enabled: true, Namespace: "caster"})
	require.NoError(t, err)

	svc, err := caster.New(
		[]caster.Transformer{caster.Func(sourceToTarget), caster.Convert[*Source, *Ref](nil)},
		caster.WithMetrics(collector),
		caster.WithFlags(options.FlagDefault|options.FlagLogFaults),
	)
	require.NoError(t, err)

	_, err = caster.Process[*Target](svc, &Source{Name: "a"})
	require.NoError(t, err)
	_, err = caster.ProcessStrictly[*Source, *Target](svc, &Source{Name: "b"})
	require.NoError(t, err)
	_, err = caster.Process[*Ref](svc, &Source{})
	require.ErrorIs(t, err, caster.ErrNoTransformer)

	expected := `
# HELP caster_dispatches_total Total number of transformer invocations
# TYPE caster_dispatches_total counter
caster_dispatches_total{strict="false"} 1
caster_dispatches_total{strict="true"} 1
# HELP caster_faults_total Total number of faults returned, by kind
# TYPE caster_faults_total counter
caster_faults_total{kind="no transformer"} 1
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected),
		"caster_dispatches_total", "caster_faults_total"))
}
