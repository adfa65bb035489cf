package caster_test

import (
	"errors"
	"reflect"
	"strings"

	"graph-caster/caster"
	"graph-caster/store"
)

type Source struct{ Name string }

type Target struct {
	Name string
	Null bool
}

func sourceToTarget(s *Source) *Target {
	if s == nil {
		return &Target{Null: true}
	}

	return &Target{Name: strings.ToUpper(s.Name)}
}

// Ref is what any stored entity converts to.
type Ref struct {
	ID   int64
	Kind string
}

func entityToRef(e *store.Entity) *Ref {
	return &Ref{ID: e.ID, Kind: "entity"}
}

func productToRef(p *store.Product) *Ref {
	return &Ref{ID: p.ID, Kind: "product:" + p.SKU}
}

type Code string

type Label string

func codeToLabel(c Code) Label {
	return Label(strings.ToUpper(string(c)))
}

var errBroken = errors.New("broken")

type failing struct{}

func (failing) ToTarget(*Source, *caster.Context) (*Target, error) {
	return nil, errBroken
}

type panicking struct{}

func (panicking) ToTarget(*Source, *caster.Context) (*Target, error) {
	panic("boom")
}

func mustService(transformers ...caster.Transformer) *caster.Service {
	svc, err := caster.Of(transformers...)
	if err != nil {
		panic(err)
	}

	return svc
}

func tokenOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
