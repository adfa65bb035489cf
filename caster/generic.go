package caster

import "graph-caster/token"

// Processor is what dispatch helpers run on: a *Service, or the *Context
// a transformer receives.
type Processor interface {
	IsService() bool
	scope() (*Service, *Context)
}

// resolve returns the service behind p and a context to hand over as is:
// a child of the context p carries, or a fresh one.
func resolve(p Processor) (*Service, *Context, error) {
	if p == nil {
		return nil, nil, usagef("processor is nil")
	}

	s, ctx := p.scope()
	if s == nil {
		return nil, nil, usagef("context is not attached to a service")
	}

	return s, ctx.derive(s), nil
}

func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Process converts source to T. A null source yields the zero T.
func Process[T any](p Processor, source any) (T, error) {
	s, ctx, err := resolve(p)
	if err != nil {
		var zero T
		return zero, err
	}

	out, err := s.process(source, token.Of[T](), ctx)
	return as[T](out), err
}

// ProcessStrictly converts source, declared as S, to T.
func ProcessStrictly[S, T any](p Processor, source S) (T, error) {
	s, ctx, err := resolve(p)
	if err != nil {
		var zero T
		return zero, err
	}

	out, err := s.processStrictly(token.Of[S](), source, token.Of[T](), ctx)
	return as[T](out), err
}

// ProcessNull converts the null of S to T.
func ProcessNull[S, T any](p Processor) (T, error) {
	s, ctx, err := resolve(p)
	if err != nil {
		var zero T
		return zero, err
	}

	out, err := s.processStrictly(token.Of[S](), nil, token.Of[T](), ctx)
	return as[T](out), err
}
