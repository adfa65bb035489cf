package caster

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/rs/zerolog"

	"graph-caster/enum"
	"graph-caster/internal/diagnostic"
	"graph-caster/internal/registry"
	"graph-caster/metrics"
	"graph-caster/options"
	"graph-caster/token"
)

// Service dispatches values to the registered transformers. It is
// immutable once built and safe for concurrent use.
type Service struct {
	registry   *registry.Registry[handle]
	hierarchy  *token.Hierarchy
	enums      *enum.Cache
	flags      options.Flag
	wrapPanics atomic.Bool
	logger     zerolog.Logger
	metrics    *metrics.Collector
}

// Pair is a registered (source, target) combination.
type Pair struct {
	Source, Target reflect.Type
}

func (p Pair) String() string {
	return token.Short(p.Source) + " -> " + token.Short(p.Target)
}

// Of builds a service with default options.
func Of(transformers ...Transformer) (*Service, error) {
	return New(transformers)
}

// New builds a service from transformers. Nil transformers are skipped.
// Every registration problem is reported in one registration fault.
func New(transformers []Transformer, opts ...Option) (*Service, error) {
	cfg := settings{
		flags:  options.FlagDefault,
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := cfg.logger.With().Str("component", "caster").Logger()
	if cfg.level != nil {
		logger = logger.Level(*cfg.level)
	}

	s := &Service{
		hierarchy: token.NewHierarchy(cfg.flags.Has(options.FlagEmbeddedAncestry)),
		flags:     cfg.flags,
		logger:    logger,
		metrics:   cfg.metrics,
	}
	s.wrapPanics.Store(cfg.flags.Has(options.FlagWrapPanics))

	var diags diagnostic.Diagnostics

	for _, err := range cfg.errs {
		diags.AddError(diagnostic.CodeInvalid, err, "")
	}

	for _, declare := range cfg.parents {
		if err := declare(s.hierarchy); err != nil {
			diags.AddError(diagnostic.CodeHierarchy, err, "")
		}
	}

	var entries []registry.Entry[handle]
	for i, t := range transformers {
		if t == nil {
			diags.AddInfo(diagnostic.CodeSkipped, fmt.Sprintf("nil transformer at #%d", i), "")
			continue
		}

		list, err := t.handles()
		if err != nil {
			diags.AddError(diagnostic.CodeInvalid, err, "")
			continue
		}

		for _, h := range list {
			entries = append(entries, registry.Entry[handle]{
				Source: h.source,
				Target: h.target,
				Name:   h.name,
				Handle: h,
			})
		}
	}

	reg, regDiags := registry.Build(s.hierarchy, entries...)
	diags.Merge(regDiags)
	s.registry = reg

	cache, err := enum.NewCache(cfg.enums, s.enumFilled)
	if err != nil {
		diags.AddError(diagnostic.CodeInvalid, err, "")
	}
	s.enums = cache

	for _, info := range diags.Infos {
		logger.Debug().Str("code", info.Code).Msg(info.Message)
	}

	if diags.HasErrors() {
		f := &Fault{
			Kind:    FaultRegistration,
			Message: fmt.Sprintf("%d problem(s) found", len(diags.Errors)),
			Cause:   diags.Err(),
		}
		logger.Error().Err(f.Cause).Msg("registration failed")
		return nil, f
	}

	for _, p := range reg.Pairs() {
		logger.Debug().
			Str("source", token.Short(p.Source)).
			Str("target", token.Short(p.Target)).
			Str("transformer", reg.Name(p.Source, p.Target)).
			Msg("registered")
	}

	logger.Info().
		Int("pairs", reg.Len()).
		Int("enums", len(cfg.enums)).
		Stringer("flags", cfg.flags).
		Msg("service ready")

	return s, nil
}

func (s *Service) enumFilled(m *enum.Mapping) {
	s.metrics.EnumSynthesized(m.Mode.String())
	s.logger.Debug().
		Stringer("mode", m.Mode).
		Str("source", token.Short(m.Source.Type())).
		Str("target", token.Short(m.Target.Type())).
		Msg("enum mapping synthesized")
}

// IsService reports true: a service is the dispatcher itself.
func (s *Service) IsService() bool { return true }

func (s *Service) scope() (*Service, *Context) {
	return s, nil
}

// Pairs returns every registered (source, target) pair.
func (s *Service) Pairs() []Pair {
	pairs := s.registry.Pairs()

	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, Pair{Source: p.Source, Target: p.Target})
	}

	return out
}

// SetWrapPanics turns recovery of transformer panics on or off. With it
// off, a panicking transformer panics the caller.
func (s *Service) SetWrapPanics(on bool) {
	s.wrapPanics.Store(on)
}

// WrapsPanics reports whether transformer panics are recovered.
func (s *Service) WrapsPanics() bool {
	return s.wrapPanics.Load()
}

// Process converts source to target using the transformer registered for
// the dynamic type of source or its nearest registered ancestor. A null
// source yields nil without calling anything. ctx may be nil.
func (s *Service) Process(source any, target reflect.Type, ctx *Context) (any, error) {
	return s.process(source, target, ctx.derive(s))
}

// ProcessStrictly converts source, declared as sourceType, to target. A
// null source is replaced by the zero value of sourceType and still handed
// to the transformer. When sourceType is target the source is returned
// as is. ctx may be nil.
func (s *Service) ProcessStrictly(sourceType reflect.Type, source any, target reflect.Type, ctx *Context) (any, error) {
	return s.processStrictly(sourceType, source, target, ctx.derive(s))
}

// ProcessNull converts the null of sourceType to target.
func (s *Service) ProcessNull(sourceType, target reflect.Type, ctx *Context) (any, error) {
	return s.ProcessStrictly(sourceType, nil, target, ctx)
}

func isNull(v any) bool {
	return v == nil || token.IsNil(reflect.ValueOf(v))
}

// process and processStrictly hand ctx to the transformer as is.
func (s *Service) process(source any, target reflect.Type, ctx *Context) (any, error) {
	if target == nil {
		return nil, s.fault(usagef("target type is nil"))
	}

	if isNull(source) {
		return nil, nil
	}

	return s.dispatch(reflect.TypeOf(source), reflect.ValueOf(source), target, ctx, false)
}

func (s *Service) processStrictly(sourceType reflect.Type, source any, target reflect.Type, ctx *Context) (any, error) {
	if sourceType == nil || target == nil {
		return nil, s.fault(usagef("source type %s or target type %s is nil", token.Short(sourceType), token.Short(target)))
	}

	if sourceType == target {
		return source, nil
	}

	v := reflect.ValueOf(source)
	switch {
	case isNull(source):
		v = reflect.Zero(sourceType)

	case v.Type() == sourceType:

	case v.Type().AssignableTo(sourceType):
		assigned := reflect.New(sourceType).Elem()
		assigned.Set(v)
		v = assigned

	default:
		chain, ok := s.hierarchy.PathTo(v.Type(), sourceType)
		if !ok {
			return nil, s.fault(&Fault{
				Kind:    FaultUsage,
				Message: fmt.Sprintf("source of type %s is not a %s", token.Short(v.Type()), token.Short(sourceType)),
				Source:  sourceType,
				Target:  target,
			})
		}
		v = chain.Apply(v)
	}

	return s.dispatch(sourceType, v, target, ctx, true)
}

// dispatch finds the transformer for (sourceType, target) and runs it over
// v, a value of sourceType.
func (s *Service) dispatch(sourceType reflect.Type, v reflect.Value, target reflect.Type, ctx *Context, strict bool) (any, error) {
	match, ok := s.registry.Lookup(sourceType, target)
	if !ok {
		return nil, s.fault(&Fault{
			Kind:    FaultNoTransformer,
			Message: "no transformer registered for the pair or any ancestor of its source",
			Source:  sourceType,
			Target:  target,
		})
	}

	out, err := s.invoke(match.Handle, match.Chain.Apply(v), ctx, strict)
	if err != nil {
		return nil, err
	}

	if !out.IsValid() {
		return nil, nil
	}

	return out.Interface(), nil
}

func (s *Service) invoke(h handle, v reflect.Value, ctx *Context, strict bool) (out reflect.Value, err error) {
	if s.wrapPanics.Load() {
		defer func() {
			if r := recover(); r != nil {
				out, err = reflect.Value{}, s.fault(&Fault{
					Kind:    FaultTransformer,
					Message: fmt.Sprintf("%s panicked", h.name),
					Source:  h.source,
					Target:  h.target,
					Cause:   panicError(r),
				})
			}
		}()
	}

	s.metrics.Dispatch(strict)
	s.logger.Trace().
		Str("source", token.Short(h.source)).
		Str("target", token.Short(h.target)).
		Str("transformer", h.name).
		Bool("strict", strict).
		Msg("dispatch")

	out, err = h.call(v, ctx)
	if err == nil {
		return out, nil
	}

	return reflect.Value{}, s.fault(&Fault{
		Kind:    FaultTransformer,
		Message: fmt.Sprintf("%s failed", h.name),
		Source:  h.source,
		Target:  h.target,
		Cause:   err,
	})
}

// fault records f once, where it is raised.
func (s *Service) fault(f *Fault) *Fault {
	s.metrics.Fault(f.Kind.String())

	event := s.logger.Debug()
	if s.flags.Has(options.FlagLogFaults) {
		event = s.logger.Warn()
	}

	event.
		Stringer("kind", f.Kind).
		Str("source", token.Short(f.Source)).
		Str("target", token.Short(f.Target)).
		Err(f.Cause).
		Msg(f.Message)

	return f
}
