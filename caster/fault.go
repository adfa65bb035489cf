package caster

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"graph-caster/internal/common"
	"graph-caster/internal/registry"
	"graph-caster/token"
)

var (
	ErrUsage         = errors.New("usage fault")
	ErrRegistration  = errors.New("registration fault")
	ErrNoTransformer = errors.New("no transformer")
	ErrTransformer   = errors.New("transformer fault")
	ErrEnumMapping   = errors.New("enum mapping fault")

	ErrAmbiguous      = registry.ErrAmbiguous
	ErrUnresolvedType = registry.ErrUnresolvedType
)

type FaultKind int

const (
	_ FaultKind = iota

	FaultUsage         // caller broke a precondition
	FaultRegistration  // transformers could not be registered
	FaultNoTransformer // no transformer serves the pair
	FaultTransformer   // the transformer itself failed
	FaultEnumMapping   // enum types are not compatible
)

func (k FaultKind) String() string {
	switch k {
	case FaultUsage:
		return "usage"
	case FaultRegistration:
		return "registration"
	case FaultNoTransformer:
		return "no transformer"
	case FaultTransformer:
		return "transformer"
	case FaultEnumMapping:
		return "enum mapping"
	default:
		return common.UnknownStr
	}
}

func (k FaultKind) sentinel() error {
	switch k {
	case FaultUsage:
		return ErrUsage
	case FaultRegistration:
		return ErrRegistration
	case FaultNoTransformer:
		return ErrNoTransformer
	case FaultTransformer:
		return ErrTransformer
	case FaultEnumMapping:
		return ErrEnumMapping
	default:
		return nil
	}
}

// Fault is the only error type the package returns. Match it by kind with
// errors.Is(err, ErrUsage) and friends; Cause holds the underlying error.
type Fault struct {
	Kind           FaultKind
	Message        string
	Source, Target reflect.Type
	Cause          error
}

func (f *Fault) Error() string {
	var b strings.Builder

	b.WriteString(f.Kind.String())
	b.WriteString(": ")
	b.WriteString(f.Message)

	if f.Source != nil || f.Target != nil {
		fmt.Fprintf(&b, " [%s -> %s]", token.Short(f.Source), token.Short(f.Target))
	}

	if f.Cause != nil {
		b.WriteString(": ")
		b.WriteString(f.Cause.Error())
	}

	return b.String()
}

func (f *Fault) Unwrap() error {
	return f.Cause
}

func (f *Fault) Is(target error) bool {
	return target != nil && target == f.Kind.sentinel()
}

var dump = spew.ConfigState{
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func usagef(format string, args ...any) *Fault {
	return &Fault{Kind: FaultUsage, Message: fmt.Sprintf(format, args...)}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}

	return fmt.Errorf("panic: %v", r)
}
