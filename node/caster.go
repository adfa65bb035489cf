// Package node reads plain Go functions as transformers: it inspects the
// function signature and reports the source and target types it maps
// between, together with the optional pieces of its calling convention.
package node

import (
	"errors"
	"path"
	"reflect"
	"runtime"
	"strings"

	"graph-caster/utils"
)

var (
	ErrIsNotACaster         = errors.New("provided function is not a recognizable caster")
	ErrCasterIsNotAFunction = errors.New("provided caster is not a function")
	ErrDoublePointer        = errors.New("caster function does not support double pointers")
)

type Caster struct {
	Src, Dst     reflect.Type
	PackageAlias string
	Name         string
	HasScope     bool
	HasBool      bool
	HasErr       bool
}

// Pair renders the caster as "Src -> Dst".
func (c Caster) Pair() string {
	return c.Src.String() + " -> " + c.Dst.String()
}

// ParseCaster inspects the provided function and returns a Caster struct if it is a valid caster function.
//
// Supports interfaces:
//   - func(src Type) (dst Type)
//   - func(src Type) (dst Type, bool)
//   - func(src Type) (dst Type, error)
//   - func(src Type) (dst Type, bool, error)
//
// Every form may take scope as a second parameter; a nil scope disables it.
func ParseCaster(fn any, scope reflect.Type) (Caster, error) {
	if fn == nil {
		return Caster{}, ErrCasterIsNotAFunction
	}

	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Caster{}, ErrCasterIsNotAFunction
	}

	if fnType.IsVariadic() || fnType.NumOut() == 0 {
		return Caster{}, ErrIsNotACaster
	}

	var hasScope bool
	switch fnType.NumIn() {
	default:
		return Caster{}, ErrIsNotACaster
	case 1:
	case 2:
		if scope == nil || fnType.In(1) != scope {
			return Caster{}, ErrIsNotACaster
		}
		hasScope = true
	}

	src := fnType.In(0)
	if src.Kind() == reflect.Ptr && src.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	dst := fnType.Out(0)
	if dst.Kind() == reflect.Ptr && dst.Elem().Kind() == reflect.Ptr {
		return Caster{}, ErrDoublePointer
	}

	// Get the pointer to the function
	// Get the function object from the pointer
	caster := Caster{
		Src:      src,
		Dst:      dst,
		HasScope: hasScope,
	}

	if fnPC := runtime.FuncForPC(fnVal.Pointer()); fnPC != nil {
		alias, name := utils.Unpack2(strings.SplitN(fnPC.Name(), ".", 2))
		caster.Name = name
		caster.PackageAlias = utils.Second(path.Split(alias))
	}

	switch fnType.NumOut() {
	default:
		return Caster{}, ErrIsNotACaster

	case 1:
		return caster, nil

	case 2:
		last := fnType.Out(1)

		switch {
		default:
			return Caster{}, ErrIsNotACaster
		case last.Kind() == reflect.Bool:
			caster.HasBool = true
		case isError(last):
			caster.HasErr = true
		}
		return caster, nil

	case 3:
		tbool, terr := fnType.Out(1), fnType.Out(2)
		if tbool.Kind() != reflect.Bool || !isError(terr) {
			return Caster{}, ErrIsNotACaster
		}

		caster.HasBool = true
		caster.HasErr = true
		return caster, nil
	}
}

var errorType = reflect.TypeFor[error]()

func isError(t reflect.Type) bool {
	return t.Implements(errorType)
}
