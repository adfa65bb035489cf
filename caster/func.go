package caster

import (
	"fmt"
	"reflect"

	"graph-caster/node"
	"graph-caster/token"
)

var contextType = token.Of[*Context]()

// Func registers a plain function as a forward-only transformer. Accepted
// shapes, each optionally taking a *Context second parameter:
//
//	func(S) T
//	func(S) (T, error)
//	func(S) (T, bool)
//	func(S) (T, bool, error)
//
// A false bool means there is no target and yields the zero T.
// Functions of any other shape fail the registration.
func Func(fn any) Transformer {
	if fn == nil {
		return nil
	}

	desc, err := node.ParseCaster(fn, contextType)
	if err != nil {
		return &transformer{err: fmt.Errorf("transformer %T: %w", fn, err)}
	}

	fnVal := reflect.ValueOf(fn)
	name := desc.Name
	if desc.PackageAlias != "" {
		name = desc.PackageAlias + "." + name
	}

	call := func(v reflect.Value, ctx *Context) (reflect.Value, error) {
		args := []reflect.Value{v}
		if desc.HasScope {
			args = append(args, reflect.ValueOf(ctx))
		}

		out := fnVal.Call(args)

		// a typed nil of a concrete error type is still success
		if last := out[len(out)-1]; desc.HasErr && !token.IsNil(last) {
			if err, _ := last.Interface().(error); err != nil {
				return reflect.Value{}, err
			}
		}

		if desc.HasBool && !out[1].Bool() {
			return reflect.Zero(desc.Dst), nil
		}

		return out[0], nil
	}

	return &transformer{list: []handle{{
		source: desc.Src,
		target: desc.Dst,
		name:   name,
		call:   call,
	}}}
}
