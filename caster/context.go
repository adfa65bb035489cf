package caster

import (
	"maps"
	"reflect"

	"graph-caster/token"
)

// Seed is a context value stored under an explicit string key.
type Seed struct {
	key   string
	value any
}

// Keyed returns a seed storing value under key.
func Keyed(key string, value any) Seed {
	return Seed{key: key, value: value}
}

// Context carries the ambient values of one call tree and dispatches back
// into the service that created it. Values are keyed either by type or by
// an explicit string key.
//
// Every dispatch hands the transformer a context derived from the
// caller's: it starts with a copy of the caller's values, and whatever the
// transformer adds stays invisible to the caller. A Context is confined to
// one call tree and is not safe for concurrent use.
type Context struct {
	service *Service
	values  map[any]any
}

// NewContext creates a detached context holding seeds. A seed made by Keyed
// is stored under its key; any other seed is stored under its own type.
// Nil seeds are skipped. Pass the context to a Service call to use it.
func NewContext(seeds ...any) *Context {
	c := &Context{values: make(map[any]any, len(seeds))}

	for _, seed := range seeds {
		switch seed := seed.(type) {
		case nil:
		case Seed:
			if seed.value != nil {
				c.values[seed.key] = seed.value
			}
		default:
			c.values[reflect.TypeOf(seed)] = seed
		}
	}

	return c
}

// derive returns a child of c bound to s.
func (c *Context) derive(s *Service) *Context {
	d := &Context{service: s, values: make(map[any]any)}
	if c != nil {
		maps.Copy(d.values, c.values)
	}

	return d
}

// Service returns the service the context dispatches into, or nil for a
// detached context.
func (c *Context) Service() *Service {
	if c == nil {
		return nil
	}

	return c.service
}

// IsService reports false: a context only delegates to its service.
func (c *Context) IsService() bool { return false }

func (c *Context) scope() (*Service, *Context) {
	return c.Service(), c
}

func (c *Context) has(key any) bool {
	if c == nil {
		return false
	}

	_, ok := c.values[key]
	return ok
}

func (c *Context) lookup(key any) (any, bool) {
	if c == nil {
		return nil, false
	}

	v, ok := c.values[key]
	return v, ok
}

func (c *Context) put(key, value any) error {
	if c == nil {
		return usagef("context is nil")
	}

	if value == nil {
		return usagef("context value for %v is nil", key)
	}

	if c.values == nil {
		c.values = make(map[any]any)
	}

	c.values[key] = value
	return nil
}

// Has reports whether a value is stored under t.
func (c *Context) Has(t reflect.Type) bool { return c.has(t) }

// HasKey reports whether a value is stored under key.
func (c *Context) HasKey(key string) bool { return c.has(key) }

// Lookup returns the value stored under t.
func (c *Context) Lookup(t reflect.Type) (any, bool) { return c.lookup(t) }

// LookupKey returns the value stored under key.
func (c *Context) LookupKey(key string) (any, bool) { return c.lookup(key) }

// Set stores value under its own type, replacing any previous one.
func (c *Context) Set(value any) error {
	if value == nil {
		return usagef("context value is nil")
	}

	return c.put(reflect.TypeOf(value), value)
}

// SetKey stores value under key, replacing any previous one.
func (c *Context) SetKey(key string, value any) error {
	return c.put(key, value)
}

// Remove deletes the value stored under t.
func (c *Context) Remove(t reflect.Type) {
	if c != nil {
		delete(c.values, t)
	}
}

// RemoveKey deletes the value stored under key.
func (c *Context) RemoveKey(key string) {
	if c != nil {
		delete(c.values, key)
	}
}

// Clear deletes every value.
func (c *Context) Clear() {
	if c != nil {
		clear(c.values)
	}
}

// Len returns the number of stored values.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}

	return len(c.values)
}

// Process dispatches source to target within this context.
func (c *Context) Process(source any, target reflect.Type) (any, error) {
	s, err := c.attached()
	if err != nil {
		return nil, err
	}

	return s.Process(source, target, c)
}

// ProcessStrictly dispatches source, declared as sourceType, to target
// within this context.
func (c *Context) ProcessStrictly(sourceType reflect.Type, source any, target reflect.Type) (any, error) {
	s, err := c.attached()
	if err != nil {
		return nil, err
	}

	return s.ProcessStrictly(sourceType, source, target, c)
}

// ProcessNull dispatches a null of sourceType to target within this context.
func (c *Context) ProcessNull(sourceType, target reflect.Type) (any, error) {
	return c.ProcessStrictly(sourceType, nil, target)
}

func (c *Context) attached() (*Service, error) {
	if c.Service() == nil {
		return nil, usagef("context is not attached to a service")
	}

	return c.service, nil
}

// Value returns the value stored under the type T.
func Value[T any](c *Context) (T, bool) {
	v, ok := c.lookup(token.Of[T]())
	t, isT := v.(T)
	return t, ok && isT
}

// ValueOr returns the value stored under the type T, or def.
func ValueOr[T any](c *Context, def T) T {
	if t, ok := Value[T](c); ok {
		return t
	}

	return def
}

// KeyedValue returns the value of type T stored under key.
func KeyedValue[T any](c *Context, key string) (T, bool) {
	v, ok := c.lookup(key)
	t, isT := v.(T)
	return t, ok && isT
}
