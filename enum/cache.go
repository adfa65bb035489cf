package enum

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"

	"graph-caster/token"
)

type cacheKey struct {
	mode     Mode
	src, dst reflect.Type
}

// Cache holds the declared enum descriptors and lazily synthesizes the
// mappings between them. Descriptors are fixed at construction; mappings
// are filled on first use and safe to request concurrently, each pair
// being synthesized exactly once.
type Cache struct {
	descriptors map[reflect.Type]*Descriptor
	mappings    sync.Map // cacheKey -> *Mapping
	group       singleflight.Group
	onFill      func(*Mapping)
}

// NewCache creates a cache over descriptors. onFill, when not nil, is
// called once for every synthesized mapping.
func NewCache(descriptors []*Descriptor, onFill func(*Mapping)) (*Cache, error) {
	c := &Cache{
		descriptors: make(map[reflect.Type]*Descriptor, len(descriptors)),
		onFill:      onFill,
	}

	for _, d := range descriptors {
		if d == nil {
			continue
		}

		if _, exists := c.descriptors[d.typ]; exists {
			return nil, fmt.Errorf("%w: %s", ErrRedeclared, token.Short(d.typ))
		}

		c.descriptors[d.typ] = d
	}

	return c, nil
}

// Descriptor returns the declared descriptor of t.
func (c *Cache) Descriptor(t reflect.Type) (*Descriptor, bool) {
	d, ok := c.descriptors[t]
	return d, ok
}

// Mapping returns the mapping from src to dst, synthesizing it on first use.
// Failed syntheses are not cached.
func (c *Cache) Mapping(mode Mode, src, dst reflect.Type) (*Mapping, error) {
	key := cacheKey{mode: mode, src: src, dst: dst}
	if m, ok := c.mappings.Load(key); ok {
		return m.(*Mapping), nil
	}

	// reflect.Type values are unique per type, so their addresses tell
	// apart distinct types sharing a name
	flight := fmt.Sprintf("%s|%p|%p", mode, src, dst)

	m, err, _ := c.group.Do(flight, func() (any, error) {
		if m, ok := c.mappings.Load(key); ok {
			return m, nil
		}

		from, ok := c.descriptors[src]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndeclared, token.Short(src))
		}

		to, ok := c.descriptors[dst]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndeclared, token.Short(dst))
		}

		m, err := Synthesize(mode, from, to)
		if err != nil {
			return nil, err
		}

		c.mappings.Store(key, m)
		if c.onFill != nil {
			c.onFill(m)
		}

		return m, nil
	})
	if err != nil {
		return nil, err
	}

	return m.(*Mapping), nil
}

// Len returns the number of synthesized mappings.
func (c *Cache) Len() int {
	var n int
	c.mappings.Range(func(any, any) bool {
		n++
		return true
	})

	return n
}
