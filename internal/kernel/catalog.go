package kernel

import (
	"fmt"
)

// Catalog is an ordered, immutable collection of descriptors. Iteration order
// is declaration order and determines output numbering.
type Catalog struct {
	entries []*Descriptor
	byName  map[string]*Descriptor
}

// NewCatalog validates the wiring between entries and builds the catalog.
// Every blur reference must resolve to an entry that has neither a blur
// reference of its own nor a secondary matrix.
func NewCatalog(entries ...*Descriptor) (*Catalog, error) {
	byName := make(map[string]*Descriptor, len(entries))
	for i, d := range entries {
		if d == nil {
			return nil, fmt.Errorf("%w: entry %d is nil", ErrMalformedKernel, i)
		}
		if _, exists := byName[d.name]; exists {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrMalformedKernel, d.name)
		}
		byName[d.name] = d
	}

	for _, d := range entries {
		if d.blur == "" {
			continue
		}
		blur, ok := byName[d.blur]
		if !ok {
			return nil, fmt.Errorf("%w: %q referenced as blur filter by %q", ErrUnknownKernel, d.blur, d.name)
		}
		if blur.blur != "" {
			return nil, fmt.Errorf("%w: %q uses blur filter %q which chains to %q",
				ErrMalformedKernel, d.name, blur.name, blur.blur)
		}
		if blur.secondary != nil {
			return nil, fmt.Errorf("%w: %q uses gradient kernel %q as blur filter",
				ErrMalformedKernel, d.name, blur.name)
		}
	}

	ordered := make([]*Descriptor, len(entries))
	copy(ordered, entries)

	return &Catalog{entries: ordered, byName: byName}, nil
}

// MustNewCatalog is NewCatalog for statically known data.
func MustNewCatalog(entries ...*Descriptor) *Catalog {
	c, err := NewCatalog(entries...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the entry with the given name. A miss is always an error.
func (c *Catalog) Lookup(name string) (*Descriptor, error) {
	if d, ok := c.byName[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
}

// Entries returns the descriptors in declaration order.
func (c *Catalog) Entries() []*Descriptor {
	out := make([]*Descriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns the entry names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, d := range c.entries {
		names[i] = d.name
	}
	return names
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Select returns a catalog that iterates only the named entries, still in
// declaration order. Lookups, and therefore blur references, keep resolving
// against every entry of c.
func (c *Catalog) Select(names ...string) (*Catalog, error) {
	if len(names) == 0 {
		return c, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := c.byName[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
		}
		wanted[name] = true
	}

	entries := make([]*Descriptor, 0, len(wanted))
	for _, d := range c.entries {
		if wanted[d.name] {
			entries = append(entries, d)
		}
	}

	return &Catalog{entries: entries, byName: c.byName}, nil
}
