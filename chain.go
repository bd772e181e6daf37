package dotzen

import "slices"

// Chain resolves keys across an ordered list of sources. The first source that
// has the key wins; values from different sources are never merged.
// A Chain cannot be changed once built.
type Chain struct {
	sources []Source
}

// NewChain returns a chain over sources in the given order. Nil sources are
// dropped. With no sources the chain holds a single NullSource and every
// lookup is absent.
func NewChain(sources ...Source) *Chain {
	kept := slices.DeleteFunc(slices.Clone(sources), func(s Source) bool { return s == nil })
	if len(kept) == 0 {
		return &Chain{sources: []Source{NullSource{}}}
	}
	return &Chain{sources: kept}
}

// Lookup returns the first value bound to key.
func (c *Chain) Lookup(key string) (string, bool) {
	v, _, ok := c.Resolve(key)
	return v, ok
}

// Resolve is Lookup that also reports the name of the source the value came from.
func (c *Chain) Resolve(key string) (value, source string, ok bool) {
	for _, s := range c.sources {
		if v, found := s.Lookup(key); found {
			return v, s.Name(), true
		}
	}
	return "", "", false
}

// Sources returns a copy of the chain's sources in resolution order.
func (c *Chain) Sources() []Source {
	return slices.Clone(c.sources)
}

// Builder accumulates sources for a Chain:
//
//	chain, err := dotzen.NewBuilder().
//	    AddEnvironment().
//	    AddDotenv(".env").
//	    Build()
//
// Errors from file-backed sources are held until Build.
type Builder struct {
	sources []Source
	err     error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddEnvironment appends the process environment.
func (b *Builder) AddEnvironment() *Builder {
	return b.AddSource(NewEnvSource())
}

// AddPrefixedEnvironment appends the process environment with every key prefixed.
func (b *Builder) AddPrefixedEnvironment(prefix string) *Builder {
	return b.AddSource(NewPrefixedEnvSource(prefix))
}

// AddDotenv appends a .env file. An empty path means ".env".
func (b *Builder) AddDotenv(path string, opts ...SourceOption) *Builder {
	if b.err != nil {
		return b
	}
	s, err := NewDotenvSource(path, opts...)
	if err != nil {
		b.err = err
		return b
	}
	return b.AddSource(s)
}

// AddFile appends a YAML, TOML or JSON file.
func (b *Builder) AddFile(path string, opts ...SourceOption) *Builder {
	if b.err != nil {
		return b
	}
	s, err := NewFileSource(path, opts...)
	if err != nil {
		b.err = err
		return b
	}
	return b.AddSource(s)
}

// AddMap appends a copy of values.
func (b *Builder) AddMap(values map[string]string) *Builder {
	return b.AddSource(NewMapSource(values))
}

// AddSource appends any Source. Nil sources are ignored.
func (b *Builder) AddSource(s Source) *Builder {
	if s != nil {
		b.sources = append(b.sources, s)
	}
	return b
}

// Build returns the chain, or the first error recorded while adding sources.
func (b *Builder) Build() (*Chain, error) {
	if b.err != nil {
		return nil, b.err
	}
	return NewChain(b.sources...), nil
}
