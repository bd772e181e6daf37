package dotzen

import (
	"maps"
	"os"
)

// Source names used in debug logs.
const (
	SourceEnv    = "env"
	SourceDotenv = "dotenv"
	SourceFile   = "file"
	SourceMap    = "map"
	SourceNull   = "null"
)

// Source provides raw string values by key from a single backing store.
//
// Lookup must not have side effects. The boolean result distinguishes an
// absent key from a key bound to the empty string.
type Source interface {
	Name() string
	Lookup(key string) (string, bool)
}

// EnvSource reads the live process environment.
type EnvSource struct {
	prefix string
}

// NewEnvSource returns a source backed by the process environment.
func NewEnvSource() *EnvSource {
	return &EnvSource{}
}

// NewPrefixedEnvSource returns an environment source that prepends prefix to
// every key before looking it up, e.g. "APP_" turns PORT into APP_PORT.
func NewPrefixedEnvSource(prefix string) *EnvSource {
	return &EnvSource{prefix: prefix}
}

func (s *EnvSource) Name() string { return SourceEnv }

func (s *EnvSource) Lookup(key string) (string, bool) {
	return os.LookupEnv(s.prefix + key)
}

// MapSource serves values from an in-memory map.
type MapSource struct {
	values map[string]string
}

// NewMapSource copies values into a new source; later changes to the map are not seen.
func NewMapSource(values map[string]string) *MapSource {
	return &MapSource{values: maps.Clone(values)}
}

func (s *MapSource) Name() string { return SourceMap }

func (s *MapSource) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// NullSource never has a value.
type NullSource struct{}

func (NullSource) Name() string { return SourceNull }

func (NullSource) Lookup(string) (string, bool) { return "", false }

// sourceOptions holds construction policy shared by file-backed sources.
type sourceOptions struct {
	failIfMissing bool
}

// SourceOption configures a file-backed source.
type SourceOption func(*sourceOptions)

// FailIfMissing makes construction of a file-backed source fail when the file
// does not exist. By default a missing file yields an empty source.
func FailIfMissing() SourceOption {
	return func(o *sourceOptions) { o.failIfMissing = true }
}

func applySourceOptions(opts []SourceOption) sourceOptions {
	var o sourceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
