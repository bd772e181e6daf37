package dotzen

import (
	"fmt"
	"log/slog"
	"sync"
)

// Resolver returns the raw, possibly decrypted, value for a key.
// Both *Config and *SecureConfig implement it.
type Resolver interface {
	Konfig(key string, opts ...Option) (string, error)
}

type lookupOptions struct {
	def       *string
	encrypted bool
	algorithm string
}

// Option adjusts a single lookup.
type Option func(*lookupOptions)

// Default is returned, uncast and never decrypted, when no source has the key.
// Default("") is a real default and differs from giving no default at all.
func Default(value string) Option {
	return func(o *lookupOptions) { o.def = &value }
}

// Encrypted controls whether a value found in a source is decrypted before use.
func Encrypted(on bool) Option {
	return func(o *lookupOptions) { o.encrypted = on }
}

// Algorithm selects the transform used to decrypt the value. An empty name
// keeps the Config's algorithm.
func Algorithm(name string) Option {
	return func(o *lookupOptions) {
		if name != "" {
			o.algorithm = name
		}
	}
}

// Config is the lookup facade over a Chain.
type Config struct {
	chain     *Chain
	registry  *Registry
	encrypted bool
	algorithm string
	logger    *slog.Logger
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithRegistry uses r instead of DefaultRegistry for decryption.
func WithRegistry(r *Registry) ConfigOption {
	return func(c *Config) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithLogger sets the logger used for debug output. Values are never logged.
func WithLogger(l *slog.Logger) ConfigOption {
	return func(c *Config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEncryption makes every lookup decrypt by default with algorithm.
func WithEncryption(algorithm string) ConfigOption {
	return func(c *Config) {
		c.encrypted = true
		if algorithm != "" {
			c.algorithm = algorithm
		}
	}
}

// NewConfig returns a facade over chain. A nil chain behaves as an empty one.
// Lookups are not decrypted unless WithEncryption or Encrypted(true) is used.
func NewConfig(chain *Chain, opts ...ConfigOption) *Config {
	if chain == nil {
		chain = NewChain()
	}
	c := &Config{
		chain:     chain,
		registry:  defaultRegistry,
		algorithm: DefaultAlgorithm,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chain returns the chain the facade resolves through.
func (c *Config) Chain() *Chain { return c.chain }

// Registry returns the transform registry used for decryption.
func (c *Config) Registry() *Registry { return c.registry }

// Konfig resolves key. When the key is absent the Default option is returned
// if present, otherwise a *MissingKeyError. Values found in a source are
// decrypted when encryption is on; defaults are returned as given.
func (c *Config) Konfig(key string, opts ...Option) (string, error) {
	o := lookupOptions{encrypted: c.encrypted, algorithm: c.algorithm}
	for _, opt := range opts {
		opt(&o)
	}

	raw, source, ok := c.chain.Resolve(key)
	if !ok {
		if o.def != nil {
			c.logger.Debug("config key not found, using default", "key", key)
			return *o.def, nil
		}
		c.logger.Debug("config key not found", "key", key)
		return "", &MissingKeyError{Key: key}
	}
	c.logger.Debug("config key resolved", "key", key, "source", source, "encrypted", o.encrypted)

	if !o.encrypted {
		return raw, nil
	}
	v, err := c.registry.Decrypt(raw, o.algorithm)
	if err != nil {
		return "", fmt.Errorf("decrypt %q: %w", key, err)
	}
	return v, nil
}

// Lookup reports the raw value for key without defaults or decryption.
func (c *Config) Lookup(key string) (string, bool) {
	return c.chain.Lookup(key)
}

// SecureConfig wraps a Config so that every lookup is decrypted unless the
// caller passes Encrypted(false).
//
//	secure := dotzen.NewSecureConfig(cfg, "base64")
//	dbPassword, err := dotzen.String(secure, "DATABASE_PASSWORD")
//	debug, err := dotzen.Bool(secure, "DEBUG", dotzen.Encrypted(false))
type SecureConfig struct {
	cfg       *Config
	algorithm string
}

// NewSecureConfig wraps cfg. An empty algorithm means base64.
func NewSecureConfig(cfg *Config, algorithm string) *SecureConfig {
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	return &SecureConfig{cfg: cfg, algorithm: algorithm}
}

// Konfig resolves and decrypts key, see Config.Konfig.
func (s *SecureConfig) Konfig(key string, opts ...Option) (string, error) {
	all := make([]Option, 0, len(opts)+2)
	all = append(all, Encrypted(true), Algorithm(s.algorithm))
	all = append(all, opts...)
	return s.cfg.Konfig(key, all...)
}

// Algorithm returns the default algorithm used for decryption.
func (s *SecureConfig) Algorithm() string { return s.algorithm }

// Config returns the wrapped facade.
func (s *SecureConfig) Config() *Config { return s.cfg }

// Options enumerates everything New understands. Sources are consulted in the
// order environment, Dotenv files, then Files.
type Options struct {
	// Environment includes the process environment.
	Environment bool
	// EnvPrefix is prepended to keys looked up in the environment.
	EnvPrefix string
	// Dotenv lists .env files in precedence order.
	Dotenv []string
	// DotenvRequired fails New when a Dotenv or Files entry does not exist.
	DotenvRequired bool
	// Files lists YAML, TOML or JSON files in precedence order.
	Files []string
	// Encrypted turns on decryption for every lookup.
	Encrypted bool
	// DefaultAlgorithm is the transform used for decryption; base64 if empty.
	DefaultAlgorithm string
	Registry         *Registry
	Logger           *slog.Logger
}

// New builds a Config from opts.
func New(opts Options) (*Config, error) {
	var srcOpts []SourceOption
	if opts.DotenvRequired {
		srcOpts = append(srcOpts, FailIfMissing())
	}

	b := NewBuilder()
	if opts.Environment {
		b.AddPrefixedEnvironment(opts.EnvPrefix)
	}
	for _, p := range opts.Dotenv {
		b.AddDotenv(p, srcOpts...)
	}
	for _, p := range opts.Files {
		b.AddFile(p, srcOpts...)
	}
	chain, err := b.Build()
	if err != nil {
		return nil, err
	}

	cfgOpts := []ConfigOption{WithRegistry(opts.Registry), WithLogger(opts.Logger)}
	if opts.Encrypted {
		cfgOpts = append(cfgOpts, WithEncryption(opts.DefaultAlgorithm))
	} else if opts.DefaultAlgorithm != "" {
		cfgOpts = append(cfgOpts, func(c *Config) { c.algorithm = opts.DefaultAlgorithm })
	}
	return NewConfig(chain, cfgOpts...), nil
}

// AutoConfig reads the process environment, then ./.env if it exists.
func AutoConfig() (*Config, error) {
	return New(Options{Environment: true, Dotenv: []string{DefaultDotenvPath}})
}

var (
	autoOnce sync.Once
	auto     *Config
	autoErr  error
)

// Auto returns the process-wide Config built by AutoConfig on first use.
func Auto() (*Config, error) {
	autoOnce.Do(func() {
		auto, autoErr = AutoConfig()
	})
	return auto, autoErr
}

// Value resolves key through Auto without decryption.
func Value(key string, opts ...Option) (string, error) {
	c, err := Auto()
	if err != nil {
		return "", err
	}
	return c.Konfig(key, opts...)
}

// Konfig resolves key through Auto and decrypts it with base64 unless
// Encrypted(false) or another Algorithm is given.
func Konfig(key string, opts ...Option) (string, error) {
	c, err := Auto()
	if err != nil {
		return "", err
	}
	return NewSecureConfig(c, DefaultAlgorithm).Konfig(key, opts...)
}
