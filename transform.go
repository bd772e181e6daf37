package dotzen

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Built-in algorithm names.
const (
	AlgorithmBase64 = "base64"
	AlgorithmMD5    = "md5"
	AlgorithmSHA256 = "sha256"
	AlgorithmBcrypt = "bcrypt"

	DefaultAlgorithm = AlgorithmBase64
)

// Transform turns a plain value into its stored form.
// None of the built-in transforms provide confidentiality: base64 is an
// encoding and the rest are digests.
type Transform interface {
	Encrypt(value string) (string, error)
}

// Reversible is a Transform whose stored form can be turned back into the
// original value. Transforms that do not implement it are one-way.
type Reversible interface {
	Transform
	Decrypt(value string) (string, error)
}

// TransformFunc adapts a function to a one-way Transform.
type TransformFunc func(value string) (string, error)

func (f TransformFunc) Encrypt(value string) (string, error) { return f(value) }

// ReversibleFuncs builds a Reversible from a pair of functions.
type ReversibleFuncs struct {
	EncryptFunc func(value string) (string, error)
	DecryptFunc func(value string) (string, error)
}

func (f ReversibleFuncs) Encrypt(value string) (string, error) { return f.EncryptFunc(value) }

func (f ReversibleFuncs) Decrypt(value string) (string, error) { return f.DecryptFunc(value) }

// Base64 is standard, padded base64 over the UTF-8 bytes of the value.
type Base64 struct{}

func (Base64) Encrypt(value string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(value)), nil
}

func (Base64) Decrypt(value string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("%w: base64: %w", ErrDecode, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: base64: decoded bytes are not valid UTF-8", ErrDecode)
	}
	return string(b), nil
}

// MD5 is the lower-case hex MD5 digest of the value.
type MD5 struct{}

func (MD5) Encrypt(value string) (string, error) {
	sum := md5.Sum([]byte(value))
	return hex.EncodeToString(sum[:]), nil
}

// SHA256 is the lower-case hex SHA-256 digest of the value.
type SHA256 struct{}

func (SHA256) Encrypt(value string) (string, error) {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:]), nil
}

// Bcrypt hashes the value with bcrypt. Output is salted, so unlike the other
// digests two calls with the same input differ.
type Bcrypt struct {
	// Cost defaults to bcrypt.DefaultCost when zero.
	Cost int
}

func (b Bcrypt) Encrypt(value string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(value), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Registry maps algorithm names to transforms. Names are case-insensitive.
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]Transform
}

// NewRegistry returns a registry with the built-in transforms registered.
func NewRegistry() *Registry {
	r := &Registry{transforms: make(map[string]Transform)}
	r.Register(AlgorithmBase64, Base64{})
	r.Register(AlgorithmMD5, MD5{})
	r.Register(AlgorithmSHA256, SHA256{})
	r.Register(AlgorithmBcrypt, Bcrypt{})
	return r
}

func normalizeAlgorithm(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register binds name to t, replacing any previous binding.
func (r *Registry) Register(name string, t Transform) {
	if t == nil {
		panic("dotzen: Register transform is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[normalizeAlgorithm(name)] = t
}

// Lookup returns the transform registered under name.
func (r *Registry) Lookup(name string) (Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transforms[normalizeAlgorithm(name)]
	return t, ok
}

func (r *Registry) get(name string) (Transform, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return t, nil
}

// Encrypt runs value through the named transform.
func (r *Registry) Encrypt(value, algorithm string) (string, error) {
	t, err := r.get(algorithm)
	if err != nil {
		return "", err
	}
	return t.Encrypt(value)
}

// Decrypt reverses the named transform. One-way transforms fail with ErrUnsupportedOperation.
func (r *Registry) Decrypt(value, algorithm string) (string, error) {
	t, err := r.get(algorithm)
	if err != nil {
		return "", err
	}
	rt, ok := t.(Reversible)
	if !ok {
		return "", fmt.Errorf("%w: %q is one-way and cannot decrypt", ErrUnsupportedOperation, algorithm)
	}
	return rt.Decrypt(value)
}

// IsReversible reports whether name is registered and can decrypt.
func (r *Registry) IsReversible(name string) bool {
	t, ok := r.Lookup(name)
	if !ok {
		return false
	}
	_, ok = t.(Reversible)
	return ok
}

// Algorithms returns the registered names in sorted order.
func (r *Registry) Algorithms() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used when no registry is
// passed explicitly.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Encrypt runs value through the named transform of the default registry.
func Encrypt(value, algorithm string) (string, error) {
	return defaultRegistry.Encrypt(value, algorithm)
}

// Decrypt reverses the named transform of the default registry.
func Decrypt(value, algorithm string) (string, error) {
	return defaultRegistry.Decrypt(value, algorithm)
}

// RegisterStrategy adds a transform to the default registry.
// Call it from init or main before any lookups that use the name.
func RegisterStrategy(name string, t Transform) {
	defaultRegistry.Register(name, t)
}

// EncryptForEnv produces the value to store in a .env file for a secret.
// The algorithm defaults to base64.
func EncryptForEnv(value string, algorithm ...string) (string, error) {
	alg := DefaultAlgorithm
	if len(algorithm) > 0 && algorithm[0] != "" {
		alg = algorithm[0]
	}
	return defaultRegistry.Encrypt(value, alg)
}
