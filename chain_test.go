package dotzen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainFirstMatchWins(t *testing.T) {
	a := NewMapSource(map[string]string{"K": "from-a"})
	b := NewMapSource(map[string]string{"K": "from-b", "ONLY_B": "b"})
	chain := NewChain(a, b)

	v, ok := chain.Lookup("K")
	require.True(t, ok)
	assert.Equal(t, "from-a", v)

	v, ok = chain.Lookup("ONLY_B")
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = chain.Lookup("NOWHERE")
	assert.False(t, ok)
}

func TestChainEmptyValueIsPresent(t *testing.T) {
	chain := NewChain(
		NewMapSource(map[string]string{"EMPTY": ""}),
		NewMapSource(map[string]string{"EMPTY": "fallback"}),
	)
	v, ok := chain.Lookup("EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestChainResolveReportsSource(t *testing.T) {
	t.Setenv("CHAIN_RESOLVE_KEY", "env")
	chain := NewChain(NullSource{}, NewEnvSource(), NewMapSource(map[string]string{"CHAIN_RESOLVE_KEY": "map"}))

	v, src, ok := chain.Resolve("CHAIN_RESOLVE_KEY")
	require.True(t, ok)
	assert.Equal(t, "env", v)
	assert.Equal(t, SourceEnv, src)
}

func TestEmptyChainIsNull(t *testing.T) {
	chain := NewChain()
	_, ok := chain.Lookup("ANY")
	assert.False(t, ok)
	require.Len(t, chain.Sources(), 1)
	assert.Equal(t, SourceNull, chain.Sources()[0].Name())

	chain = NewChain(NullSource{}, NullSource{})
	_, ok = chain.Lookup("ANY")
	assert.False(t, ok)
}

func TestChainIsImmutable(t *testing.T) {
	b := NewBuilder().AddMap(map[string]string{"K": "first"})
	chain, err := b.Build()
	require.NoError(t, err)

	b.AddMap(map[string]string{"OTHER": "later"})
	_, ok := chain.Lookup("OTHER")
	assert.False(t, ok)

	srcs := chain.Sources()
	srcs[0] = NullSource{}
	v, ok := chain.Lookup("K")
	assert.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestMapSourceCopiesInput(t *testing.T) {
	m := map[string]string{"K": "v"}
	s := NewMapSource(m)
	m["K"] = "changed"
	v, _ := s.Lookup("K")
	assert.Equal(t, "v", v)
}

func TestEnvSource(t *testing.T) {
	t.Setenv("DOTZEN_ENV_SET", "value")
	t.Setenv("DOTZEN_ENV_EMPTY", "")
	s := NewEnvSource()

	v, ok := s.Lookup("DOTZEN_ENV_SET")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	v, ok = s.Lookup("DOTZEN_ENV_EMPTY")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = s.Lookup("DOTZEN_ENV_NEVER_SET_123")
	assert.False(t, ok)

	// keys are case-sensitive
	_, ok = s.Lookup("dotzen_env_set")
	assert.False(t, ok)
}

func TestPrefixedEnvSource(t *testing.T) {
	t.Setenv("MYAPP_PORT", "9000")
	s := NewPrefixedEnvSource("MYAPP_")
	v, ok := s.Lookup("PORT")
	assert.True(t, ok)
	assert.Equal(t, "9000", v)
}

func TestBuilderOrder(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BUILDER_ORDER=dotenv\nBUILDER_DOTENV_ONLY=yes\n"), 0o644))
	t.Setenv("BUILDER_ORDER", "env")

	chain, err := NewBuilder().AddEnvironment().AddDotenv(envFile).Build()
	require.NoError(t, err)
	v, _ := chain.Lookup("BUILDER_ORDER")
	assert.Equal(t, "env", v)
	v, _ = chain.Lookup("BUILDER_DOTENV_ONLY")
	assert.Equal(t, "yes", v)

	chain, err = NewBuilder().AddDotenv(envFile).AddEnvironment().Build()
	require.NoError(t, err)
	v, _ = chain.Lookup("BUILDER_ORDER")
	assert.Equal(t, "dotenv", v)
}

func TestBuilderDefersErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	_, err := NewBuilder().
		AddEnvironment().
		AddDotenv(missing, FailIfMissing()).
		AddMap(map[string]string{"K": "v"}).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	chain, err := NewBuilder().AddDotenv(missing).Build()
	require.NoError(t, err)
	_, ok := chain.Lookup("K")
	assert.False(t, ok)
}

func TestBuilderIgnoresNilSource(t *testing.T) {
	chain, err := NewBuilder().AddSource(nil).Build()
	require.NoError(t, err)
	assert.Len(t, chain.Sources(), 1)
}

func TestNewChainDropsNilSources(t *testing.T) {
	chain := NewChain(nil)
	_, ok := chain.Lookup("ANY")
	assert.False(t, ok)
	require.Len(t, chain.Sources(), 1)
	assert.Equal(t, SourceNull, chain.Sources()[0].Name())

	chain = NewChain(nil, NewMapSource(map[string]string{"K": "v"}), nil)
	v, src, ok := chain.Resolve("K")
	require.True(t, ok)
	assert.Equal(t, "v", v)
	assert.Equal(t, SourceMap, src)
	assert.Len(t, chain.Sources(), 1)
}
