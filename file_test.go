package dotzen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceFormats(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `
port: 8080
ratio: 1.5
debug: true
database:
  host: db.local
  password: cGFzc3dvcmQxMjM=
hosts:
  - localhost
  - example.com
nothing: null
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `
port = 8080
ratio = 1.5
debug = true
hosts = ["localhost", "example.com"]

[database]
host = "db.local"
password = "cGFzc3dvcmQxMjM="
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{
  "port": 8080,
  "ratio": 1.5,
  "debug": true,
  "hosts": ["localhost", "example.com"],
  "database": {"host": "db.local", "password": "cGFzc3dvcmQxMjM="},
  "nothing": null
}`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := writeFile(t, c.file, c.content)
			s, err := NewFileSource(path)
			require.NoError(t, err)

			want := map[string]string{
				"port":              "8080",
				"ratio":             "1.5",
				"debug":             "true",
				"database.host":     "db.local",
				"database.password": "cGFzc3dvcmQxMjM=",
				"hosts":             "localhost,example.com",
			}
			for k, v := range want {
				got, ok := s.Lookup(k)
				assert.True(t, ok, k)
				assert.Equal(t, v, got, k)
			}
			_, ok := s.Lookup("nothing")
			assert.False(t, ok)
			_, ok = s.Lookup("database")
			assert.False(t, ok)
		})
	}
}

func TestFileSourceThroughConfig(t *testing.T) {
	path := writeFile(t, "app.yaml", "server:\n  port: 9090\nhosts: [a, b]\nsecret: aGVsbG8=\n")
	chain, err := NewBuilder().AddFile(path).Build()
	require.NoError(t, err)
	cfg := NewConfig(chain)

	port, err := Int(cfg, "server.port")
	require.NoError(t, err)
	assert.Equal(t, 9090, port)

	hosts, err := List(cfg, "hosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, hosts)

	secret, err := String(NewSecureConfig(cfg, ""), "secret")
	require.NoError(t, err)
	assert.Equal(t, "hello", secret)
}

func TestFileSourceJSONKeepsLargeIntegers(t *testing.T) {
	path := writeFile(t, "ids.json", `{"account": {"id": 12345678901234567890, "limit": 9007199254740993}, "rate": 0.25}`)
	s, err := NewFileSource(path)
	require.NoError(t, err)

	v, _ := s.Lookup("account.id")
	assert.Equal(t, "12345678901234567890", v)
	v, _ = s.Lookup("account.limit")
	assert.Equal(t, "9007199254740993", v)
	v, _ = s.Lookup("rate")
	assert.Equal(t, "0.25", v)

	id, err := Get(NewConfig(NewChain(s)), "account.id", ToBigInt)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890", id.String())
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFileSource(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	_, ok := s.Lookup("x")
	assert.False(t, ok)

	_, err = NewFileSource(filepath.Join(dir, "missing.yaml"), FailIfMissing())
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = NewFileSource(writeFile(t, "config.ini", "a=b"))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = NewFileSource(writeFile(t, "broken.json", "{not json"))
	assert.Error(t, err)

	_, err = NewBuilder().AddFile(writeFile(t, "broken.toml", "= nope")).Build()
	assert.Error(t, err)
}
