package dotzen

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultDotenvPath is used when an empty path is passed to NewDotenvSource.
const DefaultDotenvPath = ".env"

// DotenvSource serves values parsed from a .env file.
// The file is read once, when the source is created; rebuilding the source is
// the only way to pick up changes.
//
// Parsing is delegated to godotenv: KEY=VALUE lines, '#' comments and blank
// lines are handled, and godotenv's quoting and `export` prefix are accepted.
// Unlike godotenv.Load, the process environment is never modified.
//
// Unquoted values are not read literally: godotenv expands $VAR references
// and drops an inline " #" comment, so a bcrypt hash written as
// HASH=$2a$10$... comes back mangled. Single-quoted values are returned
// exactly as written. FormatDotenv produces lines that survive the round trip.
type DotenvSource struct {
	path   string
	values map[string]string
}

// NewDotenvSource reads path. A missing file yields an empty source unless
// FailIfMissing is given; any other read or parse error is returned.
func NewDotenvSource(path string, opts ...SourceOption) (*DotenvSource, error) {
	if path == "" {
		path = DefaultDotenvPath
	}
	o := applySourceOptions(opts)

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !o.failIfMissing {
			return &DotenvSource{path: path, values: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("dotenv %s: %w", path, err)
	}
	return &DotenvSource{path: path, values: values}, nil
}

func (s *DotenvSource) Name() string { return SourceDotenv + ":" + s.path }

func (s *DotenvSource) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Path returns the file the source was read from.
func (s *DotenvSource) Path() string { return s.path }

// dotenvSpecial lists characters that change the meaning of an unquoted value.
const dotenvSpecial = "$#\"'`\\ \t\r\n"

// FormatDotenv renders a KEY=VALUE line that NewDotenvSource reads back as
// value unchanged. Values with characters godotenv would interpret are
// single-quoted; such a value must not contain a single quote or end in a
// backslash.
func FormatDotenv(key, value string) (string, error) {
	if !strings.ContainsAny(value, dotenvSpecial) {
		return key + "=" + value, nil
	}
	if strings.Contains(value, "'") || strings.HasSuffix(value, `\`) {
		return "", fmt.Errorf("dotenv %s: value cannot be written literally", key)
	}
	return key + "='" + value + "'", nil
}
