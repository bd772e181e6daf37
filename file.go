package dotzen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileSource serves values from a YAML, TOML or JSON document, chosen by file
// extension. Nested tables are flattened into dotted keys, so
//
//	database:
//	  host: db.local
//
// is looked up as "database.host". Sequences are joined with commas so they can
// be read back with ToList; null values are treated as absent.
type FileSource struct {
	path   string
	values map[string]string
}

// NewFileSource reads and flattens path. The missing-file policy matches NewDotenvSource.
func NewFileSource(path string, opts ...SourceOption) (*FileSource, error) {
	o := applySourceOptions(opts)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !o.failIfMissing {
			return &FileSource{path: path, values: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	doc := make(map[string]any)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".toml":
		_, err = toml.Decode(string(data), &doc)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&doc)
	default:
		return nil, fmt.Errorf("config file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	values := make(map[string]string)
	flatten("", doc, values)
	return &FileSource{path: path, values: values}, nil
}

func (s *FileSource) Name() string { return SourceFile + ":" + s.path }

func (s *FileSource) Lookup(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func flatten(prefix string, node any, out map[string]string) {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			flatten(joinKey(prefix, k), v, out)
		}
	case map[any]any:
		for k, v := range n {
			flatten(joinKey(prefix, fmt.Sprint(k)), v, out)
		}
	case nil:
		// absent
	default:
		if prefix != "" {
			out[prefix] = scalarString(n)
		}
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = scalarString(e)
		}
		return strings.Join(parts, ",")
	case []map[string]any:
		// arrays of tables have no flat representation
		b, _ := json.Marshal(x)
		return string(b)
	case map[string]any:
		b, _ := json.Marshal(x)
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
