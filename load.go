package dotzen

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr/vm"
)

// typeParser decodes raw into a value whose dynamic type is exactly the
// registered reflect.Type.
type typeParser func(raw string) (any, error)

// typeParsers is filled at init and by RegisterType; it is not locked.
var typeParsers = make(map[reflect.Type]typeParser)

// RegisterType lets Load fill fields of type T (and *T) with cast.
// Call it from init or main before Load.
func RegisterType[T any](cast Cast[T]) {
	typeParsers[reflect.TypeFor[T]()] = func(raw string) (any, error) {
		return cast(raw)
	}
	typeParsers[reflect.TypeFor[*T]()] = func(raw string) (any, error) {
		v, err := cast(raw)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// registerPointer registers a cast that already yields *T for both *T and T.
func registerPointer[T any](cast Cast[*T]) {
	typeParsers[reflect.TypeFor[*T]()] = func(raw string) (any, error) {
		return cast(raw)
	}
	typeParsers[reflect.TypeFor[T]()] = func(raw string) (any, error) {
		v, err := cast(raw)
		if err != nil {
			return nil, err
		}
		return *v, nil
	}
}

func init() {
	RegisterType(ToDuration)
	RegisterType(ToTime)
	RegisterType(ToLevel)
	RegisterType(ToDecimal)
	RegisterType(ToUUID)
	RegisterType(ToQuantity)
	RegisterType(ToIP)
	registerPointer[big.Int](ToBigInt)
	registerPointer[url.URL](ToURL)
	registerPointer[mail.Address](ToAddress)
	typeParsers[reflect.TypeFor[*vm.Program]()] = func(raw string) (any, error) { return ToProgram(raw) }
	typeParsers[reflect.TypeFor[*rsa.PrivateKey]()] = func(raw string) (any, error) { return ToRSAPrivateKey(raw) }
	typeParsers[reflect.TypeFor[*ecdsa.PrivateKey]()] = func(raw string) (any, error) { return ToECDSAPrivateKey(raw) }
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// parserFor finds a parser for t: registered types first, then anything
// implementing encoding.TextUnmarshaler.
func parserFor(t reflect.Type) (typeParser, bool) {
	if p, ok := typeParsers[t]; ok {
		return p, true
	}
	target := t
	if t.Kind() == reflect.Pointer {
		target = t.Elem()
	}
	if !reflect.PointerTo(target).Implements(textUnmarshalerType) {
		return nil, false
	}
	return func(raw string) (any, error) {
		v := reflect.New(target)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("failed to unmarshal text: %w", err)
		}
		if t.Kind() == reflect.Pointer {
			return v.Interface(), nil
		}
		return v.Elem().Interface(), nil
	}, true
}

// Load fills config, a struct or pointer to struct, through cfg.
//
// Field tags:
//   - `env:"KEY"`: key to resolve; the field name is used when absent
//   - `secret:"KEY"`: like env, and masked by PrettyString
//   - `default:"value"`: used when no source has the key and the field is zero
//   - `required:"true"`: fail when the key is missing or empty
//   - `encrypted:"true"`: decrypt the value found in a source
//   - `algorithm:"name"`: transform for encrypted fields, defaults to the Config's
//
// Nested structs (value or pointer) are loaded recursively. Slices are read as
// comma-separated lists; empty elements are dropped unless the element type is
// a string, so "80,443," loads as two ports. Besides the scalar kinds, every type accepted by a
// To* cast, any type registered with RegisterType and any
// encoding.TextUnmarshaler can be loaded.
//
//	type AppConfig struct {
//	    Port       int    `env:"PORT" default:"8080"`
//	    DBPassword string `secret:"DATABASE_PASSWORD" encrypted:"true"`
//	}
//
//	app, err := dotzen.Load(cfg, AppConfig{})
func Load[T any](cfg *Config, config T) (T, error) {
	rv := reflect.ValueOf(config)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
		return config, loadStruct(cfg, rv.Elem())
	}
	if rv.Kind() == reflect.Struct {
		err := loadStruct(cfg, reflect.ValueOf(&config).Elem())
		return config, err
	}
	var zero T
	return zero, fmt.Errorf("dotzen: config must be struct or pointer to struct, got %T", config)
}

// LoadWithDotenv loads config from the environment and a .env file, the
// environment taking precedence. Paths default to ".env"; missing files are
// ignored.
func LoadWithDotenv[T any](config T, dotenvPaths ...string) (T, error) {
	if len(dotenvPaths) == 0 {
		dotenvPaths = []string{DefaultDotenvPath}
	}
	cfg, err := New(Options{Environment: true, Dotenv: dotenvPaths})
	if err != nil {
		var zero T
		return zero, err
	}
	return Load(cfg, config)
}

func isNestedStruct(t reflect.Type) bool {
	if _, ok := parserFor(t); ok {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	_, ok := parserFor(t)
	return !ok
}

func fieldKey(sf reflect.StructField) string {
	if k := sf.Tag.Get("env"); k != "" {
		return k
	}
	if k := sf.Tag.Get("secret"); k != "" {
		return k
	}
	return sf.Name
}

func loadStruct(cfg *Config, val reflect.Value) error {
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		fv := val.Field(i)
		if !fv.CanSet() {
			continue
		}

		if isNestedStruct(fv.Type()) {
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					fv.Set(reflect.New(fv.Type().Elem()))
				}
				fv = fv.Elem()
			}
			if err := loadStruct(cfg, fv); err != nil {
				return err
			}
			continue
		}

		key := fieldKey(sf)
		required := sf.Tag.Get("required") == "true"

		var opts []Option
		if enc, _ := strconv.ParseBool(sf.Tag.Get("encrypted")); enc {
			opts = append(opts, Encrypted(true))
			if alg := sf.Tag.Get("algorithm"); alg != "" {
				opts = append(opts, Algorithm(alg))
			}
		}

		raw, err := cfg.Konfig(key, opts...)
		if errors.Is(err, ErrMissingKey) {
			def, hasDefault := sf.Tag.Lookup("default")
			switch {
			case !fv.IsZero():
				continue
			case hasDefault:
				raw = def
			case required:
				return fmt.Errorf("field %s: %w", sf.Name, err)
			default:
				continue
			}
		} else if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}

		if raw == "" {
			if required {
				return fmt.Errorf("field %s: %w", sf.Name, &MissingKeyError{Key: key})
			}
			continue
		}

		v, err := decodeValue(raw, fv.Type())
		if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, &CastError{Key: key, Type: fv.Type().String(), Err: err})
		}
		fv.Set(v)
	}
	return nil
}

func decodeValue(raw string, t reflect.Type) (reflect.Value, error) {
	if p, ok := parserFor(t); ok {
		v, err := p(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	}

	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		out.SetString(raw)
	case reflect.Bool:
		b, err := ToBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
	case reflect.Slice:
		parts, _ := ToList(raw)
		out = reflect.MakeSlice(t, 0, len(parts))
		for _, part := range parts {
			if part == "" && t.Elem().Kind() != reflect.String {
				continue
			}
			ev, err := decodeValue(part, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, ev)
		}
	default:
		return reflect.Value{}, fmt.Errorf("unsupported kind %s", t.Kind())
	}
	return out, nil
}

// mask keeps the first 3 characters of a secret and stars the rest.
// Secrets of 3 characters or fewer are fully starred.
func mask(secret string) string {
	const keep = 3
	n := len(secret)
	if n <= keep {
		return strings.Repeat("*", n)
	}
	return secret[:keep] + strings.Repeat("*", n-keep)
}

// PrettyString renders a loaded struct as indented JSON keyed by env/secret
// tag. Fields tagged `secret` or `encrypted:"true"` are masked, as are
// passwords embedded in URLs.
func PrettyString(c any) string {
	rv := reflect.ValueOf(c)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Sprintf("%T is not a struct", c)
	}
	b, err := json.MarshalIndent(safeMap(rv), "", "  ")
	if err != nil {
		return fmt.Sprintf("error pretty-printing config: %v", err)
	}
	return string(b)
}

func safeMap(val reflect.Value) map[string]any {
	typ := val.Type()
	out := make(map[string]any, typ.NumField())

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		fv := val.Field(i)
		if !fv.CanInterface() {
			continue
		}
		key := fieldKey(sf)
		enc, _ := strconv.ParseBool(sf.Tag.Get("encrypted"))

		switch {
		case sf.Tag.Get("secret") != "" || enc:
			out[key] = maskValue(fv)
		case isNestedStruct(fv.Type()):
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					out[key] = nil
					continue
				}
				fv = fv.Elem()
			}
			out[key] = safeMap(fv)
		default:
			out[key] = plainValue(fv)
		}
	}
	return out
}

func maskValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.String {
		masked := make([]string, fv.Len())
		for i := range masked {
			masked[i] = mask(fv.Index(i).String())
		}
		return masked
	}
	if fv.Kind() == reflect.String {
		return mask(fv.String())
	}
	return "***"
}

func plainValue(fv reflect.Value) any {
	switch v := fv.Interface().(type) {
	case url.URL:
		return v.Redacted()
	case *url.URL:
		if v == nil {
			return nil
		}
		return v.Redacted()
	case net.IP:
		return v.String()
	case time.Duration:
		return v.String()
	case *rsa.PrivateKey, *ecdsa.PrivateKey:
		return "***"
	case *vm.Program:
		if v == nil {
			return nil
		}
		return fmt.Sprintf("%T", v)
	}
	if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() != reflect.Uint8 {
		items := make([]any, fv.Len())
		for i := range items {
			items[i] = plainValue(fv.Index(i))
		}
		return items
	}
	return fv.Interface()
}
