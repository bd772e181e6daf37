package dotzen

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net"
	"net/mail"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"k8s.io/apimachinery/pkg/api/resource"
)

// Cast converts a raw configuration string into a typed value.
type Cast[T any] func(raw string) (T, error)

// Get resolves key through r and casts the result. Cast failures are
// returned as *CastError.
//
//	port, err := dotzen.Get(cfg, "PORT", dotzen.ToInt, dotzen.Default("8080"))
func Get[T any](r Resolver, key string, cast Cast[T], opts ...Option) (T, error) {
	var zero T
	raw, err := r.Konfig(key, opts...)
	if err != nil {
		return zero, err
	}
	v, err := cast(raw)
	if err != nil {
		return zero, &CastError{Key: key, Type: typeName[T](), Err: err}
	}
	return v, nil
}

// String resolves key as a string.
func String(r Resolver, key string, opts ...Option) (string, error) {
	return Get(r, key, ToString, opts...)
}

// Bool resolves key as a bool, see ToBool.
func Bool(r Resolver, key string, opts ...Option) (bool, error) {
	return Get(r, key, ToBool, opts...)
}

// Int resolves key as an int.
func Int(r Resolver, key string, opts ...Option) (int, error) {
	return Get(r, key, ToInt, opts...)
}

// Float resolves key as a float64.
func Float(r Resolver, key string, opts ...Option) (float64, error) {
	return Get(r, key, ToFloat, opts...)
}

// List resolves key as a comma-separated list, see ToList.
func List(r Resolver, key string, opts ...Option) ([]string, error) {
	return Get(r, key, ToList, opts...)
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// ToString returns raw unchanged.
func ToString(raw string) (string, error) { return raw, nil }

// ToBool accepts true/1/yes and false/0/no, case-insensitively.
func ToBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q: want true|1|yes or false|0|no", raw)
	}
}

// ToInt parses a base-10 integer.
func ToInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// ToInt64 parses a base-10 64-bit integer.
func ToInt64(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// ToFloat parses a 64-bit float.
func ToFloat(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// ToList splits raw on commas and trims each element. An empty string is an
// empty list; empty elements inside the list are kept.
func ToList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts, nil
}

// ListOf casts every element of a comma-separated list with elem.
func ListOf[T any](elem Cast[T]) Cast[[]T] {
	return func(raw string) ([]T, error) {
		parts, _ := ToList(raw)
		out := make([]T, 0, len(parts))
		for i, p := range parts {
			v, err := elem(p)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// ToDuration parses a Go duration such as "1m30s".
func ToDuration(raw string) (time.Duration, error) {
	return time.ParseDuration(strings.TrimSpace(raw))
}

// ToTime parses RFC3339, falling back to Unix seconds.
func ToTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0), nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: must be RFC3339 format or Unix seconds", raw)
}

// ToLevel parses debug|info|warn|warning|error or an integer slog level.
func ToLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return slog.Level(n), nil
	}
	return 0, fmt.Errorf("invalid slog level %q: must be debug|info|warn|error or integer", raw)
}

// ToBigInt parses a base-10 integer of any size.
func ToBigInt(raw string) (*big.Int, error) {
	bi, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid big.Int %q: must be base-10 integer", raw)
	}
	return bi, nil
}

// ToDecimal parses an exact decimal.
func ToDecimal(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}

// ToURL parses a URL, including socket-style DSNs like postgresql://u@/db?host=/run.
func ToURL(raw string) (*url.URL, error) {
	return url.Parse(raw)
}

// ToIP parses an IPv4 or IPv6 address.
func ToIP(raw string) (net.IP, error) {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return nil, fmt.Errorf("invalid IP address %q", raw)
	}
	return ip, nil
}

// ToAddress parses an RFC 5322 address, with or without a display name.
func ToAddress(raw string) (*mail.Address, error) {
	return mail.ParseAddress(raw)
}

// ToUUID parses a UUID in any form accepted by uuid.Parse.
func ToUUID(raw string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(raw))
}

// ToQuantity parses a Kubernetes resource quantity such as "250m" or "1.5Gi".
func ToQuantity(raw string) (resource.Quantity, error) {
	return resource.ParseQuantity(strings.TrimSpace(raw))
}

// ToProgram compiles an expr-lang expression.
func ToProgram(raw string) (*vm.Program, error) {
	return expr.Compile(raw)
}

// ToRSAPrivateKey parses a PKCS#1 or PKCS#8 PEM encoded RSA key.
func ToRSAPrivateKey(raw string) (*rsa.PrivateKey, error) {
	key, err := parsePrivateKey(raw)
	if err != nil {
		return nil, err
	}
	rk, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PEM key is %T, not an RSA private key", key)
	}
	return rk, nil
}

// ToECDSAPrivateKey parses a SEC 1 or PKCS#8 PEM encoded ECDSA key.
func ToECDSAPrivateKey(raw string) (*ecdsa.PrivateKey, error) {
	key, err := parsePrivateKey(raw)
	if err != nil {
		return nil, err
	}
	ek, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("PEM key is %T, not an ECDSA private key", key)
	}
	return ek, nil
}

func parsePrivateKey(raw string) (any, error) {
	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, errors.New("invalid PEM format for private key")
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		k, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
		return k, nil
	case "EC PRIVATE KEY":
		k, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse EC private key: %w", err)
		}
		return k, nil
	case "PRIVATE KEY":
		k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported PEM block type %s", block.Type)
	}
}
