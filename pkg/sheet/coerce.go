package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TokenUnmarshaler is implemented by types that decode themselves from a
// single cell token. Enumerations, [Pair] and [Nullable] use it; record
// authors can implement it for their own value types.
type TokenUnmarshaler interface {
	UnmarshalToken(token string) error
}

var errUnsupported = errors.New("unsupported target type")

// Coerce converts a raw token to T.
//
// Supported targets are string (identity), bool, the sized and unsized int,
// uint and float kinds, and any type whose pointer implements
// TokenUnmarshaler. Numbers and booleans use strconv, which is independent
// of locale. A token that does not convert fails with a *FormatError; there
// is no fallback to the zero value.
func Coerce[T any](token string) (T, error) {
	var v T
	if err := coerceInto(&v, token); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

func coerceInto(dst any, token string) error {
	switch p := dst.(type) {
	case TokenUnmarshaler:
		if err := p.UnmarshalToken(token); err != nil {
			if errors.Is(err, ErrFormat) || errors.Is(err, ErrCardinality) {
				return err
			}
			return &FormatError{Token: token, Type: typeName(dst), Err: err}
		}
		return nil
	case *string:
		*p = token
		return nil
	case *bool:
		b, err := strconv.ParseBool(token)
		if err != nil {
			return formatError(token, dst, err)
		}
		*p = b
		return nil
	case *int:
		i, err := strconv.ParseInt(token, 10, strconv.IntSize)
		*p = int(i)
		return formatError(token, dst, err)
	case *int8:
		i, err := strconv.ParseInt(token, 10, 8)
		*p = int8(i)
		return formatError(token, dst, err)
	case *int16:
		i, err := strconv.ParseInt(token, 10, 16)
		*p = int16(i)
		return formatError(token, dst, err)
	case *int32:
		i, err := strconv.ParseInt(token, 10, 32)
		*p = int32(i)
		return formatError(token, dst, err)
	case *int64:
		i, err := strconv.ParseInt(token, 10, 64)
		*p = i
		return formatError(token, dst, err)
	case *uint:
		u, err := strconv.ParseUint(token, 10, strconv.IntSize)
		*p = uint(u)
		return formatError(token, dst, err)
	case *uint8:
		u, err := strconv.ParseUint(token, 10, 8)
		*p = uint8(u)
		return formatError(token, dst, err)
	case *uint16:
		u, err := strconv.ParseUint(token, 10, 16)
		*p = uint16(u)
		return formatError(token, dst, err)
	case *uint32:
		u, err := strconv.ParseUint(token, 10, 32)
		*p = uint32(u)
		return formatError(token, dst, err)
	case *uint64:
		u, err := strconv.ParseUint(token, 10, 64)
		*p = u
		return formatError(token, dst, err)
	case *float32:
		f, err := strconv.ParseFloat(token, 32)
		*p = float32(f)
		return formatError(token, dst, err)
	case *float64:
		f, err := strconv.ParseFloat(token, 64)
		*p = f
		return formatError(token, dst, err)
	default:
		return &FormatError{Token: token, Type: typeName(dst), Err: errUnsupported}
	}
}

// formatError wraps a strconv failure; a nil err stays nil.
func formatError(token string, dst any, err error) error {
	if err == nil {
		return nil
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	return &FormatError{Token: token, Type: typeName(dst), Err: err}
}

// typeName names the type a pointer points to, for diagnostics.
func typeName(ptr any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", ptr), "*")
}

// TypeName returns the name of T as used in diagnostics and descriptors.
func TypeName[T any]() string {
	return typeName((*T)(nil))
}
