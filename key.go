package singleton

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// KeyFormat selects how constructor arguments are folded into a cache key.
type KeyFormat int

const (
	// PipeKeys appends "|" + fmt.Sprint(arg) per argument. Arguments whose
	// string form contains "|" can collide with a different argument list.
	PipeKeys KeyFormat = iota

	// LengthPrefixedKeys appends "|" + len + ":" + fmt.Sprint(arg) per argument,
	// so distinct argument lists always produce distinct keys.
	LengthPrefixedKeys
)

const keySeparator = "|"

// String returns the string representation of the key format.
func (f KeyFormat) String() string {
	switch f {
	case PipeKeys:
		return "Pipe"
	case LengthPrefixedKeys:
		return "LengthPrefixed"
	default:
		return fmt.Sprintf("KeyFormat(%d)", int(f))
	}
}

// IsValid checks if the key format is known.
func (f KeyFormat) IsValid() bool {
	return f == PipeKeys || f == LengthPrefixedKeys
}

// Key returns the cache key for a zero-argument request of t.
func Key(t reflect.Type) string {
	return TypeName(t)
}

// KeyWith returns the cache key for t constructed with args, in order.
// An empty argument list yields the same key as Key(t).
func KeyWith(t reflect.Type, args []any, format KeyFormat) (string, error) {
	if t == nil {
		return "", ErrTypeNil
	}

	base := TypeName(t)
	if len(args) == 0 {
		return base, nil
	}

	var b strings.Builder
	b.WriteString(base)
	for i, arg := range args {
		if isNilArgument(arg) {
			return "", NilArgumentError{Type: t, Index: i}
		}

		s := fmt.Sprint(arg)
		b.WriteString(keySeparator)
		if format == LengthPrefixedKeys {
			b.WriteString(strconv.Itoa(len(s)))
			b.WriteByte(':')
		}
		b.WriteString(s)
	}

	return b.String(), nil
}

// isNilArgument reports whether arg is nil or a nil reference. Nil maps and
// slices print deterministically and are accepted.
func isNilArgument(arg any) bool {
	if arg == nil {
		return true
	}

	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
