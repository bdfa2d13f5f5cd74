package singleton

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that should be wrapped in typed errors when returned.
// Match them with errors.Is.

var (
	// Cache errors.
	ErrCacheClosed = errors.New("instance cache has been closed")
	ErrTypeNil     = errors.New("type cannot be nil")

	// Argument errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// Construction errors.
	ErrNoConstructor  = errors.New("no constructor available")
	ErrNilInstance    = errors.New("constructor returned a nil instance")
	ErrConstructorNil = errors.New("constructor cannot be nil")
)

var (
	_ error = ConstructionError{}
	_ error = NilArgumentError{}
	_ error = ArgumentCountError{}
	_ error = NoConstructorError{}
	_ error = NotInstantiableError{}
	_ error = AlreadyRegisteredError{}
	_ error = TypeMismatchError{}
	_ error = ConstructorInvocationError{}
	_ error = ConstructorPanicError{}
	_ error = RegistrationError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// ConstructionError reports that the builder could not produce an instance for a key.
// Nothing is stored for the key, so the next request retries construction.
type ConstructionError struct {
	Key   string
	Type  reflect.Type
	Cause error
}

func (e ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct %s (key %q): %v", formatType(e.Type), e.Key, e.Cause)
}

func (e ConstructionError) Unwrap() error {
	return e.Cause
}

// NilArgumentError indicates a nil constructor argument in an argument-bearing request.
type NilArgumentError struct {
	Type  reflect.Type
	Index int
}

func (e NilArgumentError) Error() string {
	return fmt.Sprintf("argument %d for %s is nil: arguments must be non-nil to derive a key",
		e.Index, formatType(e.Type))
}

func (e NilArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// ArgumentCountError indicates the parameter type list and argument list differ in length.
type ArgumentCountError struct {
	Type   reflect.Type
	Params int
	Args   int
}

func (e ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: got %d parameter types but %d arguments", formatType(e.Type), e.Params, e.Args)
}

func (e ArgumentCountError) Unwrap() error {
	return ErrInvalidArgument
}

// NoConstructorError indicates no factory matches the requested type and parameter signature.
type NoConstructorError struct {
	Type   reflect.Type
	Params []reflect.Type
}

func (e NoConstructorError) Error() string {
	return fmt.Sprintf("no constructor registered for %s(%s)", formatType(e.Type), formatTypes(e.Params))
}

func (e NoConstructorError) Unwrap() error {
	return ErrNoConstructor
}

// NotInstantiableError indicates a type cannot be created without a registered factory,
// for example an interface or a function type.
type NotInstantiableError struct {
	Type reflect.Type
}

func (e NotInstantiableError) Error() string {
	return fmt.Sprintf("%s (%s) cannot be instantiated without a registered factory",
		formatType(e.Type), kindOf(e.Type))
}

func (e NotInstantiableError) Unwrap() error {
	return ErrNoConstructor
}

// AlreadyRegisteredError indicates a factory with the same product type and signature exists.
type AlreadyRegisteredError struct {
	Type   reflect.Type
	Params []reflect.Type
}

func (e AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("factory %s(%s) already registered", formatType(e.Type), formatTypes(e.Params))
}

// TypeMismatchError indicates a type assertion or assignment failed.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "argument 0", "cached instance", etc.
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// ConstructorInvocationError wraps an error returned by a factory function.
type ConstructorInvocationError struct {
	Constructor reflect.Type
	Parameters  []reflect.Type
	Cause       error
}

func (e ConstructorInvocationError) Error() string {
	return fmt.Sprintf("failed to invoke %s with parameters [%s]: %v",
		formatType(e.Constructor), formatTypes(e.Parameters), e.Cause)
}

func (e ConstructorInvocationError) Unwrap() error {
	return e.Cause
}

// ConstructorPanicError indicates a constructor panicked during invocation.
// It captures the panic value and stack trace for debugging.
type ConstructorPanicError struct {
	Constructor reflect.Type
	Panic       any
	Stack       []byte
}

func (e ConstructorPanicError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("constructor %s panicked: %v", formatType(e.Constructor), e.Panic))

	if len(e.Stack) > 0 {
		b.WriteString("\n\nStack trace:\n")
		b.Write(e.Stack)
	}

	return b.String()
}

// RegistrationError wraps errors during factory registration.
type RegistrationError struct {
	Constructor any
	Cause       error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to register factory %T: %v", e.Constructor, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
	}

	return t.String()
}

func formatTypes(types []reflect.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = formatType(t)
	}
	return strings.Join(parts, ", ")
}

func kindOf(t reflect.Type) string {
	if t == nil {
		return "invalid"
	}
	return t.Kind().String()
}
