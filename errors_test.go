package singleton

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errTestService struct{}

type errTestInterface interface{ Do() }

func TestSentinelErrors(t *testing.T) {
	sentinelErrors := []struct {
		err     error
		message string
	}{
		{ErrCacheClosed, "instance cache has been closed"},
		{ErrTypeNil, "type cannot be nil"},
		{ErrInvalidArgument, "invalid argument"},
		{ErrNoConstructor, "no constructor available"},
		{ErrNilInstance, "constructor returned a nil instance"},
		{ErrConstructorNil, "constructor cannot be nil"},
	}

	for _, tt := range sentinelErrors {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestTypedErrors(t *testing.T) {
	svc := reflect.TypeOf((**errTestService)(nil)).Elem()
	intType := reflect.TypeOf((*int)(nil)).Elem()

	tests := []struct {
		name     string
		err      error
		contains []string
		is       error
	}{
		{
			name:     "construction",
			err:      ConstructionError{Key: "k|1", Type: svc, Cause: io.EOF},
			contains: []string{"failed to construct *errTestService", `"k|1"`, "EOF"},
			is:       io.EOF,
		},
		{
			name:     "nil argument",
			err:      NilArgumentError{Type: svc, Index: 2},
			contains: []string{"argument 2", "*errTestService", "nil"},
			is:       ErrInvalidArgument,
		},
		{
			name:     "argument count",
			err:      ArgumentCountError{Type: svc, Params: 2, Args: 1},
			contains: []string{"2 parameter types", "1 arguments"},
			is:       ErrInvalidArgument,
		},
		{
			name:     "no constructor",
			err:      NoConstructorError{Type: svc, Params: []reflect.Type{intType, intType}},
			contains: []string{"no constructor registered for *errTestService(int, int)"},
			is:       ErrNoConstructor,
		},
		{
			name:     "not instantiable",
			err:      NotInstantiableError{Type: reflect.TypeOf((*errTestInterface)(nil)).Elem()},
			contains: []string{"errTestInterface (interface)"},
			is:       ErrNoConstructor,
		},
		{
			name:     "invocation",
			err:      ConstructorInvocationError{Constructor: reflect.TypeOf((*func(int) *errTestService)(nil)).Elem(), Parameters: []reflect.Type{intType}, Cause: io.ErrUnexpectedEOF},
			contains: []string{"failed to invoke", "[int]", "unexpected EOF"},
			is:       io.ErrUnexpectedEOF,
		},
		{
			name:     "registration",
			err:      RegistrationError{Constructor: 42, Cause: ErrConstructorNil},
			contains: []string{"failed to register factory int"},
			is:       ErrConstructorNil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.contains {
				assert.Contains(t, tt.err.Error(), s)
			}
			assert.ErrorIs(t, tt.err, tt.is)
		})
	}
}

func TestAlreadyRegisteredError(t *testing.T) {
	err := AlreadyRegisteredError{
		Type:   reflect.TypeOf((**errTestService)(nil)).Elem(),
		Params: []reflect.Type{reflect.TypeOf((*string)(nil)).Elem()},
	}
	assert.Equal(t, "factory *errTestService(string) already registered", err.Error())
}

func TestTypeMismatchError(t *testing.T) {
	err := TypeMismatchError{
		Expected: reflect.TypeOf((**errTestService)(nil)).Elem(),
		Actual:   reflect.TypeOf((*string)(nil)).Elem(),
		Context:  "argument 0",
	}
	assert.Equal(t, "argument 0: expected *errTestService, got string", err.Error())

	nilActual := TypeMismatchError{Expected: reflect.TypeOf((*int)(nil)).Elem(), Context: "cached instance"}
	assert.Equal(t, "cached instance: expected int, got <nil>", nilActual.Error())
}

func TestConstructorPanicError(t *testing.T) {
	fnType := reflect.TypeOf((*func() *errTestService)(nil)).Elem()

	withoutStack := ConstructorPanicError{Constructor: fnType, Panic: "boom"}
	assert.Equal(t, "constructor func() *singleton.errTestService panicked: boom", withoutStack.Error())

	withStack := ConstructorPanicError{Constructor: fnType, Panic: "boom", Stack: []byte("goroutine 1")}
	assert.Contains(t, withStack.Error(), "Stack trace:\ngoroutine 1")
}

func TestErrorChains(t *testing.T) {
	cause := ConstructorInvocationError{Cause: io.EOF}
	err := ConstructionError{Key: "k", Cause: RegistrationError{Cause: cause}}

	assert.ErrorIs(t, err, io.EOF)

	var invocation ConstructorInvocationError
	require.True(t, errors.As(err, &invocation))
	assert.Equal(t, io.EOF, invocation.Cause)
}

func TestFormatType(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want string
	}{
		{nil, "<nil>"},
		{reflect.TypeOf((*int)(nil)).Elem(), "int"},
		{reflect.TypeOf((**errTestService)(nil)).Elem(), "*errTestService"},
		{reflect.TypeOf((*[]errTestService)(nil)).Elem(), "[]errTestService"},
		{reflect.TypeOf((*errTestService)(nil)).Elem(), "errTestService"},
		{reflect.TypeOf((*errTestInterface)(nil)).Elem(), "errTestInterface"},
		{reflect.TypeOf((**int)(nil)).Elem(), "*int"},
		{reflect.TypeOf((*map[string]int)(nil)).Elem(), "map[string]int"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatType(tt.typ))
	}

	assert.Equal(t, "int, string", formatTypes([]reflect.Type{reflect.TypeOf((*int)(nil)).Elem(), reflect.TypeOf((*string)(nil)).Elem()}))
	assert.Equal(t, "", formatTypes(nil))
	assert.Equal(t, "invalid", kindOf(nil))
}
