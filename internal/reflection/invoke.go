package reflection

import (
	"reflect"
	"runtime/debug"
)

// Panic captures a recovered constructor panic.
type Panic struct {
	Value any
	Stack []byte
}

// Call invokes fn with args and recovers any panic raised by it.
func Call(fn reflect.Value, args []reflect.Value) (results []reflect.Value, recovered *Panic) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			recovered = &Panic{Value: r, Stack: debug.Stack()}
		}
	}()

	return fn.Call(args), nil
}

// ConvertArgs turns args into reflect values for params, reporting the index
// of the first argument that is not assignable to its parameter type.
func ConvertArgs(params []reflect.Type, args []any) ([]reflect.Value, int) {
	values := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			switch params[i].Kind() {
			case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
				values[i] = reflect.Zero(params[i])
				continue
			}
			return nil, i
		}

		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(params[i]) {
			return nil, i
		}
		values[i] = v
	}
	return values, -1
}

// IsNil reports whether v holds no usable instance.
func IsNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// Instantiable reports whether t can be created with NewZero.
func Instantiable(t reflect.Type) bool {
	if t == nil {
		return false
	}

	switch t.Kind() {
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct
	}
	return false
}

// NewZero allocates a zero value of t. Pointer-to-struct types get a fresh
// allocation so each call yields a distinct instance.
func NewZero(t reflect.Type) any {
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.New(t).Elem().Interface()
}
