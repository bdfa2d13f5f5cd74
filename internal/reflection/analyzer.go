package reflection

import (
	"errors"
	"fmt"
	"reflect"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	ErrConstructorNil   = errors.New("constructor cannot be nil")
	ErrNotFunction      = errors.New("constructor must be a function")
	ErrVariadic         = errors.New("variadic constructors are not supported")
	ErrInvalidReturns   = errors.New("constructor must return T or (T, error)")
	ErrErrorProductType = errors.New("constructor cannot produce the error type")
)

// ConstructorInfo contains analyzed information about a factory function.
type ConstructorInfo struct {
	Type           reflect.Type   // the func type
	Value          reflect.Value  // the func value
	Product        reflect.Type   // first return type
	Params         []reflect.Type // parameter types in order
	HasErrorReturn bool           // returns error as second value
}

// Analyze validates constructor and extracts its product and parameter types.
// Results are not cached: closures built from one function literal share a
// code pointer but not their captured state.
func Analyze(constructor any) (*ConstructorInfo, error) {
	if constructor == nil {
		return nil, ErrConstructorNil
	}

	val := reflect.ValueOf(constructor)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %s", ErrNotFunction, typ.Kind())
	}

	if val.IsNil() {
		return nil, ErrConstructorNil
	}

	if typ.IsVariadic() {
		return nil, ErrVariadic
	}

	info := &ConstructorInfo{
		Type:  typ,
		Value: val,
	}

	if err := analyzeReturns(info); err != nil {
		return nil, err
	}

	info.Params = make([]reflect.Type, typ.NumIn())
	for i := range info.Params {
		info.Params[i] = typ.In(i)
	}

	return info, nil
}

func analyzeReturns(info *ConstructorInfo) error {
	fnType := info.Type

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errType {
			return fmt.Errorf("%w: second return must be error, got %s", ErrInvalidReturns, fnType.Out(1))
		}
		info.HasErrorReturn = true
	default:
		return fmt.Errorf("%w: got %d return values", ErrInvalidReturns, fnType.NumOut())
	}

	product := fnType.Out(0)
	if product == errType {
		return ErrErrorProductType
	}
	info.Product = product

	return nil
}

// SameTypes reports whether a and b list identical types in the same order.
func SameTypes(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
