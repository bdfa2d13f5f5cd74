package singleton

import (
	"reflect"
)

// Get returns the cached instance of T from c, constructing it on first use.
//
//	pool, ok := singleton.Get[*Pool](cache)
func Get[T any](c *Cache) (T, bool) {
	result, err := ResolveAs[T](c)
	if err != nil {
		c.logRejected(reflect.TypeOf((*T)(nil)).Elem(), err)
		return result, false
	}
	return result, true
}

// GetWith returns the instance of T built from args, constructing it on first use.
//
//	pool, ok := singleton.GetWith[*Pool](cache, []reflect.Type{reflect.TypeFor[int]()}, 16)
func GetWith[T any](c *Cache, paramTypes []reflect.Type, args ...any) (T, bool) {
	result, err := ResolveWithAs[T](c, paramTypes, args...)
	if err != nil {
		c.logRejected(reflect.TypeOf((*T)(nil)).Elem(), err)
		return result, false
	}
	return result, true
}

// ResolveAs is a generic helper that resolves the instance of T from c.
func ResolveAs[T any](c *Cache) (T, error) {
	instance, err := c.Resolve(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		var zero T
		return zero, err
	}
	return assertInstance[T](instance)
}

// ResolveWithAs is a generic helper that resolves the instance of T built from args.
func ResolveWithAs[T any](c *Cache, paramTypes []reflect.Type, args ...any) (T, error) {
	instance, err := c.ResolveWith(reflect.TypeOf((*T)(nil)).Elem(), paramTypes, args)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertInstance[T](instance)
}

// MustGet resolves the instance of T and panics on error.
func MustGet[T any](c *Cache) T {
	result, err := ResolveAs[T](c)
	if err != nil {
		panic(err)
	}
	return result
}

// ParamTypes returns the dynamic types of args, for argument lists whose
// parameter types equal their argument types.
func ParamTypes(args ...any) []reflect.Type {
	types := make([]reflect.Type, len(args))
	for i, arg := range args {
		types[i] = reflect.TypeOf(arg)
	}
	return types
}

func assertInstance[T any](instance any) (T, error) {
	result, ok := instance.(T)
	if !ok {
		return result, TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(instance),
			Context:  "cached instance",
		}
	}
	return result, nil
}
