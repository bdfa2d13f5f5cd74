package singleton

import "reflect"

// Builder constructs instances on a cache miss.
//
// Build returns a new instance of t created from args, where args[i] is
// passed as a value of paramTypes[i]. paramTypes and args are empty for
// zero-argument construction. Any error means no instance is available;
// the cache stores nothing and retries on the next request.
type Builder interface {
	Build(t reflect.Type, paramTypes []reflect.Type, args []any) (any, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(t reflect.Type, paramTypes []reflect.Type, args []any) (any, error)

// Build calls f.
func (f BuilderFunc) Build(t reflect.Type, paramTypes []reflect.Type, args []any) (any, error) {
	return f(t, paramTypes, args)
}
