package singleton

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/dig"

	"github.com/junioryono/singleton/internal/reflection"
)

// DigBuilder is a Builder that resolves instances through go.uber.org/dig.
//
// Constructors registered with Provide are replayed into a fresh dig
// container for every Build, so each cache miss gets a newly constructed
// instance along with fresh dependencies. Constructor arguments passed to
// Build are provided to that container as values of their parameter types;
// parameter types must therefore be distinct from each other and from the
// types produced by registered constructors.
type DigBuilder struct {
	mu       sync.RWMutex
	provides []digProvide
}

type digProvide struct {
	ctor any
	opts []dig.ProvideOption
}

var _ Builder = (*DigBuilder)(nil)

// NewDigBuilder creates a dig-backed builder with no constructors.
func NewDigBuilder() *DigBuilder {
	return &DigBuilder{}
}

// Provide registers a dig constructor. The constructor is validated against
// the constructors already registered.
func (b *DigBuilder) Provide(ctor any, opts ...dig.ProvideOption) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	probe, err := b.containerLocked()
	if err != nil {
		return RegistrationError{Constructor: ctor, Cause: err}
	}

	if err := probe.Provide(ctor, opts...); err != nil {
		return RegistrationError{Constructor: ctor, Cause: err}
	}

	b.provides = append(b.provides, digProvide{ctor: ctor, opts: opts})
	return nil
}

// Build implements Builder.
func (b *DigBuilder) Build(t reflect.Type, paramTypes []reflect.Type, args []any) (instance any, err error) {
	if t == nil {
		return nil, ErrTypeNil
	}

	if len(paramTypes) != len(args) {
		return nil, ArgumentCountError{Type: t, Params: len(paramTypes), Args: len(args)}
	}

	b.mu.RLock()
	c, err := b.containerLocked()
	b.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	values, bad := reflection.ConvertArgs(paramTypes, args)
	if bad >= 0 {
		return nil, TypeMismatchError{
			Expected: paramTypes[bad],
			Actual:   reflect.TypeOf(args[bad]),
			Context:  fmt.Sprintf("argument %d", bad),
		}
	}

	for i, v := range values {
		if err := c.Provide(valueConstructor(paramTypes[i], v)); err != nil {
			return nil, fmt.Errorf("provide argument %d (%s): %w", i, formatType(paramTypes[i]), err)
		}
	}

	fnType := reflect.FuncOf([]reflect.Type{t}, nil, false)

	var out reflect.Value
	capture := reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		out = in[0]
		return nil
	})

	defer func() {
		if r := recover(); r != nil {
			instance = nil
			err = ConstructorPanicError{Constructor: fnType, Panic: r}
		}
	}()

	if err := c.Invoke(capture.Interface()); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", formatType(t), err)
	}

	if reflection.IsNil(out) {
		return nil, ErrNilInstance
	}

	return out.Interface(), nil
}

// containerLocked builds a container holding every registered constructor.
// Callers must hold b.mu.
func (b *DigBuilder) containerLocked() (*dig.Container, error) {
	c := dig.New()
	for _, p := range b.provides {
		if err := c.Provide(p.ctor, p.opts...); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// valueConstructor returns a func() T that yields v.
func valueConstructor(t reflect.Type, v reflect.Value) any {
	fnType := reflect.FuncOf(nil, []reflect.Type{t}, false)
	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{v}
	}).Interface()
}
