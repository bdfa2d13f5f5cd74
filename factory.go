package singleton

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/junioryono/singleton/internal/reflection"
	"github.com/junioryono/singleton/internal/registry"
)

// FactoryBuilder is a Builder backed by an explicit registry of factory functions.
//
// A factory is any non-variadic function returning T or (T, error). Its
// parameter types form its signature, so one product type may have several
// factories, one per argument list:
//
//	factories := singleton.NewFactoryBuilder()
//	factories.MustRegister(NewPool)          // func() *Pool
//	factories.MustRegister(NewPoolWithSize)  // func(int) *Pool
//
// Zero-argument requests for struct and pointer-to-struct types without a
// registered factory fall back to a zero value unless disabled with
// WithZeroValueFallback(false).
type FactoryBuilder struct {
	registry          *registry.Registry
	zeroValueFallback bool
}

var _ Builder = (*FactoryBuilder)(nil)

// FactoryOption configures a FactoryBuilder.
type FactoryOption interface {
	applyFactory(*FactoryBuilder)
}

type factoryOptionFunc func(*FactoryBuilder)

func (f factoryOptionFunc) applyFactory(b *FactoryBuilder) {
	f(b)
}

// WithZeroValueFallback toggles zero-value construction for unregistered
// struct types requested without arguments. Enabled by default.
func WithZeroValueFallback(enabled bool) FactoryOption {
	return factoryOptionFunc(func(b *FactoryBuilder) {
		b.zeroValueFallback = enabled
	})
}

// NewFactoryBuilder creates an empty factory builder.
func NewFactoryBuilder(opts ...FactoryOption) *FactoryBuilder {
	b := &FactoryBuilder{
		registry:          registry.New(),
		zeroValueFallback: true,
	}

	for _, opt := range opts {
		if opt != nil {
			opt.applyFactory(b)
		}
	}

	return b
}

// Register adds a factory function. It fails if ctor is not a valid factory
// or a factory with the same product type and parameter types exists.
func (b *FactoryBuilder) Register(ctor any) error {
	info, err := reflection.Analyze(ctor)
	if err != nil {
		if errors.Is(err, reflection.ErrConstructorNil) {
			err = ErrConstructorNil
		}
		return RegistrationError{Constructor: ctor, Cause: err}
	}

	desc := registry.FromConstructorInfo(info)
	if !b.registry.Add(desc) {
		return RegistrationError{
			Constructor: ctor,
			Cause:       AlreadyRegisteredError{Type: desc.Type, Params: desc.Params},
		}
	}

	return nil
}

// MustRegister is like Register but panics on error.
func (b *FactoryBuilder) MustRegister(ctor any) {
	if err := b.Register(ctor); err != nil {
		panic(err)
	}
}

// Has reports whether a factory builds t from paramTypes.
func (b *FactoryBuilder) Has(t reflect.Type, paramTypes ...reflect.Type) bool {
	_, ok := b.registry.Lookup(t, paramTypes)
	return ok
}

// Len returns the number of registered factories.
func (b *FactoryBuilder) Len() int {
	return b.registry.Len()
}

// Types returns the product types with at least one registered factory.
func (b *FactoryBuilder) Types() []reflect.Type {
	return b.registry.Types()
}

// Build implements Builder.
func (b *FactoryBuilder) Build(t reflect.Type, paramTypes []reflect.Type, args []any) (any, error) {
	if t == nil {
		return nil, ErrTypeNil
	}

	if len(paramTypes) != len(args) {
		return nil, ArgumentCountError{Type: t, Params: len(paramTypes), Args: len(args)}
	}

	desc, ok := b.registry.Lookup(t, paramTypes)
	if !ok {
		if len(paramTypes) > 0 || !b.zeroValueFallback {
			return nil, NoConstructorError{Type: t, Params: paramTypes}
		}
		if !reflection.Instantiable(t) {
			return nil, NotInstantiableError{Type: t}
		}
		return reflection.NewZero(t), nil
	}

	return invokeFactory(desc, args)
}

func invokeFactory(desc *registry.Descriptor, args []any) (any, error) {
	values, bad := reflection.ConvertArgs(desc.Params, args)
	if bad >= 0 {
		return nil, TypeMismatchError{
			Expected: desc.Params[bad],
			Actual:   reflect.TypeOf(args[bad]),
			Context:  fmt.Sprintf("argument %d", bad),
		}
	}

	results, recovered := reflection.Call(desc.Constructor, values)
	if recovered != nil {
		return nil, ConstructorPanicError{
			Constructor: desc.ConstructorType,
			Panic:       recovered.Value,
			Stack:       recovered.Stack,
		}
	}

	if desc.HasErrorReturn && !results[1].IsNil() {
		return nil, ConstructorInvocationError{
			Constructor: desc.ConstructorType,
			Parameters:  desc.Params,
			Cause:       results[1].Interface().(error),
		}
	}

	if reflection.IsNil(results[0]) {
		return nil, ErrNilInstance
	}

	return results[0].Interface(), nil
}
