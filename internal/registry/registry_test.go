package registry_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/singleton/internal/reflection"
	"github.com/junioryono/singleton/internal/registry"
)

type Widget struct {
	Name string
	Size int
}

type Gadget struct{}

func descriptorFor(t *testing.T, ctor any) *registry.Descriptor {
	t.Helper()
	info, err := reflection.Analyze(ctor)
	require.NoError(t, err)
	return registry.FromConstructorInfo(info)
}

func TestFromConstructorInfo(t *testing.T) {
	d := descriptorFor(t, func(name string) (*Widget, error) { return &Widget{Name: name}, nil })

	assert.Equal(t, reflect.TypeOf((**Widget)(nil)).Elem(), d.Type)
	assert.Equal(t, []reflect.Type{reflect.TypeOf((*string)(nil)).Elem()}, d.Params)
	assert.True(t, d.HasErrorReturn)
	assert.Equal(t, reflect.Func, d.ConstructorType.Kind())
	assert.True(t, d.Matches(reflect.TypeOf((**Widget)(nil)).Elem(), []reflect.Type{reflect.TypeOf((*string)(nil)).Elem()}))
	assert.False(t, d.Matches(reflect.TypeOf((**Widget)(nil)).Elem(), nil))
	assert.False(t, d.Matches(reflect.TypeOf((*Widget)(nil)).Elem(), []reflect.Type{reflect.TypeOf((*string)(nil)).Elem()}))
}

func TestRegistry(t *testing.T) {
	widgetType := reflect.TypeOf((**Widget)(nil)).Elem()
	intType := reflect.TypeOf((*int)(nil)).Elem()
	stringType := reflect.TypeOf((*string)(nil)).Elem()

	r := registry.New()
	assert.Equal(t, 0, r.Len())

	assert.True(t, r.Add(descriptorFor(t, func() *Widget { return &Widget{} })))
	assert.True(t, r.Add(descriptorFor(t, func(size int) *Widget { return &Widget{Size: size} })))
	assert.True(t, r.Add(descriptorFor(t, func(name string, size int) *Widget { return &Widget{Name: name, Size: size} })))
	assert.True(t, r.Add(descriptorFor(t, func() *Gadget { return &Gadget{} })))

	assert.False(t, r.Add(descriptorFor(t, func(int) *Widget { return nil })), "duplicate signature")
	assert.Equal(t, 4, r.Len())

	d, ok := r.Lookup(widgetType, []reflect.Type{stringType, intType})
	require.True(t, ok)
	assert.Len(t, d.Params, 2)

	_, ok = r.Lookup(widgetType, []reflect.Type{intType, stringType})
	assert.False(t, ok, "parameter order is part of the signature")

	_, ok = r.Lookup(reflect.TypeOf((*Widget)(nil)).Elem(), nil)
	assert.False(t, ok)

	assert.Equal(t, []reflect.Type{reflect.TypeOf((**Gadget)(nil)).Elem(), widgetType}, r.Types())
}

func TestRegistry_Concurrent(t *testing.T) {
	r := registry.New()
	d := descriptorFor(t, func() *Widget { return &Widget{} })

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Add(d) {
				mu.Lock()
				added++
				mu.Unlock()
			}
			r.Lookup(d.Type, nil)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, added)
	assert.Equal(t, 1, r.Len())
}
