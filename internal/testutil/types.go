package testutil

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrConstructor = errors.New("constructor error")
	ErrIntentional = errors.New("intentional error")
)

// TestService is a basic zero-argument service
type TestService struct {
	ID        string
	CreatedAt time.Time
}

// SizedService is built from one int argument
type SizedService struct {
	ID   string
	Size int
}

// PairService is built from two ordered int arguments
type PairService struct {
	ID   string
	A, B int
}

// LabelPair is built from two string arguments
type LabelPair struct {
	ID          string
	Left, Right string
}

// Greeter is a test interface
type Greeter interface {
	Greet() string
}

// NamedGreeter implements Greeter
type NamedGreeter struct {
	Name string
}

func (g *NamedGreeter) Greet() string {
	return "hello, " + g.Name
}

// Label implements fmt.Stringer so keys use its String form
type Label struct {
	Value string
}

func (l Label) String() string {
	return "label:" + l.Value
}

// LabeledService is built from a Label argument
type LabeledService struct {
	ID    string
	Label Label
}

// Counter counts constructor invocations. Its methods are factories
// suitable for FactoryBuilder.Register.
type Counter struct {
	calls atomic.Int64
}

// Calls returns how many times any factory of c ran.
func (c *Counter) Calls() int64 {
	return c.calls.Load()
}

func (c *Counter) NewTestService() *TestService {
	c.calls.Add(1)
	return &TestService{ID: uuid.NewString(), CreatedAt: time.Now()}
}

func (c *Counter) NewSizedService(size int) *SizedService {
	c.calls.Add(1)
	return &SizedService{ID: uuid.NewString(), Size: size}
}

func (c *Counter) NewPairService(a, b int) *PairService {
	c.calls.Add(1)
	return &PairService{ID: uuid.NewString(), A: a, B: b}
}

func (c *Counter) NewLabelPair(left, right string) *LabelPair {
	c.calls.Add(1)
	return &LabelPair{ID: uuid.NewString(), Left: left, Right: right}
}

func (c *Counter) NewLabeledService(label Label) *LabeledService {
	c.calls.Add(1)
	return &LabeledService{ID: uuid.NewString(), Label: label}
}

func (c *Counter) NewGreeter(name string) Greeter {
	c.calls.Add(1)
	return &NamedGreeter{Name: name}
}

// FailingFirst returns a factory that fails its first n calls.
func (c *Counter) FailingFirst(n int64) func() (*TestService, error) {
	return func() (*TestService, error) {
		if c.calls.Add(1) <= n {
			return nil, ErrConstructor
		}
		return &TestService{ID: uuid.NewString(), CreatedAt: time.Now()}, nil
	}
}

// Panicking returns a factory that always panics with msg.
func (c *Counter) Panicking(msg string) func() *TestService {
	return func() *TestService {
		c.calls.Add(1)
		panic(msg)
	}
}

// ReturningNil returns a factory that yields a nil pointer.
func (c *Counter) ReturningNil() func() *TestService {
	return func() *TestService {
		c.calls.Add(1)
		return nil
	}
}

// Slow returns a factory that sleeps for d before building.
func (c *Counter) Slow(d time.Duration) func() *TestService {
	return func() *TestService {
		c.calls.Add(1)
		time.Sleep(d)
		return &TestService{ID: uuid.NewString(), CreatedAt: time.Now()}
	}
}
