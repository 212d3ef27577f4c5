package tapcheck

import (
	"fmt"
	"sync"
)

// Hooks holds the lifecycle functions of a run. Each slot holds at most one function.
type Hooks struct {
	BeforeAll  TestFunction
	AfterAll   TestFunction
	BeforeEach TestFunction
	AfterEach  TestFunction
}

// A Registry holds the tests and hooks registered before a run.
// It is frozen once a run starts.
type Registry struct {
	tests   TestSuite
	hooks   Hooks
	hasOnly bool
	frozen  bool

	lock sync.Mutex
}

// NewRegistry returns a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register registers a test. It panics if the test has no function
// or if the registry is frozen.
func (r *Registry) Register(t Test) {

	r.lock.Lock()
	defer r.lock.Unlock()

	r.register(t)
}

// RegisterSkipped registers a test that will be reported as skipped.
func (r *Registry) RegisterSkipped(t Test) {

	t.Skip = true
	r.Register(t)
}

// RegisterOnly registers a test and marks it as the only one to run.
// Every other registered test is reported as skipped.
// It panics when called more than once.
func (r *Registry) RegisterOnly(t Test) {

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.hasOnly {
		panic(fmt.Sprintf("tapcheck: can only register one test with RegisterOnly, got a second one: '%s'", t.Name))
	}

	t.only = true
	t.Skip = false
	r.register(t)
	r.hasOnly = true
}

// BeforeAll sets the function run once before all tests. It overwrites any previous one.
func (r *Registry) BeforeAll(fn TestFunction) { r.setHook(&r.hooks.BeforeAll, fn) }

// AfterAll sets the function run once after all tests. It overwrites any previous one.
func (r *Registry) AfterAll(fn TestFunction) { r.setHook(&r.hooks.AfterAll, fn) }

// BeforeEach sets the function run before each test. It overwrites any previous one.
func (r *Registry) BeforeEach(fn TestFunction) { r.setHook(&r.hooks.BeforeEach, fn) }

// AfterEach sets the function run after each test. It overwrites any previous one.
func (r *Registry) AfterEach(fn TestFunction) { r.setHook(&r.hooks.AfterEach, fn) }

// Tests returns the registered tests in registration order.
func (r *Registry) Tests() TestSuite {

	r.lock.Lock()
	defer r.lock.Unlock()

	out := make(TestSuite, len(r.tests))
	copy(out, r.tests)

	return out
}

// freeze closes the registration phase and returns the registered hooks.
func (r *Registry) freeze() Hooks {

	r.lock.Lock()
	defer r.lock.Unlock()

	r.frozen = true

	return r.hooks
}

func (r *Registry) register(t Test) {

	if r.frozen {
		panic(fmt.Sprintf("tapcheck: unable to register test '%s': the run has already started", t.Name))
	}

	if t.Function == nil && !t.Skip {
		panic(fmt.Sprintf("tapcheck: test '%s' must supply a test function", t.Name))
	}

	r.tests = append(r.tests, t)
}

func (r *Registry) setHook(slot *TestFunction, fn TestFunction) {

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.frozen {
		panic("tapcheck: unable to register hook: the run has already started")
	}

	*slot = fn
}

var mainRegistry = NewRegistry()

// RegisterTest registers a test in the main registry.
func RegisterTest(t Test) { mainRegistry.Register(t) }

// RegisterSkipped registers a skipped test in the main registry.
func RegisterSkipped(t Test) { mainRegistry.RegisterSkipped(t) }

// RegisterOnly registers the only test to run in the main registry.
func RegisterOnly(t Test) { mainRegistry.RegisterOnly(t) }

// BeforeAll sets the BeforeAll hook of the main registry.
func BeforeAll(fn TestFunction) { mainRegistry.BeforeAll(fn) }

// AfterAll sets the AfterAll hook of the main registry.
func AfterAll(fn TestFunction) { mainRegistry.AfterAll(fn) }

// BeforeEach sets the BeforeEach hook of the main registry.
func BeforeEach(fn TestFunction) { mainRegistry.BeforeEach(fn) }

// AfterEach sets the AfterEach hook of the main registry.
func AfterEach(fn TestFunction) { mainRegistry.AfterEach(fn) }

// currentHooks returns the registered hooks without freezing the registry.
func (r *Registry) currentHooks() Hooks {

	r.lock.Lock()
	defer r.lock.Unlock()

	return r.hooks
}
