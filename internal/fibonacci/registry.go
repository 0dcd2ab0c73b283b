package fibonacci

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and caches Calculator instances by name.
type CalculatorFactory interface {
	// Create returns a fresh Calculator for name.
	Create(name string) (Calculator, error)
	// Get returns the cached Calculator for name, creating it on first use.
	Get(name string) (Calculator, error)
	// List returns the registered names, sorted.
	List() []string
	// Register adds or replaces the engine registered under name.
	Register(name string, creator func() coreCalculator) error
	// GetAll returns every registered Calculator.
	GetAll() map[string]Calculator
}

// DefaultFactory is the thread-safe CalculatorFactory used by the
// application.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreCalculator
	calculators map[string]Calculator
}

// NewDefaultFactory creates a DefaultFactory with the standard engines
// registered:
//   - "linear": LinearCalculator
//   - "fast": FastDoublingCalculator
//
// Builds with the gmp tag add "gmp".
//
// Returns:
//   - *DefaultFactory: A new factory with default calculators registered.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreCalculator),
		calculators: make(map[string]Calculator),
	}
	_ = f.Register("linear", func() coreCalculator { return &LinearCalculator{} })
	_ = f.Register("fast", func() coreCalculator { return &FastDoublingCalculator{} })
	return f
}

// Register adds a calculator creator. The creator is called lazily. An
// existing registration under the same name is replaced and its cached
// instance dropped.
//
// Parameters:
//   - name: The unique identifier for the calculator type.
//   - creator: A function that creates a new coreCalculator instance.
//
// Returns:
//   - error: An error if name is empty or creator is nil.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	if name == "" || creator == nil {
		return fmt.Errorf("fibonacci: invalid registration %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.calculators, name)
	return nil
}

// Create returns a new, uncached Calculator instance.
func (f *DefaultFactory) Create(name string) (Calculator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return NewCalculator(creator()), nil
}

// Get returns the cached Calculator for name.
//
// Parameters:
//   - name: The name of the calculator to retrieve.
//
// Returns:
//   - Calculator: The Calculator instance.
//   - error: An *UnknownCalculatorError if name is not registered.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	calc, ok := f.calculators[name]
	f.mu.RUnlock()
	if ok {
		return calc, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if calc, ok := f.calculators[name]; ok {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	calc = NewCalculator(creator())
	f.calculators[name] = calc
	return calc, nil
}

// List returns the registered calculator names in alphabetical order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll instantiates every registered calculator and returns a copy of the
// name to Calculator map.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, creator := range f.creators {
		if _, ok := f.calculators[name]; !ok {
			f.calculators[name] = NewCalculator(creator())
		}
	}
	out := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		out[name] = calc
	}
	return out
}

// MustGet is like Get but panics if name is not registered.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("fibonacci: required calculator not found: %s", name))
	}
	return calc
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterCalculator registers an engine in the global factory.
func RegisterCalculator(name string, creator func() coreCalculator) error {
	return globalFactory.Register(name, creator)
}

// UnknownCalculatorError is returned when a calculator name is not found.
type UnknownCalculatorError struct {
	Name string
}

func (e *UnknownCalculatorError) Error() string {
	return "unknown calculator: " + e.Name
}
