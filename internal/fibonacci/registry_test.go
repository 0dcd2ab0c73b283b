package fibonacci

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/agbru/fibdrv/internal/bignum"
)

// mockCoreCalculator is a simple implementation of coreCalculator for testing.
type mockCoreCalculator struct{}

func (m *mockCoreCalculator) Name() string { return "mock" }
func (m *mockCoreCalculator) CalculateCore(ctx context.Context, reporter ProgressReporter, n uint64, opts Options) (*bignum.Int, error) {
	return bignum.New(), nil
}

func TestDefaultFactory(t *testing.T) {
	t.Parallel()
	factory := NewDefaultFactory()

	if got := factory.List(); !slices.Equal(got, []string{"fast", "linear"}) {
		t.Errorf("default List() = %v", got)
	}

	t.Run("RegisterAndHas", func(t *testing.T) {
		if err := factory.Register("test", func() coreCalculator { return &mockCoreCalculator{} }); err != nil {
			t.Fatal(err)
		}
		if !factory.Has("test") {
			t.Error("Factory should have 'test' calculator")
		}
		if factory.Has("nonexistent") {
			t.Error("Factory should not have 'nonexistent' calculator")
		}
		if err := factory.Register("", nil); err == nil {
			t.Error("Register should reject an empty name")
		}
	})

	t.Run("GetCaches", func(t *testing.T) {
		calc1, err := factory.Get("test")
		if err != nil {
			t.Fatal(err)
		}
		calc2, _ := factory.Get("test")
		if calc1 != calc2 {
			t.Error("Get should return cached instance")
		}
		fresh, err := factory.Create("test")
		if err != nil {
			t.Fatal(err)
		}
		if fresh == calc1 {
			t.Error("Create should not return the cached instance")
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		var unknown *UnknownCalculatorError
		if _, err := factory.Get("nonexistent"); !errors.As(err, &unknown) || unknown.Name != "nonexistent" {
			t.Errorf("Get error = %v", err)
		}
		if _, err := factory.Create("nonexistent"); err == nil {
			t.Error("Create should fail for nonexistent calculator")
		}
	})

	t.Run("MustGet", func(t *testing.T) {
		_ = factory.MustGet("test")
		defer func() {
			if recover() == nil {
				t.Error("MustGet should have panicked for nonexistent calculator")
			}
		}()
		_ = factory.MustGet("nonexistent")
	})

	t.Run("GetAll", func(t *testing.T) {
		all := factory.GetAll()
		for _, name := range []string{"fast", "linear", "test"} {
			if _, ok := all[name]; !ok {
				t.Errorf("GetAll missing %q", name)
			}
		}
	})
}

func TestGlobalFactory(t *testing.T) {
	t.Parallel()
	f := GlobalFactory()
	if f == nil {
		t.Fatal("GlobalFactory returned nil")
	}
	if !f.Has("fast") || !f.Has("linear") {
		t.Errorf("global factory missing default engines: %v", f.List())
	}
	if err := RegisterCalculator("global_test", func() coreCalculator { return &mockCoreCalculator{} }); err != nil {
		t.Fatal(err)
	}
	if !f.Has("global_test") {
		t.Error("Global factory should have 'global_test' calculator")
	}
}
