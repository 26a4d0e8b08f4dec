package model

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Brownie44l1/plant-disease-api/internal/failure"
	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

type stubClassifier struct {
	width  int
	closed atomic.Bool
}

func (s *stubClassifier) Predict(input []float32) ([]float32, error) {
	return make([]float32, s.width), nil
}

func (s *stubClassifier) OutputWidth() int { return s.width }

func (s *stubClassifier) Close() error {
	s.closed.Store(true)
	return nil
}

type countingOpener struct {
	calls atomic.Int32
	delay time.Duration
	err   error
}

func (o *countingOpener) open(p registry.Profile) (Classifier, error) {
	o.calls.Add(1)
	if o.delay > 0 {
		time.Sleep(o.delay)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &stubClassifier{width: p.ClassCount()}, nil
}

func newTestLoader(t *testing.T, o *countingOpener) *Loader {
	t.Helper()
	return NewLoader(registry.Builtin(t.TempDir()), o.open, zaptest.NewLogger(t))
}

func TestLoadCachesClassifier(t *testing.T) {
	o := &countingOpener{}
	l := newTestLoader(t, o)

	first, err := l.Load("potato")
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := l.Load("potato")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first != second {
		t.Fatal("Load returned a different instance on cache hit")
	}
	if got := o.calls.Load(); got != 1 {
		t.Fatalf("opener called %d times, want 1", got)
	}
	if first.OutputWidth() != 3 {
		t.Fatalf("OutputWidth = %d, want 3", first.OutputWidth())
	}
}

func TestLoadConcurrentFirstUseOpensOnce(t *testing.T) {
	o := &countingOpener{delay: 20 * time.Millisecond}
	l := newTestLoader(t, o)

	const callers = 16
	results := make([]Classifier, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := l.Load("cotton")
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			results[i] = c
		}(i)
	}
	wg.Wait()

	if got := o.calls.Load(); got != 1 {
		t.Fatalf("opener called %d times, want 1", got)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatalf("caller %d got a different classifier", i)
		}
	}
}

func TestLoadUnknownSpeciesLeavesCacheUntouched(t *testing.T) {
	o := &countingOpener{}
	l := newTestLoader(t, o)

	_, err := l.Load("wheat")
	if !failure.Is(err, failure.KindNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
	if l.Len() != 0 {
		t.Fatalf("cache has %d entries, want 0", l.Len())
	}
	if o.calls.Load() != 0 {
		t.Fatal("opener was called for an unknown species")
	}
}

func TestLoadFailureIsNotCached(t *testing.T) {
	o := &countingOpener{err: errors.New("incompatible format")}
	l := newTestLoader(t, o)

	for i := 0; i < 2; i++ {
		_, err := l.Load("tomato")
		if !failure.Is(err, failure.KindLoad) {
			t.Fatalf("attempt %d: err = %v, want load_error", i, err)
		}
	}
	if l.Len() != 0 {
		t.Fatalf("cache has %d entries after failed loads", l.Len())
	}
	if got := o.calls.Load(); got != 2 {
		t.Fatalf("opener called %d times, want 2", got)
	}
}

func TestOpenONNXMissingFile(t *testing.T) {
	l := NewLoader(registry.Builtin(t.TempDir()), OpenONNX, zaptest.NewLogger(t))
	_, err := l.Load("potato")
	if !failure.Is(err, failure.KindLoad) {
		t.Fatalf("err = %v, want load_error", err)
	}
}

func TestLoadedAndClose(t *testing.T) {
	o := &countingOpener{}
	l := newTestLoader(t, o)

	potato, err := l.Load("potato")
	if err != nil {
		t.Fatal(err)
	}
	tomato, err := l.Load("tomato")
	if err != nil {
		t.Fatal(err)
	}

	loaded := l.Loaded()
	if len(loaded) != 2 || loaded[0] != registry.Tomato || loaded[1] != registry.Potato {
		t.Fatalf("Loaded() = %v", loaded)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !potato.(*stubClassifier).closed.Load() || !tomato.(*stubClassifier).closed.Load() {
		t.Fatal("Close did not release every classifier")
	}
	if l.Len() != 0 {
		t.Fatalf("cache has %d entries after Close", l.Len())
	}
}
