package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Brownie44l1/plant-disease-api/internal/failure"
	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

// Opener turns a species profile into a ready classifier.
type Opener func(profile registry.Profile) (Classifier, error)

// OpenONNX is the production Opener.
func OpenONNX(profile registry.Profile) (Classifier, error) {
	if _, err := os.Stat(profile.ModelPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("model file %s does not exist", profile.ModelPath)
		}
		return nil, fmt.Errorf("model file %s is unreadable: %w", profile.ModelPath, err)
	}
	return NewONNXClassifier(profile.ModelPath)
}

// Loader caches one classifier per species for the life of the process.
// Concurrent first loads of the same species share a single open.
type Loader struct {
	registry *registry.Registry
	open     Opener
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[registry.Species]Classifier
	group singleflight.Group
}

func NewLoader(reg *registry.Registry, open Opener, logger *zap.Logger) *Loader {
	return &Loader{
		registry: reg,
		open:     open,
		logger:   logger,
		cache:    make(map[registry.Species]Classifier),
	}
}

func (l *Loader) Load(id string) (Classifier, error) {
	profile, err := l.registry.Resolve(id)
	if err != nil {
		return nil, err
	}

	if c, ok := l.cached(profile.ID); ok {
		return c, nil
	}

	v, err, _ := l.group.Do(string(profile.ID), func() (any, error) {
		if c, ok := l.cached(profile.ID); ok {
			return c, nil
		}

		l.logger.Info("Loading model",
			zap.String("species", string(profile.ID)),
			zap.String("path", profile.ModelPath))

		c, err := l.open(profile)
		if err != nil {
			return nil, failure.New(failure.KindLoad, "model.Load",
				fmt.Errorf("load %s model: %w", profile.ID, err))
		}

		if c.OutputWidth() != profile.ClassCount() {
			l.logger.Warn("Model output width does not match label table",
				zap.String("species", string(profile.ID)),
				zap.Int("output_width", c.OutputWidth()),
				zap.Int("labels", profile.ClassCount()))
		}

		l.mu.Lock()
		l.cache[profile.ID] = c
		l.mu.Unlock()
		return c, nil
	})
	if err != nil {
		l.logger.Error("Model load failed", zap.String("species", string(profile.ID)), zap.Error(err))
		return nil, err
	}
	return v.(Classifier), nil
}

func (l *Loader) cached(id registry.Species) (Classifier, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.cache[id]
	return c, ok
}

// Loaded lists species whose classifier is already cached.
func (l *Loader) Loaded() []registry.Species {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []registry.Species
	for _, id := range l.registry.Species() {
		if _, ok := l.cache[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

// Close releases every cached classifier. The loader must not be used afterwards.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for id, c := range l.cache {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s model: %w", id, err))
		}
		delete(l.cache, id)
	}
	return errors.Join(errs...)
}
