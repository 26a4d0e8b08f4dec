package cli

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Brownie44l1/plant-disease-api/internal/config"
	"github.com/Brownie44l1/plant-disease-api/internal/explain"
	"github.com/Brownie44l1/plant-disease-api/internal/history"
	"github.com/Brownie44l1/plant-disease-api/internal/model"
	"github.com/Brownie44l1/plant-disease-api/internal/pipeline"
	"github.com/Brownie44l1/plant-disease-api/internal/predict"
	"github.com/Brownie44l1/plant-disease-api/internal/registry"
)

// app holds the wired pipeline shared by the serve and predict commands.
type app struct {
	registry *registry.Registry
	loader   *model.Loader
	history  *history.Store
	service  *pipeline.Service
	closeFns []func() error
}

func newApp(cfg *config.Config, logger *zap.Logger, open model.Opener, withHistory bool) (*app, error) {
	a := &app{registry: registry.Builtin(cfg.Models.Dir)}
	a.loader = model.NewLoader(a.registry, open, logger)
	a.closeFns = append(a.closeFns, a.loader.Close)

	var rec pipeline.Recorder
	if withHistory && cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.history = store
		a.closeFns = append(a.closeFns, store.Close)
		rec = store
	}

	a.service = pipeline.New(a.registry, predict.New(a.registry, a.loader, logger), explain.Builtin(), rec, logger)
	return a, nil
}

// preload eagerly opens the configured species so the first request does not
// pay the load cost. A failing species does not stop the rest from loading.
func (a *app) preload(species []string) error {
	var errs []error
	for _, s := range species {
		if _, err := a.loader.Load(s); err != nil {
			errs = append(errs, fmt.Errorf("preload %s: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		if err := a.closeFns[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func startRuntime(cfg *config.Config) (func(), error) {
	if err := model.InitRuntime(cfg.Models.SharedLibrary); err != nil {
		return nil, err
	}
	return func() { model.ShutdownRuntime() }, nil
}
