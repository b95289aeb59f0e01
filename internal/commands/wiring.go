package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nikolastas/logistis-sub000/internal/catalog"
	"github.com/nikolastas/logistis-sub000/internal/categorize"
	"github.com/nikolastas/logistis-sub000/internal/linker"
	"github.com/nikolastas/logistis-sub000/internal/parser"
	"github.com/nikolastas/logistis-sub000/internal/pipeline"
	"github.com/nikolastas/logistis-sub000/internal/store"
)

func (a *app) catalog() (*catalog.Catalog, error) {
	if a.cfg.CatalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(a.cfg.CatalogFile)
}

func (a *app) directory(override string) (*catalog.Directory, error) {
	path := a.cfg.HouseholdFile
	if override != "" {
		path = override
	}
	return catalog.LoadDirectory(path)
}

// categorizer builds the cascade. The Gemini fallback is attached only when
// it is enabled and a key is available.
func (a *app) categorizer(ctx context.Context) (*categorize.Categorizer, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}

	opts := []categorize.Option{categorize.WithThreshold(a.cfg.Categorizer.FuzzyThreshold)}

	ext := a.cfg.Categorizer.External
	switch {
	case ext.Enabled && ext.APIKey == "":
		a.log.Warn().Msg("external categorizer enabled but no API key set; continuing without it")
	case ext.Enabled:
		gemini, err := categorize.NewGeminiClassifier(ctx, ext.APIKey, ext.Model)
		if err != nil {
			return nil, fmt.Errorf("creating external categorizer: %w", err)
		}
		opts = append(opts, categorize.WithExternal(gemini, ext.Timeout))
		a.log.Debug().Str("model", ext.Model).Msg("external categorizer enabled")
	}

	return categorize.New(cat, opts...), nil
}

func (a *app) pipeline(ctx context.Context) (*pipeline.Pipeline, *parser.Registry, error) {
	c, err := a.categorizer(ctx)
	if err != nil {
		return nil, nil, err
	}
	registry := parser.DefaultRegistry()
	return pipeline.New(registry, c), registry, nil
}

func (a *app) openStore() (*store.Store, error) {
	s, err := store.Open(a.cfg.Database)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("database", a.cfg.Database).Msg("database opened")
	return s, nil
}

func (a *app) linker(s linker.Store) *linker.Linker {
	return linker.New(s,
		linker.WithWindow(a.cfg.Linker.WindowDays),
		linker.WithTolerance(decimal.NewFromFloat(a.cfg.Linker.Tolerance)),
	)
}
