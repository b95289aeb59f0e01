// Package pipeline turns a statement file into classified, categorized
// movements ready to persist.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolastas/logistis-sub000/internal/categorize"
	"github.com/nikolastas/logistis-sub000/internal/classify"
	"github.com/nikolastas/logistis-sub000/internal/logger"
	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/parser"
)

// Result is one processed statement.
type Result struct {
	Bank      string                     `json:"bank"`
	Adapter   string                     `json:"adapter"`
	Movements []models.ProcessedMovement `json:"movements"`
}

// Summary counts movements per transfer type.
func (r *Result) Summary() map[models.TransferType]int {
	counts := make(map[models.TransferType]int)
	for _, m := range r.Movements {
		counts[m.Transfer.TransferType]++
	}
	return counts
}

// Pipeline holds the read-only collaborators of a run. It keeps no state
// between calls and may be shared across goroutines.
type Pipeline struct {
	registry    *parser.Registry
	categorizer *categorize.Categorizer
	rules       []classify.Rule
}

func New(registry *parser.Registry, categorizer *categorize.Categorizer) *Pipeline {
	return &Pipeline{
		registry:    registry,
		categorizer: categorizer,
		rules:       classify.DefaultRules,
	}
}

// Process detects the format of data, parses it and classifies every row.
// hint may name an adapter or a MIME type. Output order is input row order.
// The only error is an undecodable container, wrapping parser.ErrMalformedInput.
func (p *Pipeline) Process(ctx context.Context, data []byte, hint string, members []models.HouseholdMember) (*Result, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	adapter := p.registry.Detect(data, hint)
	log.Debug().Str("adapter", adapter.Name()).Str("hint", hint).Int("bytes", len(data)).Msg("format detected")

	raws, err := adapter.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", adapter.Name(), err)
	}
	log.Debug().Str("adapter", adapter.Name()).Int("rows", len(raws)).Msg("statement parsed")

	result := &Result{
		Bank:      adapter.Bank(),
		Adapter:   adapter.Name(),
		Movements: make([]models.ProcessedMovement, 0, len(raws)),
	}
	for _, raw := range raws {
		result.Movements = append(result.Movements, p.processOne(ctx, raw, members))
	}

	summary := result.Summary()
	log.Info().
		Str("bank", result.Bank).
		Str("adapter", result.Adapter).
		Int("movements", len(result.Movements)).
		Int("own_account", summary[models.TransferOwnAccount]).
		Int("household_member", summary[models.TransferHouseholdMember]).
		Int("third_party", summary[models.TransferThirdParty]).
		Dur("elapsed", time.Since(start)).
		Msg("statement processed")
	return result, nil
}

func (p *Pipeline) processOne(ctx context.Context, raw models.RawMovement, members []models.HouseholdMember) models.ProcessedMovement {
	pm := models.ProcessedMovement{
		RawMovement: raw,
		Transfer:    classify.ClassifyWith(p.rules, raw, members),
	}
	if pm.Transfer.TransferType != models.TransferNone {
		pm.CategoryID = pm.Transfer.CategoryID
		return pm
	}
	pm.CategoryID = p.categorizer.Categorize(ctx, raw.Description)
	return pm
}
