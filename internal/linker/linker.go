// Package linker pairs the two legs of own-account transfers inside one
// household.
package linker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nikolastas/logistis-sub000/internal/catalog"
	"github.com/nikolastas/logistis-sub000/internal/logger"
	"github.com/nikolastas/logistis-sub000/internal/models"
)

const (
	DefaultWindowDays = 2
	dateLayout        = "2006-01-02"
)

// DefaultTolerance is the largest accepted gap between a leg and the
// negation of its counterpart.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Store is the persistence the linker reads candidates from and writes
// pairings to.
type Store interface {
	// UnlinkedOwnAccount returns the household's own_account movements that
	// have no linked counterpart yet.
	UnlinkedOwnAccount(ctx context.Context, householdID string) ([]models.StoredMovement, error)
	// MarkLinked links a and b to each other, excludes both from analytics
	// and sets their category.
	MarkLinked(ctx context.Context, a, b, categoryID string) error
	// MarkAwaiting excludes an unpaired leg from analytics and sets its category.
	MarkAwaiting(ctx context.Context, id, categoryID string) error
}

// Linker runs pairing passes. Passes for the same household are serialized.
type Linker struct {
	store     Store
	window    int
	tolerance decimal.Decimal
	locks     sync.Map // household id -> *sync.Mutex
}

type Option func(*Linker)

// WithWindow sets how many calendar days apart two legs may be.
func WithWindow(days int) Option {
	return func(l *Linker) {
		if days >= 0 {
			l.window = days
		}
	}
}

// WithTolerance sets the accepted amount mismatch.
func WithTolerance(t decimal.Decimal) Option {
	return func(l *Linker) {
		if !t.IsNegative() {
			l.tolerance = t
		}
	}
}

func New(store Store, opts ...Option) *Linker {
	l := &Linker{
		store:     store,
		window:    DefaultWindowDays,
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Linker) lock(householdID string) func() {
	mu, _ := l.locks.LoadOrStore(householdID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

type candidate struct {
	models.StoredMovement
	day   time.Time
	dated bool
}

// Link pairs unlinked own-account legs of a household and returns how many
// movements were newly linked; each pair counts two. Matching is greedy in
// ascending date order: the first counterpart inside the window whose
// amount negates the current one wins.
func (l *Linker) Link(ctx context.Context, householdID string) (int, error) {
	unlock := l.lock(householdID)
	defer unlock()

	log := logger.FromContext(ctx).With().Str("household", householdID).Logger()

	movements, err := l.store.UnlinkedOwnAccount(ctx, householdID)
	if err != nil {
		return 0, fmt.Errorf("loading own-account movements: %w", err)
	}

	candidates := make([]candidate, len(movements))
	for i, m := range movements {
		day, err := time.Parse(dateLayout, m.Date)
		candidates[i] = candidate{StoredMovement: m, day: day, dated: err == nil}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Date < candidates[j].Date
	})

	consumed := make(map[string]bool, len(candidates))
	linked := 0

	for i := range candidates {
		current := candidates[i]
		if consumed[current.ID] {
			continue
		}

		match := -1
		if current.dated && !current.Amount.IsZero() {
			for j := range candidates {
				if j == i || consumed[candidates[j].ID] {
					continue
				}
				if l.pairs(current, candidates[j]) {
					match = j
					break
				}
			}
		}

		if match < 0 {
			if !current.ExcludeFromAnalytics || current.CategoryID != catalog.OwnAccount {
				if err := l.store.MarkAwaiting(ctx, current.ID, catalog.OwnAccount); err != nil {
					return linked, fmt.Errorf("marking %s awaiting: %w", current.ID, err)
				}
			}
			continue
		}

		other := candidates[match]
		if err := l.store.MarkLinked(ctx, current.ID, other.ID, catalog.OwnAccount); err != nil {
			return linked, fmt.Errorf("linking %s and %s: %w", current.ID, other.ID, err)
		}
		consumed[current.ID] = true
		consumed[other.ID] = true
		linked += 2
		log.Debug().Str("a", current.ID).Str("b", other.ID).Str("amount", current.Amount.String()).Msg("linked own-account legs")
	}

	log.Info().Int("linked", linked).Int("candidates", len(candidates)).Msg("own-account linking finished")
	return linked, nil
}

func (l *Linker) pairs(a, b candidate) bool {
	if !b.dated || b.HouseholdID != a.HouseholdID {
		return false
	}
	days := int(b.day.Sub(a.day).Hours() / 24)
	if days < 0 {
		days = -days
	}
	if days > l.window {
		return false
	}
	return a.Amount.Add(b.Amount).Abs().LessThanOrEqual(l.tolerance)
}
