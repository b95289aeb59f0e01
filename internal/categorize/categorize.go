// Package categorize assigns a spending category to a movement description.
//
// The cascade is: keyword containment, then a fuzzy index over category
// names and keywords, then an optional external classifier. Anything left
// over is uncategorized.
package categorize

import (
	"context"
	"strings"
	"time"

	"github.com/nikolastas/logistis-sub000/internal/catalog"
	"github.com/nikolastas/logistis-sub000/internal/logger"
	"github.com/nikolastas/logistis-sub000/internal/textnorm"
)

const (
	DefaultThreshold       = 0.5
	DefaultExternalTimeout = 5 * time.Second

	minKeywordWord = 3
)

// Stage names the cascade step that produced a category.
type Stage string

const (
	StageKeyword  Stage = "keyword"
	StageFuzzy    Stage = "fuzzy"
	StageExternal Stage = "external"
	StageDefault  Stage = "default"
)

// External is an outside text classifier. It receives the normalized
// description and the closed list of ids it may answer with.
type External interface {
	Categorize(ctx context.Context, description string, categoryIDs []string) (string, error)
}

type keywordSet struct {
	categoryID string
	words      []string
}

// Categorizer maps descriptions to category ids. It is safe for concurrent use.
type Categorizer struct {
	catalog   *catalog.Catalog
	keywords  []keywordSet
	index     *Index
	threshold float64

	external External
	timeout  time.Duration
	allowed  []string
}

type Option func(*Categorizer)

// WithThreshold sets the fuzzy acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(c *Categorizer) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithExternal enables the external fallback, bounded by timeout.
func WithExternal(e External, timeout time.Duration) Option {
	return func(c *Categorizer) {
		c.external = e
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New builds a Categorizer over the assignable categories of cat.
func New(cat *catalog.Catalog, opts ...Option) *Categorizer {
	c := &Categorizer{
		catalog:   cat,
		threshold: DefaultThreshold,
		timeout:   DefaultExternalTimeout,
	}

	assignable := cat.Assignable()
	for _, category := range assignable {
		set := keywordSet{categoryID: category.ID}
		for _, k := range category.Keywords {
			set.words = append(set.words, textnorm.Words(k, minKeywordWord)...)
		}
		if len(set.words) > 0 {
			c.keywords = append(c.keywords, set)
		}
		c.allowed = append(c.allowed, category.ID)
	}
	c.allowed = append(c.allowed, catalog.Uncategorized)
	c.index = NewIndex(assignable)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categorize returns a category id for description. It always returns an id
// present in the catalog.
func (c *Categorizer) Categorize(ctx context.Context, description string) string {
	id, _ := c.Explain(ctx, description)
	return id
}

// Explain is Categorize that also reports the deciding stage.
func (c *Categorizer) Explain(ctx context.Context, description string) (string, Stage) {
	norm := textnorm.Normalize(description)
	if norm == "" {
		return catalog.Uncategorized, StageDefault
	}

	if id, ok := c.matchKeyword(norm); ok {
		return id, StageKeyword
	}
	if id, score, ok := c.index.Search(norm); ok && score < c.threshold {
		return id, StageFuzzy
	}
	if id, ok := c.ask(ctx, norm); ok {
		return id, StageExternal
	}
	return catalog.Uncategorized, StageDefault
}

func (c *Categorizer) matchKeyword(norm string) (string, bool) {
	for _, set := range c.keywords {
		for _, w := range set.words {
			if strings.Contains(norm, w) {
				return set.categoryID, true
			}
		}
	}
	return "", false
}

func (c *Categorizer) ask(ctx context.Context, norm string) (string, bool) {
	if c.external == nil {
		return "", false
	}
	log := logger.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type answer struct {
		reply string
		err   error
	}
	// buffered: a late reply after the timeout must not block the sender
	ch := make(chan answer, 1)
	go func() {
		reply, err := c.external.Categorize(ctx, norm, c.allowed)
		ch <- answer{reply, err}
	}()

	var reply string
	var err error
	select {
	case a := <-ch:
		reply, err = a.reply, a.err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		log.Warn().Err(err).Str("description", norm).Msg("external categorizer failed")
		return "", false
	}

	id := cleanReply(reply)
	if id == catalog.Uncategorized {
		return "", false
	}
	if cat, ok := c.catalog.Get(id); !ok || cat.Reserved {
		log.Warn().Str("reply", reply).Msg("external categorizer answered outside the catalog")
		return "", false
	}
	return id, true
}

func cleanReply(reply string) string {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "Category:")
	return strings.ToLower(strings.Trim(s, " \t\r\n\"'`."))
}

// Categories exposes the ids the categorizer can produce.
func (c *Categorizer) Categories() []string {
	return c.allowed
}

// Catalog returns the catalog the categorizer was built from.
func (c *Categorizer) Catalog() *catalog.Catalog {
	return c.catalog
}
