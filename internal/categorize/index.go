package categorize

import (
	"strings"
	"unicode/utf8"

	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/textnorm"
)

const (
	// entries shorter than this are only ever matched by the keyword stage
	minFuzzyEntry = 6
	// entries shorter than this tolerate a single edit, longer ones two
	longFuzzyEntry = 8
)

type indexEntry struct {
	categoryID string
	text       string
	width      int
	maxEdits   int
}

// Index is a fuzzy search index over category names and keyword phrases.
type Index struct {
	entries []indexEntry
}

// NewIndex indexes categories in order.
func NewIndex(categories []models.Category) *Index {
	idx := &Index{}
	for _, cat := range categories {
		idx.add(cat.ID, cat.Name)
		for _, k := range cat.Keywords {
			idx.add(cat.ID, k)
		}
	}
	return idx
}

func (idx *Index) add(id, phrase string) {
	text := textnorm.Normalize(phrase)
	n := utf8.RuneCountInString(text)
	if n < minFuzzyEntry {
		return
	}
	maxEdits := 1
	if n >= longFuzzyEntry {
		maxEdits = 2
	}
	idx.entries = append(idx.entries, indexEntry{
		categoryID: id,
		text:       text,
		width:      len(strings.Fields(text)),
		maxEdits:   maxEdits,
	})
}

// Search returns the best scoring category for description. Scores run from
// 0 (exact) to 1; earlier entries win ties.
func (idx *Index) Search(description string) (id string, score float64, ok bool) {
	norm := textnorm.Normalize(description)
	if norm == "" {
		return "", 1, false
	}
	words := strings.Fields(norm)

	score = 1
	for _, e := range idx.entries {
		s := e.score(norm, words)
		if s < score {
			id, score, ok = e.categoryID, s, true
		}
		if score == 0 {
			break
		}
	}
	return id, score, ok
}

// score is the smallest relative distance between the entry and any run of
// the same number of description words. Windows more than maxEdits away
// score 1.
func (e indexEntry) score(norm string, words []string) float64 {
	if strings.Contains(norm, e.text) {
		return 0
	}
	if len(words) < e.width {
		return e.distance(norm)
	}
	best := 1.0
	for i := 0; i+e.width <= len(words); i++ {
		window := strings.Join(words[i:i+e.width], " ")
		if d := e.distance(window); d < best {
			best = d
		}
	}
	return best
}

func (e indexEntry) distance(s string) float64 {
	if textnorm.Distance(s, e.text) > e.maxEdits {
		return 1
	}
	return textnorm.RelativeDistance(s, e.text)
}
