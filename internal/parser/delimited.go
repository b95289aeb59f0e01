package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

// DelimitedAdapter reads generic delimited exports (CSV, semicolon, tab or
// pipe separated). It is the fallback when no other adapter claims a file.
type DelimitedAdapter struct {
	name   string
	bank   string
	comma  rune // 0 sniffs the delimiter
	layout tableLayout
}

// NewDelimitedAdapter returns the default delimited-text adapter.
func NewDelimitedAdapter() *DelimitedAdapter {
	return &DelimitedAdapter{name: "generic-csv", bank: "unknown"}
}

func (a *DelimitedAdapter) Name() string { return a.name }
func (a *DelimitedAdapter) Bank() string { return a.bank }
func (a *DelimitedAdapter) Kind() Kind   { return KindText }

// Parse decodes data and maps its rows onto movements. Text always decodes,
// so this adapter only ever returns an empty result for unrelated input.
func (a *DelimitedAdapter) Parse(data []byte) ([]models.RawMovement, error) {
	text := decodeText(data)
	comma := a.comma
	if comma == 0 {
		comma = sniffDelimiter(text)
	}
	return a.layout.movements(readRecords(text, comma)), nil
}

// readRecords reads every record it can, skipping ones with quoting errors.
func readRecords(text string, comma rune) [][]string {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			break
		}
		rows = append(rows, rec)
	}
	return rows
}

var candidateDelimiters = []rune{';', ',', '\t', '|'}

// sniffDelimiter picks the candidate that appears the same non-zero number
// of times on the most leading lines, preferring the higher count.
func sniffDelimiter(text string) rune {
	lines := strings.Split(text, "\n")
	if len(lines) > 20 {
		lines = lines[:20]
	}

	best, bestScore := ',', 0
	for _, d := range candidateDelimiters {
		counts := map[int]int{}
		for _, line := range lines {
			if n := strings.Count(line, string(d)); n > 0 {
				counts[n]++
			}
		}
		for n, hits := range counts {
			score := hits*100 + n
			if score > bestScore {
				best, bestScore = d, score
			}
		}
	}
	return best
}
