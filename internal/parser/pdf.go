package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nikolastas/logistis-sub000/internal/extractor"
	"github.com/nikolastas/logistis-sub000/internal/models"
)

// GenericPDFAdapter recovers (date, description, amount) triples from any
// text-based PDF statement using line heuristics. Lines it cannot read with
// confidence are dropped.
//
// Typical lines:
//
//	10/03/2024 ΑΓΟΡΑ ΣΚΛΑΒΕΝΙΤΗΣ 45,90 1.204,10
//	11/03/2024 11/03/2024 SALARY MARCH 1.500,00 CR 2.704,10
//	12/03/2024 ATM WITHDRAWAL (60,00)
type GenericPDFAdapter struct{}

func NewGenericPDFAdapter() *GenericPDFAdapter { return &GenericPDFAdapter{} }

func (a *GenericPDFAdapter) Name() string { return "generic-pdf" }
func (a *GenericPDFAdapter) Bank() string { return "unknown" }
func (a *GenericPDFAdapter) Kind() Kind   { return KindPDF }

func (a *GenericPDFAdapter) Parse(data []byte) ([]models.RawMovement, error) {
	pages, err := extractor.Pages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return a.parsePages(pages), nil
}

// amountToken matches a whole field holding a money amount with two decimals,
// optionally signed or parenthesized.
var amountToken = regexp.MustCompile(`^\(?[-+\x{2212}]?(?:\d{1,3}(?:[.,]\d{3})+|\d+)[.,]\d{2}\)?-?(?:€|EUR)?$`)

func (a *GenericPDFAdapter) parsePages(pages []string) []models.RawMovement {
	var out []models.RawMovement
	for _, page := range pages {
		lastParsed := false
		for _, line := range strings.Split(page, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || isSummaryLine(line) {
				lastParsed = false
				continue
			}

			m, ok := parsePDFLine(line)
			if ok {
				out = append(out, m)
				lastParsed = true
				continue
			}

			// Wrapped descriptions continue on the next line without a date.
			if lastParsed && !leadingDatePattern.MatchString(line) && !containsAmount(line) {
				last := &out[len(out)-1]
				last.Description += " " + line
				continue
			}
			lastParsed = false
		}
	}
	return out
}

func parsePDFLine(line string) (models.RawMovement, bool) {
	m := leadingDatePattern.FindStringSubmatch(line)
	if m == nil {
		return models.RawMovement{}, false
	}
	date, ok := normalizeDate(m[1])
	if !ok {
		return models.RawMovement{}, false
	}

	fields := strings.Fields(strings.TrimSpace(line[len(m[0]):]))
	// A second leading date is the value date.
	if len(fields) > 0 {
		if _, isDate := normalizeDate(fields[0]); isDate {
			fields = fields[1:]
		}
	}

	amountAt := -1
	for i, f := range fields {
		if amountToken.MatchString(f) {
			amountAt = i
			break
		}
	}
	if amountAt <= 0 {
		// no amount, or no description before it
		return models.RawMovement{}, false
	}

	amount, ok := parseAmount(fields[amountAt])
	if !ok {
		return models.RawMovement{}, false
	}
	desc := strings.Join(fields[:amountAt], " ")

	explicit := amount.IsNegative() || strings.HasSuffix(fields[amountAt], "-")
	if amountAt+1 < len(fields) {
		switch directionOf(fields[amountAt+1]) {
		case -1:
			amount = amount.Abs().Neg()
			explicit = true
		case 1:
			explicit = true
		}
	}
	if !explicit && isDebitDescription(desc) {
		amount = amount.Abs().Neg()
	}

	return models.RawMovement{
		Date:        date,
		Description: desc,
		Amount:      amount,
		RawData:     map[string]string{"line": line},
	}, true
}

func containsAmount(line string) bool {
	for _, f := range strings.Fields(line) {
		if amountToken.MatchString(f) {
			return true
		}
	}
	return false
}

var debitKeywords = []string{
	"card payment", "direct debit", "payment", "withdrawal", "purchase", "fee", "charge", "pos ", "atm ",
	"αγορα", "αγορά", "πληρωμη", "πληρωμή", "αναληψη", "ανάληψη", "χρεωση", "χρέωση", "προμηθεια", "προμήθεια",
}

func isDebitDescription(desc string) bool {
	lower := strings.ToLower(desc) + " "
	for _, kw := range debitKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var summaryKeywords = []string{
	"opening balance", "closing balance", "balance brought forward", "balance carried forward",
	"total paid", "total debits", "total credits", "totals", "page ", "continued", "statement period",
	"υπόλοιπο", "υπολοιπο", "σύνολο", "συνολο", "σελίδα", "σελιδα", "από μεταφορά", "σε μεταφορά",
}

func isSummaryLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range summaryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
