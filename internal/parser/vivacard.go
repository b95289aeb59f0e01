package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nikolastas/logistis-sub000/internal/extractor"
	"github.com/nikolastas/logistis-sub000/internal/models"
)

// VivaCardAdapter parses Viva Wallet card statements. Every transaction is a
// single line:
//
//	**** **** **** 1234 SKROUTZ.GR COMPLETED -45,90 10/03/2024 14:22
//
// The statement has no transaction identifiers, so each row gets a reference
// hashed from its content and position in the file. Identical consecutive
// transactions therefore differ only by position.
type VivaCardAdapter struct{}

func NewVivaCardAdapter() *VivaCardAdapter { return &VivaCardAdapter{} }

func (a *VivaCardAdapter) Name() string { return "viva-card-pdf" }
func (a *VivaCardAdapter) Bank() string { return "viva" }
func (a *VivaCardAdapter) Kind() Kind   { return KindPDF }

var vivaLinePattern = regexp.MustCompile(`(?i)^` +
	`((?:\*{4}\s?){3}\d{4}|\d{4}\s?(?:\*{4}\s?){2}\d{4}|\d{6}\*{6}\d{4})\s+` + // masked card
	`(.+?)\s+` + // merchant
	`(COMPLETED|PENDING|DECLINED|REVERSED|REFUNDED|ΟΛΟΚΛΗΡΩΜΕΝΗ|ΣΕ ΕΚΚΡΕΜΟΤΗΤΑ|ΑΠΟΡΡΙΦΘΗΚΕ|ΑΚΥΡΩΜΕΝΗ)\s+` +
	`([-+\x{2212}]?\d[\d.,]*)\s*(?:€|EUR)?\s+` + // signed amount
	`(\d{2}/\d{2}/\d{4})\s+` +
	`(\d{2}:\d{2}(?::\d{2})?)$`)

// Statuses for card attempts that never moved money.
var vivaSkippedStatuses = map[string]bool{
	"DECLINED":    true,
	"REVERSED":    true,
	"ΑΠΟΡΡΙΦΘΗΚΕ": true,
	"ΑΚΥΡΩΜΕΝΗ":   true,
}

func (a *VivaCardAdapter) Detect(sample string) bool {
	for _, line := range strings.Split(sample, "\n") {
		if vivaLinePattern.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func (a *VivaCardAdapter) Parse(data []byte) ([]models.RawMovement, error) {
	pages, err := extractor.Pages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return a.parsePages(pages), nil
}

func (a *VivaCardAdapter) parsePages(pages []string) []models.RawMovement {
	var out []models.RawMovement
	for _, page := range pages {
		for _, line := range strings.Split(page, "\n") {
			m := vivaLinePattern.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			card, merchant, status := m[1], strings.TrimSpace(m[2]), strings.ToUpper(m[3])
			if vivaSkippedStatuses[status] {
				continue
			}
			date, ok := normalizeDate(m[5])
			if !ok {
				continue
			}
			amount, ok := parseAmount(m[4])
			if !ok {
				continue
			}

			out = append(out, models.RawMovement{
				Date:          date,
				Description:   merchant,
				Amount:        amount,
				BankReference: syntheticReference("viva", date, merchant, amount, len(out)),
				RawData: map[string]string{
					"card":   card,
					"status": status,
					"time":   m[6],
				},
			})
		}
	}
	return out
}
