package parser

import (
	"regexp"
)

// NBG legacy exports are semicolon separated, Windows-1253 encoded and
// usually headerless:
//
//	10/03/2024;ΕΜΒΑΣΜΑ ΙΔΙΟΚΤΗΤΗ ΠΡΟΣ ΛΟΓ. ΤΑΜΙΕΥΤΗΡΙΟΥ;150,00;
//
// Columns are date, description, debit, credit.
var nbgLinePattern = regexp.MustCompile(`(?m)^\s*\d{2}/\d{2}/\d{4};`)

// NBGLegacyAdapter handles National Bank of Greece legacy CSV exports.
type NBGLegacyAdapter struct {
	DelimitedAdapter
}

func NewNBGLegacyAdapter() *NBGLegacyAdapter {
	return &NBGLegacyAdapter{DelimitedAdapter{
		name:  "nbg-legacy-csv",
		bank:  "nbg",
		comma: ';',
		layout: tableLayout{
			positional: columns{fieldDate: 0, fieldDescription: 1, fieldDebit: 2, fieldCredit: 3},
		},
	}}
}

// Detect matches Greek text with day-first, semicolon-led rows.
func (a *NBGLegacyAdapter) Detect(sample string) bool {
	return hasGreek(sample) && nbgLinePattern.MatchString(sample)
}
