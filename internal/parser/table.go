package parser

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/textnorm"
)

type field int

const (
	fieldDirection field = iota
	fieldCounterpartyAccount
	fieldCounterpartyName
	fieldReference
	fieldType
	fieldDebit
	fieldCredit
	fieldAmount
	fieldDate
	fieldDescription
)

var fieldKeys = map[field]string{
	fieldDirection:           "direction",
	fieldCounterpartyAccount: models.RawCounterpartyAccount,
	fieldCounterpartyName:    models.RawCounterpartyName,
	fieldReference:           "reference",
	fieldType:                "type",
	fieldDebit:               "debit",
	fieldCredit:              "credit",
	fieldAmount:              "amount",
	fieldDate:                "date",
	fieldDescription:         "description",
}

// headerTokens are matched as substrings of normalized header cells, in this
// order, so the more specific counterparty columns win over generic ones.
var headerTokens = normalizeTokens([]fieldTokens{
	{fieldDirection, []string{"Χ/Π", "Χρέωση/Πίστωση", "Debit/Credit", "DR/CR", "Πρόσημο"}},
	{fieldCounterpartyAccount, []string{"Counterparty Account", "Beneficiary Account", "Beneficiary IBAN", "Λογαριασμός Αντισυμβαλλόμενου", "IBAN Αντισυμβαλλόμενου", "Λογαριασμός Δικαιούχου", "IBAN Δικαιούχου"}},
	{fieldCounterpartyName, []string{"Counterparty", "Beneficiary", "Payee", "Αντισυμβαλλόμενος", "Αντισυμβαλλόμενου", "Δικαιούχος", "Επωνυμία"}},
	{fieldReference, []string{"Reference", "Transaction ID", "Αριθμός Συναλλαγής", "Αρ. Συναλλαγής", "Κωδικός Συναλλαγής", "Αριθμός Αναφοράς"}},
	{fieldType, []string{"Transaction Type", "Type", "Είδος Συναλλαγής", "Τύπος Συναλλαγής", "Είδος"}},
	{fieldDebit, []string{"Debit", "Money Out", "Paid Out", "Withdrawal", "Χρέωση", "Ανάληψη"}},
	{fieldCredit, []string{"Credit", "Money In", "Paid In", "Deposit", "Πίστωση", "Κατάθεση"}},
	{fieldAmount, []string{"Amount", "Ποσό"}},
	{fieldDate, []string{"Date", "Ημερομηνία", "Ημ/νία"}},
	{fieldDescription, []string{"Description", "Details", "Narrative", "Περιγραφή", "Αιτιολογία"}},
})

type fieldTokens struct {
	field  field
	tokens []string
}

func normalizeTokens(in []fieldTokens) []fieldTokens {
	out := make([]fieldTokens, 0, len(in))
	for _, ft := range in {
		norm := make([]string, 0, len(ft.tokens))
		for _, tok := range ft.tokens {
			norm = append(norm, textnorm.Normalize(tok))
		}
		out = append(out, fieldTokens{field: ft.field, tokens: norm})
	}
	return out
}

// columns maps a logical field to its column index.
type columns map[field]int

func (c columns) cell(row []string, f field) string {
	i, ok := c[f]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// typeHint maps a normalized transaction-type phrase to a hint.
type typeHint struct {
	phrase string
	hint   models.TransferHint
}

// tableLayout describes how an adapter turns rows of cells into movements.
type tableLayout struct {
	// headerScan is how many leading rows may hold the header.
	headerScan int
	// positional is used when no header row is recognised.
	positional columns
	typeHints  []typeHint
	// parseDate overrides normalizeDate, e.g. for spreadsheet serial dates.
	parseDate func(string) (string, bool)
}

var defaultPositional = columns{fieldDate: 0, fieldDescription: 1, fieldDebit: 2, fieldCredit: 3}

var defaultTypeHints = normalizeHints([]typeHint{
	{"Μεταφορά μεταξύ λογαριασμών", models.HintOwnAccount},
	{"Μεταφορά σε ίδιο λογαριασμό", models.HintOwnAccount},
	{"Internal transfer", models.HintOwnAccount},
	{"Own account transfer", models.HintOwnAccount},
	{"Μεταφορά", models.HintTransfer},
	{"Έμβασμα", models.HintTransfer},
	{"Transfer", models.HintTransfer},
})

func normalizeHints(in []typeHint) []typeHint {
	out := make([]typeHint, len(in))
	for i, h := range in {
		out[i] = typeHint{phrase: textnorm.Normalize(h.phrase), hint: h.hint}
	}
	return out
}

// findHeader looks for a row naming a date column plus at least one of
// description, amount, debit or credit. Rows holding a parseable date are
// data, not headers.
func findHeader(rows [][]string, scan int) (columns, int, bool) {
	for i := 0; i < len(rows) && i < scan; i++ {
		cols := columns{}
		isData := false
		for j, cell := range rows[i] {
			if _, ok := normalizeDate(cell); ok {
				isData = true
				break
			}
			norm := textnorm.Normalize(cell)
			if norm == "" {
				continue
			}
			for _, ft := range headerTokens {
				if _, taken := cols[ft.field]; taken {
					continue
				}
				if matchesAny(norm, ft.tokens) {
					cols[ft.field] = j
					break
				}
			}
		}
		if isData {
			continue
		}
		_, hasDate := cols[fieldDate]
		_, hasDesc := cols[fieldDescription]
		_, hasAmount := cols[fieldAmount]
		_, hasDebit := cols[fieldDebit]
		_, hasCredit := cols[fieldCredit]
		if hasDate && (hasDesc || hasAmount || hasDebit || hasCredit) {
			return cols, i, true
		}
	}
	return nil, -1, false
}

func matchesAny(norm string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(norm, tok) {
			return true
		}
	}
	return false
}

// movements converts table rows into raw movements. Rows without a valid date
// or amount are skipped.
func (l tableLayout) movements(rows [][]string) []models.RawMovement {
	scan := l.headerScan
	if scan == 0 {
		scan = 10
	}
	positional := l.positional
	if positional == nil {
		positional = defaultPositional
	}
	parseDate := l.parseDate
	if parseDate == nil {
		parseDate = normalizeDate
	}

	cols, headerRow, ok := findHeader(rows, scan)
	var header []string
	if ok {
		header = rows[headerRow]
	} else {
		cols = positional
	}

	var out []models.RawMovement
	for _, row := range rows[headerRow+1:] {
		date, ok := parseDate(cols.cell(row, fieldDate))
		if !ok {
			continue
		}
		amount, ok := l.amount(cols, row)
		if !ok {
			continue
		}

		m := models.RawMovement{
			Date:          date,
			Description:   strings.Join(strings.Fields(cols.cell(row, fieldDescription)), " "),
			Amount:        amount,
			BankReference: cols.cell(row, fieldReference),
			RawData:       rawData(header, cols, row),
			TransferHint:  l.hint(cols.cell(row, fieldType)),
		}
		out = append(out, m)
	}
	return out
}

func (l tableLayout) amount(cols columns, row []string) (decimal.Decimal, bool) {
	if _, ok := cols[fieldAmount]; ok {
		a, ok := parseAmount(cols.cell(row, fieldAmount))
		if !ok {
			return a, false
		}
		switch directionOf(cols.cell(row, fieldDirection)) {
		case -1:
			a = a.Abs().Neg()
		case 1:
			a = a.Abs()
		}
		return a, true
	}
	return signedAmount(cols.cell(row, fieldDebit), cols.cell(row, fieldCredit))
}

// directionOf reads debit/credit indicator cells such as "Χ", "Π", "DR", "CR".
func directionOf(s string) int {
	switch textnorm.Normalize(s) {
	case "χ", "χρεωση", "d", "dr", "debit":
		return -1
	case "π", "πιστωση", "c", "cr", "credit":
		return 1
	}
	return 0
}

func (l tableLayout) hint(typeCell string) models.TransferHint {
	if typeCell == "" {
		return models.HintNone
	}
	norm := textnorm.Normalize(typeCell)
	hints := l.typeHints
	if hints == nil {
		hints = defaultTypeHints
	}
	for _, h := range hints {
		if textnorm.ContainsPhrase(norm, h.phrase) {
			return h.hint
		}
	}
	return models.HintNone
}

// rawData keeps every original cell for audit, keyed by header text when a
// header was found, plus the well-known counterparty keys.
func rawData(header []string, cols columns, row []string) map[string]string {
	names := make(map[int]string, len(cols))
	for f, i := range cols {
		names[i] = fieldKeys[f]
	}

	data := make(map[string]string, len(row))
	for i, v := range row {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := fmt.Sprintf("col_%d", i)
		switch {
		case i < len(header) && strings.TrimSpace(header[i]) != "":
			key = strings.TrimSpace(header[i])
		case names[i] != "":
			key = names[i]
		}
		data[key] = v
	}
	for _, f := range []field{fieldCounterpartyAccount, fieldCounterpartyName} {
		if v := cols.cell(row, f); v != "" {
			data[fieldKeys[f]] = v
		}
	}
	return data
}
