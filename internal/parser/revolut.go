package parser

import (
	"strings"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

// Revolut account exports are UTF-8 CSV with a fixed English header:
// Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
type RevolutAdapter struct{}

func NewRevolutAdapter() *RevolutAdapter { return &RevolutAdapter{} }

func (a *RevolutAdapter) Name() string { return "revolut-csv" }
func (a *RevolutAdapter) Bank() string { return "revolut" }
func (a *RevolutAdapter) Kind() Kind   { return KindText }

func (a *RevolutAdapter) Detect(sample string) bool {
	firstLine, _, _ := strings.Cut(sample, "\n")
	return strings.Contains(firstLine, "Started Date") && strings.Contains(firstLine, "Completed Date")
}

// counterparty prefixes Revolut puts in front of transfer descriptions.
var revolutCounterpartyPrefixes = []string{"transfer to ", "transfer from ", "payment from ", "to ", "from "}

func (a *RevolutAdapter) Parse(data []byte) ([]models.RawMovement, error) {
	rows := readRecords(decodeText(data), ',')
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		col[strings.TrimSpace(name)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []models.RawMovement
	for _, row := range rows[1:] {
		if state := cell(row, "State"); state != "" && !strings.EqualFold(state, "COMPLETED") {
			continue
		}
		dateCell := cell(row, "Completed Date")
		if dateCell == "" {
			dateCell = cell(row, "Started Date")
		}
		date, ok := normalizeDate(dateCell)
		if !ok {
			continue
		}
		amount, ok := parseAmount(cell(row, "Amount"))
		if !ok {
			continue
		}
		if fee, ok := parseAmount(cell(row, "Fee")); ok {
			amount = amount.Sub(fee)
		}

		desc := strings.Join(strings.Fields(cell(row, "Description")), " ")
		raw := make(map[string]string, len(row))
		for name, i := range col {
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				raw[name] = strings.TrimSpace(row[i])
			}
		}

		hint := models.HintNone
		switch strings.ToUpper(cell(row, "Type")) {
		case "TOPUP", "EXCHANGE":
			hint = models.HintOwnAccount
		case "TRANSFER":
			lower := strings.ToLower(desc)
			if strings.Contains(lower, "pocket") || strings.Contains(lower, "vault") || strings.Contains(lower, "savings") {
				hint = models.HintOwnAccount
				break
			}
			hint = models.HintTransfer
			if name := revolutCounterparty(desc); name != "" {
				raw[models.RawCounterpartyName] = name
			}
		}

		out = append(out, models.RawMovement{
			Date:         date,
			Description:  desc,
			Amount:       amount,
			RawData:      raw,
			TransferHint: hint,
		})
	}
	return out, nil
}

func revolutCounterparty(desc string) string {
	lower := strings.ToLower(desc)
	for _, prefix := range revolutCounterpartyPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(desc[len(prefix):])
		}
	}
	return ""
}
