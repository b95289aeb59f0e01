package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

func TestDelimitedAdapter_Parse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string // date|description|amount
		checkFn func(t *testing.T, got []models.RawMovement)
	}{
		{
			name: "english header with signed amount",
			data: "Date,Description,Amount,Reference\n" +
				"2024-03-10,Coffee shop,-3.50,TX1\n" +
				"2024-03-11,Salary,2500.00,TX2\n",
			want: []string{"2024-03-10|Coffee shop|-3.5", "2024-03-11|Salary|2500"},
			checkFn: func(t *testing.T, got []models.RawMovement) {
				assert.Equal(t, "TX1", got[0].BankReference)
			},
		},
		{
			name: "greek header with debit and credit, title rows above",
			data: "Κίνηση λογαριασμού;GR1234\n" +
				"\n" +
				"Ημερομηνία;Περιγραφή;Χρέωση;Πίστωση\n" +
				"10/03/2024;ΣΟΥΠΕΡ ΜΑΡΚΕΤ;1.234,56;\n" +
				"11/03/2024;ΜΙΣΘΟΣ;;900,00\n",
			want: []string{"2024-03-10|ΣΟΥΠΕΡ ΜΑΡΚΕΤ|-1234.56", "2024-03-11|ΜΙΣΘΟΣ|900"},
		},
		{
			name: "amount with direction column",
			data: "Date\tDetails\tAmount\tDR/CR\n" +
				"10/03/2024\tRENT\t700,00\tDR\n" +
				"12/03/2024\tREFUND\t10,00\tCR\n",
			want: []string{"2024-03-10|RENT|-700", "2024-03-12|REFUND|10"},
		},
		{
			name: "counterparty columns and type hint",
			data: "Date|Description|Amount|Transaction Type|Counterparty Account|Counterparty\n" +
				"10/03/2024|Transfer|-50,00|Internal transfer||\n" +
				"11/03/2024|Transfer|-20,00|Transfer|GR160110125000000001234|MARIA PAPADOPOULOU\n",
			want: []string{"2024-03-10|Transfer|-50", "2024-03-11|Transfer|-20"},
			checkFn: func(t *testing.T, got []models.RawMovement) {
				assert.Equal(t, models.HintOwnAccount, got[0].TransferHint)
				assert.Equal(t, models.HintTransfer, got[1].TransferHint)
				assert.Equal(t, "GR160110125000000001234", got[1].RawData[models.RawCounterpartyAccount])
				assert.Equal(t, "MARIA PAPADOPOULOU", got[1].RawData[models.RawCounterpartyName])
			},
		},
		{
			name: "rows missing date or amount are skipped",
			data: "Date,Description,Amount\n" +
				"2024-03-10,Ok,1.00\n" +
				",No date,2.00\n" +
				"2024-03-12,No amount,\n" +
				"2024-02-30,Bad date,3.00\n" +
				"2024-03-13,broken \"quote,4.00\n",
			want: []string{"2024-03-10|Ok|1", "2024-03-13|broken \"quote|4"},
		},
		{
			name: "unrelated text yields nothing",
			data: "hello world\nnothing to see here\n",
			want: nil,
		},
	}

	a := NewDelimitedAdapter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Parse([]byte(tt.data))
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i, m := range got {
				assert.Equal(t, tt.want[i], m.Date+"|"+m.Description+"|"+m.Amount.String())
			}
			if tt.checkFn != nil {
				tt.checkFn(t, got)
			}
		})
	}
}

func TestDelimitedAdapter_SignInvariant(t *testing.T) {
	data := "Ημερομηνία;Περιγραφή;Χρέωση;Πίστωση\n" +
		"10/03/2024;A;-5,00;\n" +
		"10/03/2024;B;5,00;\n" +
		"10/03/2024;C;;-5,00\n" +
		"10/03/2024;D;;5,00\n"

	got, err := NewDelimitedAdapter().Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, m := range got[:2] {
		assert.True(t, m.Amount.Equal(decimal.NewFromInt(-5)), "%s: %s", m.Description, m.Amount)
	}
	for _, m := range got[2:] {
		assert.True(t, m.Amount.Equal(decimal.NewFromInt(5)), "%s: %s", m.Description, m.Amount)
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"semicolon with decimal commas", "a;b;c\n1,5;2,5;3\n", ';'},
		{"tab", "a\tb\n1\t2\n", '\t'},
		{"pipe", "a|b|c\n", '|'},
		{"none", "abc\n", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sniffDelimiter(tt.text))
		})
	}
}
