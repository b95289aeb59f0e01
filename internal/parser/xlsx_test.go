package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestPiraeusAdapter_Parse(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"ΠΕΙΡΑΙΩΣ - Κινήσεις Λογαριασμού"},
		{"Λογαριασμός", "5012-012345-678"},
		{},
		{"Ημερομηνία", "Περιγραφή", "Ποσό", "Είδος Συναλλαγής", "Λογαριασμός Αντισυμβαλλόμενου", "Όνομα Αντισυμβαλλόμενου", "Αριθμός Συναλλαγής"},
		{"10/03/2024", "ΑΓΟΡΑ ΚΑΡΤΑΣ ΜΑΣΟΥΤΗΣ", -32.15, "Αγορά", "", "", "PRS001"},
		{"11/03/2024", "ΜΕΤΑΦΟΡΑ", -75, "Μεταφορά", "GR1601721230005123012345678", "ΜΑΡΙΑ ΠΑΠΑΔΟΠΟΥΛΟΥ", "PRS002"},
		{"12/03/2024", "ΜΕΤΑΦΟΡΑ ΜΕΤΑΞΥ ΛΟΓ.", 300, "Μεταφορά μεταξύ λογαριασμών", "", "", "PRS003"},
		{"Σύνολο", "", 192.85},
	})

	got, err := NewPiraeusAdapter().Parse(data)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "2024-03-10", got[0].Date)
	assert.True(t, decimal.RequireFromString("-32.15").Equal(got[0].Amount), "got %s", got[0].Amount)
	assert.Equal(t, "PRS001", got[0].BankReference)
	assert.Equal(t, models.HintNone, got[0].TransferHint)

	assert.Equal(t, models.HintTransfer, got[1].TransferHint)
	assert.Equal(t, "GR1601721230005123012345678", got[1].RawData[models.RawCounterpartyAccount])
	assert.Equal(t, "ΜΑΡΙΑ ΠΑΠΑΔΟΠΟΥΛΟΥ", got[1].RawData[models.RawCounterpartyName])

	assert.Equal(t, models.HintOwnAccount, got[2].TransferHint)
	assert.True(t, got[2].Amount.IsPositive())
}

func TestPiraeusAdapter_Malformed(t *testing.T) {
	_, err := NewPiraeusAdapter().Parse([]byte("PK\x03\x04 definitely not a workbook"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestSpreadsheetDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"45361", "2024-03-10", true},
		{"45361.5", "2024-03-10", true},
		{"10/03/2024", "2024-03-10", true},
		{"12", "", false},
		{"-75", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := spreadsheetDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestAlphaAdapter_Malformed(t *testing.T) {
	data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...)
	_, err := NewAlphaAdapter().Parse(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestAlphaAdapter_Parse(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "alpha.xls"))
	require.NoError(t, err)

	got, err := NewAlphaAdapter().Parse(data)
	require.NoError(t, err)
	require.Len(t, got, 3)

	tests := []struct {
		date        string
		description string
		amount      string
		reference   string
	}{
		{"2024-03-10", "ΑΓΟΡΑ ΣΚΛΑΒΕΝΙΤΗΣ", "-45.9", "ALP001"},
		{"2024-03-11", "ΜΙΣΘΟΔΟΣΙΑ ΜΑΡΤΙΟΥ", "1500", "ALP002"},
		{"2024-03-12", "ΠΛΗΡΩΜΗ ΔΕΗ", "-62.4", "ALP003"},
	}
	for i, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			m := got[i]
			assert.Equal(t, tt.date, m.Date)
			assert.Equal(t, tt.description, m.Description)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(m.Amount), "got %s", m.Amount)
			assert.Equal(t, tt.reference, m.BankReference)
		})
	}
}

func TestAlphaAdapter_DetectsWorkbook(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "alpha.xls"))
	require.NoError(t, err)
	assert.Equal(t, KindOLE2, sniffKind(data, KindText))
	assert.Equal(t, "alpha-xls", DefaultRegistry().Detect(data, "").Name())
}
