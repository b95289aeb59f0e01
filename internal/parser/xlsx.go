package parser

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

// PiraeusAdapter reads Piraeus Bank XLSX exports. The workbook carries a few
// title rows above a Greek header, and counterparty account and name columns
// for transfers.
type PiraeusAdapter struct {
	layout tableLayout
}

func NewPiraeusAdapter() *PiraeusAdapter {
	return &PiraeusAdapter{layout: tableLayout{
		headerScan: 20,
		parseDate:  spreadsheetDate,
	}}
}

func (a *PiraeusAdapter) Name() string { return "piraeus-xlsx" }
func (a *PiraeusAdapter) Bank() string { return "piraeus" }
func (a *PiraeusAdapter) Kind() Kind   { return KindZip }

func (a *PiraeusAdapter) Parse(data []byte) ([]models.RawMovement, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedInput)
	}

	// Raw values keep date cells as serial numbers instead of the
	// locale-dependent display format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrMalformedInput, sheets[0], err)
	}
	return a.layout.movements(rows), nil
}

// spreadsheetDate accepts both text dates and Excel serial day numbers.
func spreadsheetDate(s string) (string, bool) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		// 1982-01-01 .. 2173-10-14
		if serial < 29952 || serial > 99999 {
			return "", false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", false
		}
		return t.Format(isoDate), true
	}
	return normalizeDate(s)
}
