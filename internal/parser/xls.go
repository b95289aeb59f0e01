package parser

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

// AlphaAdapter reads Alpha Bank statements, still exported as BIFF (.xls)
// workbooks. The table shape matches the XLSX exports.
type AlphaAdapter struct {
	layout tableLayout
}

func NewAlphaAdapter() *AlphaAdapter {
	return &AlphaAdapter{layout: tableLayout{
		headerScan: 30,
		parseDate:  spreadsheetDate,
	}}
}

func (a *AlphaAdapter) Name() string { return "alpha-xls" }
func (a *AlphaAdapter) Bank() string { return "alpha" }
func (a *AlphaAdapter) Kind() Kind   { return KindOLE2 }

func (a *AlphaAdapter) Parse(data []byte) (movements []models.RawMovement, err error) {
	defer func() {
		if r := recover(); r != nil {
			movements = nil
			err = fmt.Errorf("%w: xls reader crashed: %v", ErrMalformedInput, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrMalformedInput, err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedInput)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: could not read first sheet", ErrMalformedInput)
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return a.layout.movements(rows), nil
}

// sheetRow returns nil for rows the workbook never wrote, such as blank
// spacer rows; the reader dereferences them without checking.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}
