package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/nikolastas/logistis-sub000/internal/pipeline"
)

// CSVWriter writes processed movements to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes movements to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, result *pipeline.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write writes movements in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, result *pipeline.Result) error {
	writer := csv.NewWriter(out)

	// Write metadata as comment rows
	if w.IncludeHeader {
		if result.Bank != "" {
			writer.Write([]string{"# Bank", result.Bank})
		}
		if result.Adapter != "" {
			writer.Write([]string{"# Format", result.Adapter})
		}
	}

	header := []string{"Date", "Description", "Amount", "Reference", "TransferType", "Counterparty", "Category", "Excluded", "HighConfidence"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, m := range result.Movements {
		row := []string{
			m.Date,
			m.Description,
			m.Amount.StringFixed(2),
			m.BankReference,
			string(m.Transfer.TransferType),
			m.Transfer.CounterpartyName,
			m.CategoryID,
			strconv.FormatBool(m.Transfer.ExcludeFromAnalytics),
			strconv.FormatBool(m.Transfer.HighConfidence),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
