package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolastas/logistis-sub000/internal/catalog"
	"github.com/nikolastas/logistis-sub000/internal/models"
	"github.com/nikolastas/logistis-sub000/internal/pipeline"
)

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		Bank:    "nbg",
		Adapter: "nbg-legacy-csv",
		Movements: []models.ProcessedMovement{
			{
				RawMovement: models.RawMovement{Date: "2024-03-10", Description: "ΕΜΒΑΣΜΑ ΙΔΙΟΚΤΗΤΗ", Amount: decimal.RequireFromString("-150")},
				Transfer: models.TransferClassification{
					TransferType:         models.TransferOwnAccount,
					ExcludeFromAnalytics: true,
					CategoryID:           catalog.OwnAccount,
					HighConfidence:       true,
				},
				CategoryID: catalog.OwnAccount,
			},
			{
				RawMovement: models.RawMovement{Date: "2024-03-11", Description: "SEND MONEY TO JOHN SMITH, LTD", Amount: decimal.RequireFromString("-40"), BankReference: "R2"},
				Transfer: models.TransferClassification{
					TransferType:     models.TransferThirdParty,
					CounterpartyName: "JOHN SMITH",
					CategoryID:       catalog.ToThirdParty,
				},
				CategoryID: catalog.ToThirdParty,
			},
		},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "# Bank,nbg", lines[0])
	assert.Equal(t, "# Format,nbg-legacy-csv", lines[1])
	assert.Equal(t, "Date,Description,Amount,Reference,TransferType,Counterparty,Category,Excluded,HighConfidence", lines[2])
	assert.Equal(t, "2024-03-10,ΕΜΒΑΣΜΑ ΙΔΙΟΚΤΗΤΗ,-150.00,,own_account,,transfer/own-account,true,true", lines[3])
	assert.Equal(t, `2024-03-11,"SEND MONEY TO JOHN SMITH, LTD",-40.00,R2,third_party,JOHN SMITH,transfer/to-third-party,false,false`, lines[4])
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	require.NoError(t, w.Write(&buf, sampleResult()))

	assert.NotContains(t, buf.String(), "# Bank")
	assert.True(t, strings.HasPrefix(buf.String(), "Date,Description,Amount"))
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := &CSVWriter{}
	require.NoError(t, w.WriteToFile(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "JOHN SMITH")

	assert.Error(t, w.WriteToFile(filepath.Join(t.TempDir(), "missing", "out.csv"), sampleResult()))
}
