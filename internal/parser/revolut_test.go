package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

const revolutSample = `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
CARD_PAYMENT,Current,2024-03-09 18:01:12,2024-03-10 09:12:44,Lidl,-23.40,0.00,EUR,COMPLETED,976.60
TRANSFER,Current,2024-03-11 10:00:00,2024-03-11 10:00:01,To JOHN SMITH,-40.00,0.00,EUR,COMPLETED,936.60
TOPUP,Current,2024-03-12 08:00:00,2024-03-12 08:00:02,Apple Pay Top-Up by *1234,200.00,0.00,EUR,COMPLETED,1136.60
TRANSFER,Current,2024-03-12 09:00:00,2024-03-12 09:00:00,To pocket EUR Holiday,-100.00,0.00,EUR,COMPLETED,1036.60
ATM,Current,2024-03-13 12:00:00,,Cash at Piraeus,-50.00,1.50,EUR,COMPLETED,985.10
CARD_PAYMENT,Current,2024-03-14 12:00:00,,Declined shop,-10.00,0.00,EUR,DECLINED,985.10
`

func TestRevolutAdapter_Parse(t *testing.T) {
	got, err := NewRevolutAdapter().Parse([]byte(revolutSample))
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.Equal(t, "2024-03-10", got[0].Date)
	assert.Equal(t, "Lidl", got[0].Description)
	assert.Equal(t, models.HintNone, got[0].TransferHint)

	assert.Equal(t, models.HintTransfer, got[1].TransferHint)
	assert.Equal(t, "JOHN SMITH", got[1].RawData[models.RawCounterpartyName])

	assert.Equal(t, models.HintOwnAccount, got[2].TransferHint)
	assert.Equal(t, models.HintOwnAccount, got[3].TransferHint)

	// falls back to the start date and nets the fee
	assert.Equal(t, "2024-03-13", got[4].Date)
	assert.True(t, decimal.RequireFromString("-51.50").Equal(got[4].Amount), "got %s", got[4].Amount)
}

func TestRevolutAdapter_Detect(t *testing.T) {
	a := NewRevolutAdapter()
	assert.True(t, a.Detect(revolutSample))
	assert.False(t, a.Detect("Date,Description,Amount\n"))
}
