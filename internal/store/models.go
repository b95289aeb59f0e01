package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nikolastas/logistis-sub000/internal/models"
)

// Movement is a persisted, classified statement row.
type Movement struct {
	ID                   string  `gorm:"primaryKey;size:36"`
	HouseholdID          string  `gorm:"index;not null"`
	Bank                 string  `gorm:"uniqueIndex:idx_bank_reference;not null"`
	BankReference        *string `gorm:"uniqueIndex:idx_bank_reference"`
	Date                 string  `gorm:"index;size:10"`
	Position             int
	Description          string
	Amount               decimal.Decimal   `gorm:"type:text"`
	RawData              map[string]string `gorm:"serializer:json"`
	TransferType         string            `gorm:"index"`
	CounterpartyName     string
	CounterpartyUserID   string
	LinkedMovementID     *string
	ExcludeFromAnalytics bool
	HighConfidence       bool
	CategoryID           string
	CreatedAt            time.Time
}

// fromProcessed maps a pipeline row; position is its index in the source file.
func fromProcessed(id, householdID, bank string, position int, pm models.ProcessedMovement) Movement {
	m := Movement{
		ID:                   id,
		HouseholdID:          householdID,
		Bank:                 bank,
		Date:                 pm.Date,
		Position:             position,
		Description:          pm.Description,
		Amount:               pm.Amount,
		RawData:              pm.RawData,
		TransferType:         string(pm.Transfer.TransferType),
		CounterpartyName:     pm.Transfer.CounterpartyName,
		CounterpartyUserID:   pm.Transfer.CounterpartyUserID,
		ExcludeFromAnalytics: pm.Transfer.ExcludeFromAnalytics,
		HighConfidence:       pm.Transfer.HighConfidence,
		CategoryID:           pm.CategoryID,
	}
	if pm.BankReference != "" {
		ref := pm.BankReference
		m.BankReference = &ref
	}
	return m
}

// Stored converts to the linker's view.
func (m Movement) Stored() models.StoredMovement {
	s := models.StoredMovement{
		ID:                   m.ID,
		HouseholdID:          m.HouseholdID,
		Date:                 m.Date,
		Amount:               m.Amount,
		TransferType:         models.TransferType(m.TransferType),
		ExcludeFromAnalytics: m.ExcludeFromAnalytics,
		CategoryID:           m.CategoryID,
	}
	if m.LinkedMovementID != nil {
		s.LinkedMovementID = *m.LinkedMovementID
	}
	return s
}
