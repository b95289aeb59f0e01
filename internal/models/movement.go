package models

import (
	"github.com/shopspring/decimal"
)

// RawMovement represents a single row recovered from a bank statement.
type RawMovement struct {
	Date          string            `json:"date"` // YYYY-MM-DD
	Description   string            `json:"description"`
	Amount        decimal.Decimal   `json:"amount"` // negative = outflow
	BankReference string            `json:"bankReference,omitempty"`
	RawData       map[string]string `json:"rawData,omitempty"`
	TransferHint  TransferHint      `json:"transferHint,omitempty"`
}

// Well-known RawData keys set by adapters that expose counterparty columns.
const (
	RawCounterpartyAccount = "counterparty_account"
	RawCounterpartyName    = "counterparty_name"
)

// TransferHint is an adapter-supplied signal about a row's transfer nature.
type TransferHint string

const (
	HintNone       TransferHint = ""
	HintOwnAccount TransferHint = "own_account"
	HintTransfer   TransferHint = "transfer"
)

// TransferType is the classifier's verdict for a movement.
type TransferType string

const (
	TransferNone            TransferType = "none"
	TransferOwnAccount      TransferType = "own_account"
	TransferHouseholdMember TransferType = "household_member"
	TransferThirdParty      TransferType = "third_party"
)

// TransferClassification is the output of the transfer classifier.
type TransferClassification struct {
	TransferType         TransferType `json:"transferType"`
	CounterpartyName     string       `json:"counterpartyName,omitempty"`
	CounterpartyUserID   string       `json:"counterpartyUserId,omitempty"`
	ExcludeFromAnalytics bool         `json:"excludeFromAnalytics"`
	CategoryID           string       `json:"categoryId,omitempty"`
	HighConfidence       bool         `json:"highConfidence"`
}

// ProcessedMovement is a classified and categorized movement ready for persistence.
// CategoryID is always set, either from the transfer classification or the categorizer.
type ProcessedMovement struct {
	RawMovement
	Transfer   TransferClassification `json:"transfer"`
	CategoryID string                 `json:"categoryId"`
}

// HouseholdMember is a tracked person whose aliases identify them as a counterparty.
type HouseholdMember struct {
	ID          string   `json:"id" yaml:"id"`
	NameAliases []string `json:"nameAliases" yaml:"aliases"`
	HouseholdID string   `json:"householdId" yaml:"household"`
}

// Category is one entry of the category catalog.
type Category struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Reserved bool     `json:"reserved,omitempty" yaml:"reserved,omitempty"`
}

// StoredMovement is the linker's view of a persisted movement.
type StoredMovement struct {
	ID                   string
	HouseholdID          string
	Date                 string
	Amount               decimal.Decimal
	TransferType         TransferType
	LinkedMovementID     string
	ExcludeFromAnalytics bool
	CategoryID           string
}
