package models

import (
	"github.com/shopspring/decimal"
)

const (
	// PartyTypeDepositor marks the participant whose party is enriched from CSPC.
	PartyTypeDepositor = "depositor"

	// SystemCSPC names the client information system in error messages.
	SystemCSPC = "CSPC"

	// ExternalSystemErrorTemplate is written into every party field when a lookup fails.
	ExternalSystemErrorTemplate = "Failed to get data from external system %s"
)

// Party is the person behind a participant. Enrichment overwrites every field
// except ID.
type Party struct {
	ID            string `json:"id"`
	DepositorName string `json:"depositorName,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	MiddleName    string `json:"middleName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	TaxID         string `json:"inn,omitempty"`
	Address       string `json:"address,omitempty"`
}

type Participant struct {
	Type  string `json:"type" validate:"required"`
	Party *Party `json:"party,omitempty"`
}

// RetailEscrowProductInstance is one escrow account product. A nil
// Participants slice means the list was absent from the payload.
type RetailEscrowProductInstance struct {
	ID           string          `json:"id"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
	Currency     string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Participants []*Participant  `json:"participants" validate:"omitempty,dive,required"`
}

type Data struct {
	RetailEscrowProductInstance *RetailEscrowProductInstance `json:"retailEscrowProductInstance" validate:"required"`
}

// DetailRefundAmountResponse is the detail refund amount payload.
type DetailRefundAmountResponse struct {
	Data *Data `json:"data" validate:"required"`
}
