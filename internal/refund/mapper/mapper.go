// Package mapper copies client data into refund parties.
package mapper

import (
	"strings"

	clientmodels "escrow/internal/clientcard/models"
	"escrow/internal/refund/models"
)

// AddressMapper renders a client address as a single party address line.
type AddressMapper func(*clientmodels.Address) string

type Mapper struct {
	formatAddress AddressMapper
}

type Option func(*Mapper)

func WithAddressMapper(fn AddressMapper) Option {
	return func(m *Mapper) {
		if fn != nil {
			m.formatAddress = fn
		}
	}
}

func New(opts ...Option) *Mapper {
	m := &Mapper{formatAddress: FormatAddress}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UpdatePartyFromDataSource overwrites the party's name, tax id, depositor
// name and address from ds. Party.ID is left alone.
func (m *Mapper) UpdatePartyFromDataSource(party *models.Party, ds ClientDataSource) {
	if party == nil || ds == nil {
		return
	}
	party.FirstName = ds.FirstName()
	party.MiddleName = ds.MiddleName()
	party.LastName = ds.LastName()
	party.TaxID = ds.TaxID()
	party.DepositorName = BuildDepositorName(ds)
	party.Address = m.formatAddress(ds.Address())
}

func (m *Mapper) UpdatePartyFromClientInfo(party *models.Party, info *clientmodels.ClientInformation) {
	m.UpdatePartyFromDataSource(party, NewClientInfoAdapter(info))
}

// SetPartyErrorData fills every scalar party field with message and clears the address.
func (m *Mapper) SetPartyErrorData(party *models.Party, message string) {
	m.UpdatePartyFromDataSource(party, NewErrorDataSource(message))
}

// BuildDepositorName returns the display name of ds, or "" for nil.
func BuildDepositorName(ds ClientDataSource) string {
	if ds == nil {
		return ""
	}
	return ds.DepositorName()
}

// FormatAddress prefers the pre-formatted line and otherwise joins the
// non-empty components from postal code down to apartment.
func FormatAddress(addr *clientmodels.Address) string {
	if addr == nil {
		return ""
	}
	if full := strings.TrimSpace(addr.Full); full != "" {
		return full
	}
	parts := make([]string, 0, 8)
	for _, part := range []string{
		addr.PostalCode,
		addr.Country,
		addr.Region,
		addr.City,
		addr.Street,
		addr.House,
		addr.Building,
		addr.Apartment,
	} {
		if p := strings.TrimSpace(part); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
