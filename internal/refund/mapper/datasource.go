package mapper

import (
	"fmt"
	"strings"

	clientmodels "escrow/internal/clientcard/models"
)

// ClientDataSource is the uniform view of a client lookup result. It has
// exactly two implementations: ClientInfoAdapter for a fetched record and
// ErrorDataSource for a failed lookup.
type ClientDataSource interface {
	FirstName() string
	MiddleName() string
	LastName() string
	TaxID() string
	// DepositorName is the display name written to the party.
	DepositorName() string
	Address() *clientmodels.Address

	clientDataSource()
}

// ClientInfoAdapter exposes a CSPC client record as a ClientDataSource.
type ClientInfoAdapter struct {
	info *clientmodels.ClientInformation
}

func NewClientInfoAdapter(info *clientmodels.ClientInformation) ClientInfoAdapter {
	return ClientInfoAdapter{info: info}
}

func (a ClientInfoAdapter) FirstName() string {
	if a.info == nil {
		return ""
	}
	return a.info.FirstName
}

func (a ClientInfoAdapter) MiddleName() string {
	if a.info == nil {
		return ""
	}
	return a.info.MiddleName
}

func (a ClientInfoAdapter) LastName() string {
	if a.info == nil {
		return ""
	}
	return a.info.LastName
}

func (a ClientInfoAdapter) TaxID() string {
	if a.info == nil {
		return ""
	}
	return a.info.TaxID
}

// DepositorName returns "last first middle" with outer whitespace trimmed.
// Interior double spaces from empty parts are kept.
func (a ClientInfoAdapter) DepositorName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", a.LastName(), a.FirstName(), a.MiddleName()))
}

func (a ClientInfoAdapter) Address() *clientmodels.Address {
	if a.info == nil {
		return nil
	}
	return a.info.Address
}

func (ClientInfoAdapter) clientDataSource() {}

// ErrorDataSource reports the same message for every scalar field,
// depositor name included, and has no address.
type ErrorDataSource struct {
	message string
}

func NewErrorDataSource(message string) ErrorDataSource {
	return ErrorDataSource{message: message}
}

func (e ErrorDataSource) FirstName() string  { return e.message }
func (e ErrorDataSource) MiddleName() string { return e.message }
func (e ErrorDataSource) LastName() string   { return e.message }
func (e ErrorDataSource) TaxID() string      { return e.message }

func (e ErrorDataSource) DepositorName() string { return e.message }

func (ErrorDataSource) Address() *clientmodels.Address { return nil }

func (ErrorDataSource) clientDataSource() {}
