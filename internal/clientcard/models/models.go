// Package models holds the client card records returned by CSPC, the
// external client information system.
package models

import "time"

// Address is the postal address attached to a client card.
type Address struct {
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Region     string `json:"region,omitempty"`
	City       string `json:"city,omitempty"`
	Street     string `json:"street,omitempty"`
	House      string `json:"house,omitempty"`
	Building   string `json:"building,omitempty"`
	Apartment  string `json:"apartment,omitempty"`
	// Full is a pre-formatted single-line address when CSPC provides one.
	Full string `json:"full,omitempty"`
}

// ClientInformation is a client card. Any field may be empty; Address may be nil.
type ClientInformation struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName"`
	LastName   string    `json:"lastName"`
	TaxID      string    `json:"inn"`
	Address    *Address  `json:"address,omitempty"`
	CheckedAt  time.Time `json:"checkedAt"`
}
