package models

import "math/big"

// Apartment is a rental unit as stored by the rental contract.
type Apartment struct {
	ID            uint64
	Owner         string
	Name          string
	Location      string
	Description   string
	PricePerNight *big.Int
	ImageURLs     []string
}

// PrimaryImage returns the first image reference, or "" when there is none.
func (a Apartment) PrimaryImage() string {
	if len(a.ImageURLs) == 0 {
		return ""
	}
	return a.ImageURLs[0]
}

// ApartmentDraft is the listing form before it is submitted.
type ApartmentDraft struct {
	Name          string
	Location      string
	Description   string
	PricePerNight *big.Int
	ImageURLs     []string
}
