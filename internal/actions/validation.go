package actions

import (
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/cryptobooking/booking-client/pkg/contracttime"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/ether"
	"github.com/cryptobooking/booking-client/pkg/models"
)

// ListingInput is the listing form as entered.
type ListingInput struct {
	Name        string
	Location    string
	Description string
	Price       string
	ImageURLs   []string
}

// Stay is a validated booking request.
type Stay struct {
	ApartmentID uint64
	CheckIn     int64
	CheckOut    int64
	Nights      int64
	Total       *big.Int
}

func validationError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"field": field})
}

// parsePrice converts ether text into a strictly positive wei amount.
func parsePrice(text string) (*big.Int, error) {
	wei, err := ether.ParseEther(text)
	if err != nil {
		if errors.Is(err, ether.ErrEmpty) {
			return nil, validationError("price", "Price is required")
		}
		return nil, validationError("price", "Invalid ETH amount: "+err.Error())
	}
	if wei.Sign() <= 0 {
		return nil, validationError("price", "Price must be greater than zero")
	}
	return wei, nil
}

// validateListing builds the draft submitted by ListApartment.
func validateListing(in ListingInput) (models.ApartmentDraft, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.ApartmentDraft{}, validationError("name", "Property name is required")
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return models.ApartmentDraft{}, validationError("location", "Location is required")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return models.ApartmentDraft{}, err
	}
	images := make([]string, 0, len(in.ImageURLs))
	for _, url := range in.ImageURLs {
		if url = strings.TrimSpace(url); url != "" {
			images = append(images, url)
		}
	}
	return models.ApartmentDraft{
		Name:          name,
		Location:      location,
		Description:   strings.TrimSpace(in.Description),
		PricePerNight: price,
		ImageURLs:     images,
	}, nil
}

// validateDates checks the requested dates against today. It needs no
// apartment so it runs before any read.
func validateDates(checkInText, checkOutText string, now time.Time) (Stay, error) {
	checkIn, err := contracttime.ToContractTimestamp(checkInText)
	if err != nil {
		return Stay{}, validationError("check_in", "Invalid check-in date")
	}
	checkOut, err := contracttime.ToContractTimestamp(checkOutText)
	if err != nil {
		return Stay{}, validationError("check_out", "Invalid check-out date")
	}
	if checkIn < contracttime.Today(now) {
		return Stay{}, validationError("check_in", "Check-in date cannot be in the past")
	}
	if checkOut <= checkIn {
		return Stay{}, validationError("check_out", "Check-out date must be after check-in date")
	}
	return Stay{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Nights:   contracttime.Nights(checkIn, checkOut),
	}, nil
}

// pricedFor binds the stay to apt and prices it.
func (s Stay) pricedFor(apt models.Apartment) Stay {
	s.ApartmentID = apt.ID
	s.Total = contracttime.TotalPrice(s.Nights, apt.PricePerNight)
	return s
}
