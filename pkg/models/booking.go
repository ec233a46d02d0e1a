package models

import (
	"math/big"

	"github.com/cryptobooking/booking-client/pkg/enums"
)

// Booking is a reservation record. CheckIn, CheckOut and CreatedAt are
// seconds since epoch; check-in and check-out are UTC-midnight aligned.
type Booking struct {
	ID          uint64
	ApartmentID uint64
	Guest       string
	CheckIn     int64
	CheckOut    int64
	TotalPrice  *big.Int
	Status      enums.BookingStatus
	CreatedAt   int64
}
