package shell

import (
	"math/big"

	"github.com/cryptobooking/booking-client/pkg/contracttime"
	"github.com/cryptobooking/booking-client/pkg/ether"
	"github.com/cryptobooking/booking-client/pkg/models"
)

// Quote is the live price shown in the booking modal.
type Quote struct {
	ApartmentID uint64   `json:"apartment_id"`
	CheckIn     int64    `json:"check_in"`
	CheckOut    int64    `json:"check_out"`
	Nights      int64    `json:"nights"`
	Total       *big.Int `json:"-"`
	TotalWei    string   `json:"total_wei"`
	TotalEth    string   `json:"total_eth"`
	CanConfirm  bool     `json:"can_confirm"`
}

// QuoteStay prices a stay at apt. Confirmation is only possible for at
// least one night.
func QuoteStay(apt models.Apartment, checkInText, checkOutText string) (Quote, error) {
	checkIn, err := contracttime.ToContractTimestamp(checkInText)
	if err != nil {
		return Quote{}, err
	}
	checkOut, err := contracttime.ToContractTimestamp(checkOutText)
	if err != nil {
		return Quote{}, err
	}
	nights := contracttime.Nights(checkIn, checkOut)
	total := contracttime.TotalPrice(nights, apt.PricePerNight)
	return Quote{
		ApartmentID: apt.ID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Nights:      nights,
		Total:       total,
		TotalWei:    total.String(),
		TotalEth:    ether.FormatEther(total),
		CanConfirm:  nights > 0,
	}, nil
}
