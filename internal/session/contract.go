package session

import (
	"context"
	"math/big"

	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/cryptobooking/booking-client/pkg/models"
	"github.com/ethereum/go-ethereum/common"
)

// Reader is the read side of the rental contract proxy.
type Reader interface {
	Apartments(ctx context.Context) ([]models.Apartment, error)
	BookingIDs(ctx context.Context, guest common.Address) ([]uint64, error)
	Booking(ctx context.Context, id uint64) (models.Booking, error)
}

// Writer is the state-changing side of the rental contract proxy. Each call
// submits exactly one transaction.
type Writer interface {
	ListApartment(ctx context.Context, draft models.ApartmentDraft) (chain.Tx, error)
	UpdatePrice(ctx context.Context, apartmentID uint64, price *big.Int) (chain.Tx, error)
	DeleteApartment(ctx context.Context, apartmentID uint64) (chain.Tx, error)
	BookApartment(ctx context.Context, apartmentID uint64, checkIn, checkOut int64, value *big.Int) (chain.Tx, error)
	CheckIn(ctx context.Context, bookingID uint64) (chain.Tx, error)
	CheckOut(ctx context.Context, bookingID uint64) (chain.Tx, error)
	CancelBooking(ctx context.Context, bookingID uint64) (chain.Tx, error)
}

// Contract is a contract proxy bound to the connected account's signer.
type Contract interface {
	Reader
	Writer
}

var _ Contract = (*chain.RentalContract)(nil)
