package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cryptobooking/booking-client/pkg/metrics"
	"github.com/cryptobooking/booking-client/pkg/models"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// ErrNoSigner is returned by writes on a contract bound without a signer.
var ErrNoSigner = errors.New("contract bound without signer")

// Backend is the node connection the contract proxy talks through.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Options tunes a bound contract.
type Options struct {
	ReadTimeout    time.Duration
	ReceiptTimeout time.Duration
	GasLimit       uint64
	Metrics        *metrics.ContractCallMetrics
}

// RentalContract is the rental contract bound to one signer.
type RentalContract struct {
	address common.Address
	bound   *bind.BoundContract
	backend Backend
	signer  *bind.TransactOpts
	opts    Options
}

// Bind returns a contract proxy for address. Reads are issued from the
// signer's account when one is given.
func Bind(address common.Address, backend Backend, signer *bind.TransactOpts, opts Options) (*RentalContract, error) {
	if backend == nil {
		return nil, errors.New("chain backend is required")
	}
	parsed, err := ParsedABI()
	if err != nil {
		return nil, err
	}
	return &RentalContract{
		address: address,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend: backend,
		signer:  signer,
		opts:    opts,
	}, nil
}

// Address returns the contract address.
func (c *RentalContract) Address() common.Address {
	return c.address
}

// Apartments returns every listed unit.
func (c *RentalContract) Apartments(ctx context.Context) ([]models.Apartment, error) {
	out, err := c.call(ctx, MethodGetAllApartments)
	if err != nil {
		return nil, err
	}
	return decodeApartments(out)
}

// BookingIDs returns the reservation ids held by guest.
func (c *RentalContract) BookingIDs(ctx context.Context, guest common.Address) ([]uint64, error) {
	out, err := c.call(ctx, MethodGetUserBookings, guest)
	if err != nil {
		return nil, err
	}
	return decodeBookingIDs(out)
}

// Booking returns a single reservation.
func (c *RentalContract) Booking(ctx context.Context, id uint64) (models.Booking, error) {
	out, err := c.call(ctx, MethodGetBooking, new(big.Int).SetUint64(id))
	if err != nil {
		return models.Booking{}, err
	}
	return decodeBooking(out)
}

func (c *RentalContract) ListApartment(ctx context.Context, draft models.ApartmentDraft) (Tx, error) {
	images := draft.ImageURLs
	if images == nil {
		images = []string{}
	}
	return c.transact(ctx, nil, MethodListApartment,
		draft.Name, draft.Location, draft.Description, draft.PricePerNight, images)
}

func (c *RentalContract) UpdatePrice(ctx context.Context, apartmentID uint64, price *big.Int) (Tx, error) {
	return c.transact(ctx, nil, MethodUpdateApartmentPrice, new(big.Int).SetUint64(apartmentID), price)
}

func (c *RentalContract) DeleteApartment(ctx context.Context, apartmentID uint64) (Tx, error) {
	return c.transact(ctx, nil, MethodDeleteApartment, new(big.Int).SetUint64(apartmentID))
}

// BookApartment reserves a unit, attaching value as payment.
func (c *RentalContract) BookApartment(ctx context.Context, apartmentID uint64, checkIn, checkOut int64, value *big.Int) (Tx, error) {
	return c.transact(ctx, value, MethodBookApartment,
		new(big.Int).SetUint64(apartmentID), big.NewInt(checkIn), big.NewInt(checkOut))
}

func (c *RentalContract) CheckIn(ctx context.Context, bookingID uint64) (Tx, error) {
	return c.transact(ctx, nil, MethodCheckIn, new(big.Int).SetUint64(bookingID))
}

func (c *RentalContract) CheckOut(ctx context.Context, bookingID uint64) (Tx, error) {
	return c.transact(ctx, nil, MethodCheckOut, new(big.Int).SetUint64(bookingID))
}

func (c *RentalContract) CancelBooking(ctx context.Context, bookingID uint64) (Tx, error) {
	return c.transact(ctx, nil, MethodCancelBooking, new(big.Int).SetUint64(bookingID))
}

func (c *RentalContract) call(ctx context.Context, method string, params ...any) (out []any, err error) {
	start := time.Now()
	defer func() { c.opts.Metrics.Observe(method, metrics.KindRead, time.Since(start), err) }()

	if c.opts.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ReadTimeout)
		defer cancel()
	}
	callOpts := &bind.CallOpts{Context: ctx}
	if c.signer != nil {
		callOpts.From = c.signer.From
	}
	if err := c.bound.Call(callOpts, &out, method, params...); err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	return out, nil
}

func (c *RentalContract) transact(ctx context.Context, value *big.Int, method string, params ...any) (_ Tx, err error) {
	start := time.Now()
	defer func() { c.opts.Metrics.Observe(method, metrics.KindWrite, time.Since(start), err) }()

	if c.signer == nil {
		return nil, ErrNoSigner
	}
	opts := *c.signer
	opts.Context = ctx
	opts.Value = value
	if c.opts.GasLimit > 0 {
		opts.GasLimit = c.opts.GasLimit
	}
	tx, err := c.bound.Transact(&opts, method, params...)
	if err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}
	return &pendingTx{
		method:  method,
		tx:      tx,
		backend: c.backend,
		timeout: c.opts.ReceiptTimeout,
		metrics: c.opts.Metrics,
	}, nil
}
