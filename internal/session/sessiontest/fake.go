// Package sessiontest provides fakes for exercising session consumers
// without a node.
package sessiontest

import (
	"context"
	"io"
	"math/big"
	"sync"
	"testing"

	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/cryptobooking/booking-client/pkg/models"
	"github.com/cryptobooking/booking-client/pkg/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Account is the default connected account.
var Account = common.HexToAddress("0x9F8c1A3bD4e5F6a7B8c9D0e1F2a3B4c5D6e7F8a9")

// Call records one contract invocation.
type Call struct {
	Method string
	Args   []any
	Value  *big.Int
}

// Tx is a fake pending transaction.
type Tx struct {
	hash    string
	waitErr error
	release <-chan struct{}
}

func (t *Tx) Hash() string { return t.hash }

func (t *Tx) Wait(ctx context.Context) error {
	if t.release != nil {
		select {
		case <-t.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return t.waitErr
}

// Contract is an in-memory contract proxy. Zero value serves empty views.
type Contract struct {
	mu sync.Mutex

	Apts       []models.Apartment
	AptsErr    error
	IDs        []uint64
	IDsErr     error
	BookingMap map[uint64]models.Booking
	BookingErr error

	SubmitErr error
	WaitErr   error
	// Block, when set, holds every Wait until it is closed.
	Block chan struct{}

	calls []Call
}

func (c *Contract) record(method string, value *big.Int, args ...any) {
	c.mu.Lock()
	c.calls = append(c.calls, Call{Method: method, Args: args, Value: value})
	c.mu.Unlock()
}

// Calls returns every recorded call.
func (c *Contract) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// CallsTo counts calls to method.
func (c *Contract) CallsTo(method string) int {
	n := 0
	for _, call := range c.Calls() {
		if call.Method == method {
			n++
		}
	}
	return n
}

// Writes returns the recorded state-changing calls.
func (c *Contract) Writes() []Call {
	var out []Call
	for _, call := range c.Calls() {
		switch call.Method {
		case chain.MethodGetAllApartments, chain.MethodGetUserBookings, chain.MethodGetBooking:
			continue
		}
		out = append(out, call)
	}
	return out
}

// SetApartments replaces the served apartments.
func (c *Contract) SetApartments(apts []models.Apartment, err error) {
	c.mu.Lock()
	c.Apts, c.AptsErr = apts, err
	c.mu.Unlock()
}

// SetBookings replaces the served bookings; ids follow slice order.
func (c *Contract) SetBookings(bookings []models.Booking, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.IDs = nil
	c.BookingMap = make(map[uint64]models.Booking, len(bookings))
	for _, b := range bookings {
		c.IDs = append(c.IDs, b.ID)
		c.BookingMap[b.ID] = b
	}
	c.IDsErr = err
}

func (c *Contract) Apartments(context.Context) ([]models.Apartment, error) {
	c.record(chain.MethodGetAllApartments, nil)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AptsErr != nil {
		return nil, c.AptsErr
	}
	return append([]models.Apartment(nil), c.Apts...), nil
}

func (c *Contract) BookingIDs(_ context.Context, guest common.Address) ([]uint64, error) {
	c.record(chain.MethodGetUserBookings, nil, guest)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.IDsErr != nil {
		return nil, c.IDsErr
	}
	return append([]uint64(nil), c.IDs...), nil
}

func (c *Contract) Booking(_ context.Context, id uint64) (models.Booking, error) {
	c.record(chain.MethodGetBooking, nil, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.BookingErr != nil {
		return models.Booking{}, c.BookingErr
	}
	b, ok := c.BookingMap[id]
	if !ok {
		return models.Booking{}, chain.ErrMalformedOutput
	}
	return b, nil
}

func (c *Contract) submit(method string, value *big.Int, args ...any) (chain.Tx, error) {
	c.record(method, value, args...)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.SubmitErr != nil {
		return nil, c.SubmitErr
	}
	return &Tx{hash: "0x" + method, waitErr: c.WaitErr, release: c.Block}, nil
}

func (c *Contract) ListApartment(_ context.Context, draft models.ApartmentDraft) (chain.Tx, error) {
	return c.submit(chain.MethodListApartment, nil, draft)
}

func (c *Contract) UpdatePrice(_ context.Context, id uint64, price *big.Int) (chain.Tx, error) {
	return c.submit(chain.MethodUpdateApartmentPrice, nil, id, price)
}

func (c *Contract) DeleteApartment(_ context.Context, id uint64) (chain.Tx, error) {
	return c.submit(chain.MethodDeleteApartment, nil, id)
}

func (c *Contract) BookApartment(_ context.Context, id uint64, checkIn, checkOut int64, value *big.Int) (chain.Tx, error) {
	return c.submit(chain.MethodBookApartment, value, id, checkIn, checkOut)
}

func (c *Contract) CheckIn(_ context.Context, id uint64) (chain.Tx, error) {
	return c.submit(chain.MethodCheckIn, nil, id)
}

func (c *Contract) CheckOut(_ context.Context, id uint64) (chain.Tx, error) {
	return c.submit(chain.MethodCheckOut, nil, id)
}

func (c *Contract) CancelBooking(_ context.Context, id uint64) (chain.Tx, error) {
	return c.submit(chain.MethodCancelBooking, nil, id)
}

// Provider is a fake wallet provider holding fixed accounts.
type Provider struct {
	Accounts    []common.Address
	AccountsErr error
	SignerErr   error

	mu     sync.Mutex
	closed bool
}

func (p *Provider) RequestAccounts(context.Context) ([]common.Address, error) {
	return p.Accounts, p.AccountsErr
}

func (p *Provider) Signer(_ context.Context, account common.Address) (*bind.TransactOpts, error) {
	if p.SignerErr != nil {
		return nil, p.SignerErr
	}
	return &bind.TransactOpts{From: account}, nil
}

func (p *Provider) Backend() chain.Backend { return nil }

func (p *Provider) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Closed reports whether Close was called.
func (p *Provider) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Detector returns a detector always yielding p.
func (p *Provider) Detector() wallet.Detector {
	return wallet.DetectorFunc(func(context.Context) (wallet.Provider, error) { return p, nil })
}

// Logger returns a logger writing nowhere.
func Logger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

// Connect connects sess to contract as Account through a real Gateway.
func Connect(t testing.TB, sess *session.Session, contract session.Contract) {
	t.Helper()
	provider := &Provider{Accounts: []common.Address{Account}}
	gw, err := session.NewGateway(session.GatewayParams{
		Detector: provider.Detector(),
		Binder: func(chain.Backend, *bind.TransactOpts) (session.Contract, error) {
			return contract, nil
		},
		Logger: Logger(),
	})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	if _, err := gw.Connect(context.Background(), sess); err != nil {
		t.Fatalf("connect: %v", err)
	}
}
