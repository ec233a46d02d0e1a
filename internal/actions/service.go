package actions

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/internal/shell"
	"github.com/cryptobooking/booking-client/internal/views"
	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/cryptobooking/booking-client/pkg/enums"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/cryptobooking/booking-client/pkg/models"
)

// Action names.
const (
	ActionList        = "list_apartment"
	ActionUpdatePrice = "update_price"
	ActionDelete      = "delete_apartment"
	ActionBook        = "book_apartment"
	ActionCheckIn     = "check_in"
	ActionCheckOut    = "check_out"
	ActionCancel      = "cancel_booking"
)

const NoticeConnectFirst = "Please connect your wallet first"

// Refresher re-reads views after a finalized write.
type Refresher interface {
	Refresh(ctx context.Context, sess *session.Session, kinds ...views.Kind) error
}

// Result describes a finalized write.
type Result struct {
	Action       string       `json:"action"`
	TxHash       string       `json:"tx_hash"`
	Notice       string       `json:"notice"`
	Refreshed    []views.Kind `json:"refreshed"`
	RefreshError string       `json:"refresh_error,omitempty"`
	Stay         *StayResult  `json:"stay,omitempty"`
}

// StayResult echoes the priced stay of a booking.
type StayResult struct {
	Nights   int64  `json:"nights"`
	TotalWei string `json:"total_wei"`
}

// ServiceParams groups dependencies for the actions service.
type ServiceParams struct {
	Views    Refresher
	InFlight InFlight
	Logger   *logger.Logger
	Clock    func() time.Time
}

// Service executes state-changing contract calls on behalf of a session.
type Service struct {
	views    Refresher
	inFlight InFlight
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds an actions service with the required dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Views == nil {
		return nil, fmt.Errorf("views refresher required")
	}
	if params.InFlight == nil {
		return nil, fmt.Errorf("in-flight tokens required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		views:    params.Views,
		inFlight: params.InFlight,
		logg:     params.Logger,
		now:      clock,
	}, nil
}

// write is one state-changing call in the uniform action shape.
type write struct {
	name    string
	notice  string
	refresh []views.Kind
	submit  func(ctx context.Context, c session.Contract) (chain.Tx, error)
}

// ListApartment lists a new unit owned by the connected account.
func (s *Service) ListApartment(ctx context.Context, sess *session.Session, in ListingInput) (Result, error) {
	ctx = s.scope(ctx, sess, ActionList)
	if _, err := s.connection(ctx, sess); err != nil {
		return Result{}, err
	}
	draft, err := validateListing(in)
	if err != nil {
		return Result{}, s.reject(ctx, err)
	}
	return s.execute(ctx, sess, write{
		name:    ActionList,
		notice:  "Apartment listed successfully!",
		refresh: []views.Kind{views.KindApartments},
		submit: func(ctx context.Context, c session.Contract) (chain.Tx, error) {
			return c.ListApartment(ctx, draft)
		},
	})
}

// UpdatePrice changes the nightly price of a unit the account owns.
func (s *Service) UpdatePrice(ctx context.Context, sess *session.Session, apartmentID uint64, priceText string) (Result, error) {
	ctx = s.scope(ctx, sess, ActionUpdatePrice)
	conn, err := s.connection(ctx, sess)
	if err != nil {
		return Result{}, err
	}
	price, err := parsePrice(priceText)
	if err != nil {
		return Result{}, s.reject(ctx, err)
	}
	if _, err := s.ownedApartment(ctx, sess, conn, apartmentID); err != nil {
		return Result{}, err
	}
	return s.execute(ctx, sess, write{
		name:    ActionUpdatePrice,
		notice:  "Price updated successfully!",
		refresh: []views.Kind{views.KindApartments},
		submit: func(ctx context.Context, c session.Contract) (chain.Tx, error) {
			return c.UpdatePrice(ctx, apartmentID, price)
		},
	})
}

// DeleteApartment removes a unit the account owns. Requires confirmation.
func (s *Service) DeleteApartment(ctx context.Context, sess *session.Session, apartmentID uint64, confirm bool) (Result, error) {
	ctx = s.scope(ctx, sess, ActionDelete)
	conn, err := s.connection(ctx, sess)
	if err != nil {
		return Result{}, err
	}
	if _, err := s.ownedApartment(ctx, sess, conn, apartmentID); err != nil {
		return Result{}, err
	}
	if err := s.confirmed(ctx, ActionDelete, confirm); err != nil {
		return Result{}, err
	}
	return s.execute(ctx, sess, write{
		name:    ActionDelete,
		notice:  "Apartment deleted successfully!",
		refresh: []views.Kind{views.KindApartments},
		submit: func(ctx context.Context, c session.Contract) (chain.Tx, error) {
			return c.DeleteApartment(ctx, apartmentID)
		},
	})
}

// Book reserves apartmentID for the given dates, paying nights x price.
func (s *Service) Book(ctx context.Context, sess *session.Session, apartmentID uint64, checkIn, checkOut string) (Result, error) {
	ctx = s.scope(ctx, sess, ActionBook)
	if _, err := s.connection(ctx, sess); err != nil {
		return Result{}, err
	}
	dates, err := validateDates(checkIn, checkOut, s.now())
	if err != nil {
		return Result{}, s.reject(ctx, err)
	}
	apt, err := s.apartment(ctx, sess, apartmentID)
	if err != nil {
		return Result{}, err
	}
	stay := dates.pricedFor(apt)
	result, err := s.execute(ctx, sess, write{
		name:    ActionBook,
		notice:  "Apartment booked successfully!",
		refresh: []views.Kind{views.KindApartments, views.KindBookings},
		submit: func(ctx context.Context, c session.Contract) (chain.Tx, error) {
			return c.BookApartment(ctx, stay.ApartmentID, stay.CheckIn, stay.CheckOut, new(big.Int).Set(stay.Total))
		},
	})
	if err != nil {
		return Result{}, err
	}
	result.Stay = &StayResult{Nights: stay.Nights, TotalWei: stay.Total.String()}
	sess.CloseModal()
	return result, nil
}

// CheckIn checks the guest in. Requires confirmation.
func (s *Service) CheckIn(ctx context.Context, sess *session.Session, bookingID uint64, confirm bool) (Result, error) {
	return s.bookingAction(ctx, sess, bookingID, confirm, enums.BookingActionCheckIn, write{
		name:   ActionCheckIn,
		notice: "Checked in successfully!",
		submit: func(ctx context.Context, c session.Contract) (chain.Tx, error) {
			return c.CheckIn(ctx, bookingID)
		},
	})
}

// CheckOut checks the guest out. Requires confirmation.
func (s *Service) CheckOut(ctx context.Context, sess *session.Session, bookingID uint64, confirm bool) (Result, error) {
	return s.bookingAction(ctx, sess, bookingID, confirm, enums.BookingActionCheckOut, write{
		name:   ActionCheckOut,
		notice: "Checked out successfully!",
		submit: func(ctx context.Context, c session.Contract) (chain.Tx, error) {
			return c.CheckOut(ctx, bookingID)
		},
	})
}

// CancelBooking cancels a future reservation. Requires confirmation.
func (s *Service) CancelBooking(ctx context.Context, sess *session.Session, bookingID uint64, confirm bool) (Result, error) {
	return s.bookingAction(ctx, sess, bookingID, confirm, enums.BookingActionCancel, write{
		name:   ActionCancel,
		notice: "Booking cancelled successfully!",
		submit: func(ctx context.Context, c session.Contract) (chain.Tx, error) {
			return c.CancelBooking(ctx, bookingID)
		},
	})
}

func (s *Service) bookingAction(ctx context.Context, sess *session.Session, bookingID uint64, confirm bool, action enums.BookingAction, w write) (Result, error) {
	ctx = s.scope(ctx, sess, w.name)
	if _, err := s.connection(ctx, sess); err != nil {
		return Result{}, err
	}
	booking, err := s.booking(ctx, sess, bookingID)
	if err != nil {
		return Result{}, err
	}
	if !shell.Offers(booking, action, s.now()) {
		return Result{}, s.reject(ctx, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("Booking #%d cannot %s while %s", bookingID, action, booking.Status)).
			WithDetails(map[string]any{"status": booking.Status, "action": action}))
	}
	if err := s.confirmed(ctx, w.name, confirm); err != nil {
		return Result{}, err
	}
	w.refresh = []views.Kind{views.KindBookings}
	return s.execute(ctx, sess, w)
}

// execute acquires the account's in-flight token, submits exactly one call,
// waits for finalization and refreshes the affected views.
func (s *Service) execute(ctx context.Context, sess *session.Session, w write) (Result, error) {
	conn, err := s.connection(ctx, sess)
	if err != nil {
		return Result{}, err
	}
	release, err := s.inFlight.Acquire(ctx, conn.Account.Hex())
	if err != nil {
		return Result{}, s.reject(ctx, err)
	}
	defer release(context.WithoutCancel(ctx))

	done := sess.BeginLoading()
	tx, err := w.submit(ctx, conn.Contract)
	if err == nil {
		ctx = s.logg.WithField(ctx, "tx_hash", tx.Hash())
		s.logg.Info(ctx, "transaction submitted")
		err = tx.Wait(ctx)
	}
	done()
	if err != nil {
		classified := chain.Classify(err)
		sess.SetError(classified)
		s.logg.Error(ctx, "Transaction failed", err)
		return Result{}, classified
	}

	sess.ClearError()
	s.logg.Info(ctx, "transaction finalized")
	result := Result{Action: w.name, TxHash: tx.Hash(), Notice: w.notice, Refreshed: w.refresh}
	if refreshErr := s.views.Refresh(ctx, sess, w.refresh...); refreshErr != nil {
		result.RefreshError = pkgerrors.UserMessage(refreshErr)
		s.logg.Warn(s.logg.WithField(ctx, "error", refreshErr.Error()), "refresh after write failed")
	}
	return result, nil
}

func (s *Service) scope(ctx context.Context, sess *session.Session, action string) context.Context {
	return s.logg.WithAction(s.logg.WithSessionID(ctx, sess.ID()), action)
}

func (s *Service) connection(ctx context.Context, sess *session.Session) (session.Connection, error) {
	conn, _, ok := sess.Connection()
	if !ok {
		return session.Connection{}, s.reject(ctx, pkgerrors.New(pkgerrors.CodePrecondition, NoticeConnectFirst))
	}
	return conn, nil
}

func (s *Service) confirmed(ctx context.Context, action string, confirm bool) error {
	if confirm {
		return nil
	}
	return s.reject(ctx, pkgerrors.New(pkgerrors.CodePrecondition, "Confirmation required").
		WithDetails(map[string]any{"action": action, "confirm": false}))
}

// apartment resolves a unit from the apartments view, refreshing it once
// when the unit is not there yet.
func (s *Service) apartment(ctx context.Context, sess *session.Session, id uint64) (models.Apartment, error) {
	if apt, ok := sess.Apartment(id); ok {
		return apt, nil
	}
	if err := s.views.Refresh(ctx, sess, views.KindApartments); err != nil {
		return models.Apartment{}, err
	}
	if apt, ok := sess.Apartment(id); ok {
		return apt, nil
	}
	return models.Apartment{}, s.reject(ctx, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Apartment #%d not found", id)))
}

func (s *Service) ownedApartment(ctx context.Context, sess *session.Session, conn session.Connection, id uint64) (models.Apartment, error) {
	apt, err := s.apartment(ctx, sess, id)
	if err != nil {
		return models.Apartment{}, err
	}
	if !shell.OwnedBy(apt, conn.Account.Hex()) {
		return models.Apartment{}, s.reject(ctx, pkgerrors.New(pkgerrors.CodeForbidden, "Only the owner can modify this apartment"))
	}
	return apt, nil
}

func (s *Service) booking(ctx context.Context, sess *session.Session, id uint64) (models.Booking, error) {
	if b, ok := sess.Booking(id); ok {
		return b, nil
	}
	if err := s.views.Refresh(ctx, sess, views.KindBookings); err != nil {
		return models.Booking{}, err
	}
	if b, ok := sess.Booking(id); ok {
		return b, nil
	}
	return models.Booking{}, s.reject(ctx, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("Booking #%d not found", id)))
}

// reject logs a locally refused action once and returns err unchanged.
func (s *Service) reject(ctx context.Context, err error) error {
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"error":      err.Error(),
		"error_code": string(pkgerrors.CodeOf(err)),
	}), "action rejected")
	return err
}
