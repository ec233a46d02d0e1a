package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/cryptobooking/booking-client/api/middleware"
	"github.com/cryptobooking/booking-client/api/responses"
	"github.com/cryptobooking/booking-client/internal/actions"
	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/internal/views"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
)

type SessionStore interface {
	Create() *session.Session
	Delete(id string) bool
}

type WalletGateway interface {
	Connect(ctx context.Context, sess *session.Session) (string, error)
	Disconnect(ctx context.Context, sess *session.Session) string
}

type ViewRefresher interface {
	Refresh(ctx context.Context, sess *session.Session, kinds ...views.Kind) error
}

type ApartmentActions interface {
	ListApartment(ctx context.Context, sess *session.Session, in actions.ListingInput) (actions.Result, error)
	UpdatePrice(ctx context.Context, sess *session.Session, apartmentID uint64, priceText string) (actions.Result, error)
	DeleteApartment(ctx context.Context, sess *session.Session, apartmentID uint64, confirm bool) (actions.Result, error)
	Book(ctx context.Context, sess *session.Session, apartmentID uint64, checkIn, checkOut string) (actions.Result, error)
}

type BookingActions interface {
	CheckIn(ctx context.Context, sess *session.Session, bookingID uint64, confirm bool) (actions.Result, error)
	CheckOut(ctx context.Context, sess *session.Session, bookingID uint64, confirm bool) (actions.Result, error)
	CancelBooking(ctx context.Context, sess *session.Session, bookingID uint64, confirm bool) (actions.Result, error)
}

// Clock is the time source used to render visibility rules.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func currentSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePrecondition, "session context missing"))
		return nil, false
	}
	return sess, true
}

// connectedSession gates write handlers on a live wallet connection, ahead
// of any body parsing.
func connectedSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Session, bool) {
	sess, ok := currentSession(w, r, logg)
	if !ok {
		return nil, false
	}
	if !sess.Connected() {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePrecondition, actions.NoticeConnectFirst))
		return nil, false
	}
	return sess, true
}

// refreshForTab reloads the views behind tab. Failures are already
// recorded on the session, so they are only logged here.
func refreshForTab(ctx context.Context, refresher ViewRefresher, sess *session.Session, kinds []views.Kind, logg *logger.Logger) {
	if refresher == nil || !sess.Connected() {
		return
	}
	if err := refresher.Refresh(ctx, sess, kinds...); err != nil && logg != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "view refresh failed")
	}
}
