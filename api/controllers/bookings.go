package controllers

import (
	"context"
	"net/http"

	"github.com/cryptobooking/booking-client/api/responses"
	"github.com/cryptobooking/booking-client/api/validators"
	"github.com/cryptobooking/booking-client/internal/actions"
	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/internal/shell"
	"github.com/cryptobooking/booking-client/internal/views"
	"github.com/cryptobooking/booking-client/pkg/enums"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
)

// BookingsList returns the account's reservations. refresh=true reloads
// them together with the apartments used for name lookup.
func BookingsList(refresher ViewRefresher, clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}

		refresh, err := validators.ParseQueryBool(r, "refresh", false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if refresh && sess.Connected() && refresher != nil {
			if err := refresher.Refresh(r.Context(), sess, views.ForTab(enums.TabBookings)...); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, shell.BookingsPanel(sess.Snapshot(), clock.now()))
	}
}

type bookingActionFunc func(ctx context.Context, sess *session.Session, bookingID uint64, confirm bool) (actions.Result, error)

func bookingAction(action func(BookingActions) bookingActionFunc, svc BookingActions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking actions unavailable"))
			return
		}
		sess, ok := connectedSession(w, r, logg)
		if !ok {
			return
		}
		bookingID, err := validators.ParsePathID(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload confirmRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := action(svc)(r.Context(), sess, bookingID, payload.Confirm)
		writeResult(w, r, logg, http.StatusOK, result, err)
	}
}

func BookingCheckIn(svc BookingActions, logg *logger.Logger) http.HandlerFunc {
	return bookingAction(func(s BookingActions) bookingActionFunc { return s.CheckIn }, svc, logg)
}

func BookingCheckOut(svc BookingActions, logg *logger.Logger) http.HandlerFunc {
	return bookingAction(func(s BookingActions) bookingActionFunc { return s.CheckOut }, svc, logg)
}

func BookingCancel(svc BookingActions, logg *logger.Logger) http.HandlerFunc {
	return bookingAction(func(s BookingActions) bookingActionFunc { return s.CancelBooking }, svc, logg)
}
