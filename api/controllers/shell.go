package controllers

import (
	"net/http"
	"strings"

	"github.com/cryptobooking/booking-client/api/responses"
	"github.com/cryptobooking/booking-client/api/validators"
	"github.com/cryptobooking/booking-client/internal/actions"
	"github.com/cryptobooking/booking-client/internal/shell"
	"github.com/cryptobooking/booking-client/internal/views"
	"github.com/cryptobooking/booking-client/pkg/enums"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
)

// ShellGet renders the full presentation state of the session.
func ShellGet(clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, shell.Build(sess.Snapshot(), clock.now()))
	}
}

type setTabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=browse bookings list"`
}

// ShellSetTab switches tabs and reloads the views the new tab shows.
func ShellSetTab(refresher ViewRefresher, clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}

		var payload setTabRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tab, err := enums.ParseTab(payload.Tab)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown tab"))
			return
		}

		sess.SetTab(tab)
		refreshForTab(r.Context(), refresher, sess, views.ForTab(tab), logg)
		responses.WriteSuccess(w, shell.Build(sess.Snapshot(), clock.now()))
	}
}

// ShellOpenListingModal opens the create-listing form.
func ShellOpenListingModal(clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		if !sess.Connected() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePrecondition, actions.NoticeConnectFirst))
			return
		}
		sess.OpenModal(enums.ModalListing, 0)
		responses.WriteSuccess(w, shell.Build(sess.Snapshot(), clock.now()))
	}
}

type openBookingModalRequest struct {
	ApartmentID *uint64 `json:"apartment_id" validate:"required"`
}

// ShellOpenBookingModal opens the booking form for a unit in the browse view.
func ShellOpenBookingModal(clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}

		var payload openBookingModalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !sess.Connected() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePrecondition, actions.NoticeConnectFirst))
			return
		}
		if _, found := sess.Apartment(*payload.ApartmentID); !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "apartment not found"))
			return
		}

		sess.OpenModal(enums.ModalBooking, *payload.ApartmentID)
		responses.WriteSuccess(w, shell.Build(sess.Snapshot(), clock.now()))
	}
}

func ShellCloseModal(clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		sess.CloseModal()
		responses.WriteSuccess(w, shell.Build(sess.Snapshot(), clock.now()))
	}
}

// ShellQuote prices a prospective stay for the booking form.
func ShellQuote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}

		apartmentID, err := validators.ParseQueryID(r, "apartment_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		apt, found := sess.Apartment(apartmentID)
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "apartment not found"))
			return
		}

		query := r.URL.Query()
		quote, err := shell.QuoteStay(apt, strings.TrimSpace(query.Get("check_in")), strings.TrimSpace(query.Get("check_out")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "dates must be formatted YYYY-MM-DD").
				WithDetails(map[string]any{"check_in": query.Get("check_in"), "check_out": query.Get("check_out")}))
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
