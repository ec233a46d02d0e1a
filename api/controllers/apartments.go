package controllers

import (
	"net/http"

	"github.com/cryptobooking/booking-client/api/responses"
	"github.com/cryptobooking/booking-client/api/validators"
	"github.com/cryptobooking/booking-client/internal/actions"
	"github.com/cryptobooking/booking-client/internal/shell"
	"github.com/cryptobooking/booking-client/internal/views"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
)

// ApartmentsList returns the browse view, reloading it first when
// refresh=true. A failed reload is returned as an error.
func ApartmentsList(refresher ViewRefresher, logg *logger.Logger) http.HandlerFunc {
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
			if err := refresher.Refresh(r.Context(), sess, views.KindApartments); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, shell.BrowsePanel(sess.Snapshot()))
	}
}

type listApartmentRequest struct {
	Name        string   `json:"name" validate:"required,max=120"`
	Location    string   `json:"location" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Price       string   `json:"price" validate:"required"`
	ImageURLs   []string `json:"image_urls" validate:"max=20,dive,max=2048"`
}

func (p listApartmentRequest) toInput() actions.ListingInput {
	return actions.ListingInput{
		Name:        validators.SanitizeString(p.Name),
		Location:    validators.SanitizeString(p.Location),
		Description: validators.SanitizeString(p.Description),
		Price:       p.Price,
		ImageURLs:   validators.SanitizeList(p.ImageURLs),
	}
}

// ApartmentCreate lists a new unit for the connected account.
func ApartmentCreate(svc ApartmentActions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "apartment actions unavailable"))
			return
		}
		sess, ok := connectedSession(w, r, logg)
		if !ok {
			return
		}

		var payload listApartmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListApartment(r.Context(), sess, payload.toInput())
		writeResult(w, r, logg, http.StatusCreated, result, err)
	}
}

type updatePriceRequest struct {
	Price string `json:"price" validate:"required"`
}

func ApartmentUpdatePrice(svc ApartmentActions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "apartment actions unavailable"))
			return
		}
		sess, ok := connectedSession(w, r, logg)
		if !ok {
			return
		}
		apartmentID, err := validators.ParsePathID(r, "apartmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdatePrice(r.Context(), sess, apartmentID, payload.Price)
		writeResult(w, r, logg, http.StatusOK, result, err)
	}
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

func ApartmentDelete(svc ApartmentActions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "apartment actions unavailable"))
			return
		}
		sess, ok := connectedSession(w, r, logg)
		if !ok {
			return
		}
		apartmentID, err := validators.ParsePathID(r, "apartmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload confirmRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.DeleteApartment(r.Context(), sess, apartmentID, payload.Confirm)
		writeResult(w, r, logg, http.StatusOK, result, err)
	}
}

type bookApartmentRequest struct {
	CheckIn  string `json:"check_in" validate:"required"`
	CheckOut string `json:"check_out" validate:"required"`
}

// ApartmentBook reserves a unit, paying nights x price per night.
func ApartmentBook(svc ApartmentActions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "apartment actions unavailable"))
			return
		}
		sess, ok := connectedSession(w, r, logg)
		if !ok {
			return
		}
		apartmentID, err := validators.ParsePathID(r, "apartmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bookApartmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Book(r.Context(), sess, apartmentID, payload.CheckIn, payload.CheckOut)
		writeResult(w, r, logg, http.StatusCreated, result, err)
	}
}

func writeResult(w http.ResponseWriter, r *http.Request, logg *logger.Logger, status int, result actions.Result, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccessNotice(w, status, result, result.Notice)
}
