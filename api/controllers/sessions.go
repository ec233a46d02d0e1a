package controllers

import (
	"net/http"

	"github.com/cryptobooking/booking-client/api/middleware"
	"github.com/cryptobooking/booking-client/api/responses"
	"github.com/cryptobooking/booking-client/internal/shell"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
)

type sessionResponse struct {
	SessionID string      `json:"session_id"`
	State     shell.State `json:"state"`
}

// SessionCreate opens a new disconnected session.
func SessionCreate(store SessionStore, clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session store unavailable"))
			return
		}

		sess := store.Create()
		if logg != nil {
			logg.Info(logg.WithSessionID(r.Context(), sess.ID()), "session created")
		}

		w.Header().Set(middleware.SessionHeader, sess.ID())
		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{
			SessionID: sess.ID(),
			State:     shell.Build(sess.Snapshot(), clock.now()),
		})
	}
}

// SessionDelete ends the current session and releases its wallet.
func SessionDelete(store SessionStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}
		if !store.Delete(sess.ID()) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "session not found"))
			return
		}
		if logg != nil {
			logg.Info(r.Context(), "session deleted")
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
