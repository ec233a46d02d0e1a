package controllers

import (
	"net/http"

	"github.com/cryptobooking/booking-client/api/responses"
	"github.com/cryptobooking/booking-client/internal/shell"
	"github.com/cryptobooking/booking-client/internal/views"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
)

// WalletConnect runs the wallet handshake and reloads the active tab's views.
func WalletConnect(gateway WalletGateway, refresher ViewRefresher, clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gateway == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet gateway unavailable"))
			return
		}
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}

		notice, err := gateway.Connect(r.Context(), sess)
		if err != nil {
			responses.WriteErrorNotice(r.Context(), logg, w, err, notice)
			return
		}

		refreshForTab(r.Context(), refresher, sess, views.ForTab(sess.Tab()), logg)
		responses.WriteSuccessNotice(w, http.StatusOK, shell.Build(sess.Snapshot(), clock.now()), notice)
	}
}

func WalletDisconnect(gateway WalletGateway, clock Clock, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gateway == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "wallet gateway unavailable"))
			return
		}
		sess, ok := currentSession(w, r, logg)
		if !ok {
			return
		}

		notice := gateway.Disconnect(r.Context(), sess)
		responses.WriteSuccessNotice(w, http.StatusOK, shell.Build(sess.Snapshot(), clock.now()), notice)
	}
}
