package middleware

import (
	"net/http"
	"strings"

	"github.com/cryptobooking/booking-client/api/responses"
	"github.com/cryptobooking/booking-client/internal/session"
	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/cryptobooking/booking-client/pkg/logger"
)

// SessionHeader carries the id returned by POST /api/v1/sessions.
const SessionHeader = "X-Session-Id"

type SessionResolver interface {
	Get(id string) (*session.Session, error)
}

// Session resolves the X-Session-Id header into a live session.
func Session(resolver SessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionHeader))
			if id == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodePrecondition, SessionHeader+" header required"))
				return
			}

			sess, err := resolver.Get(id)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID())
				if conn, _, ok := sess.Connection(); ok {
					ctx = logg.WithAccount(ctx, conn.Account.Hex())
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
