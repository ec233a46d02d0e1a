package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cryptobooking/booking-client/api/controllers"
	"github.com/cryptobooking/booking-client/api/middleware"
	"github.com/cryptobooking/booking-client/internal/actions"
	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/internal/views"
	"github.com/cryptobooking/booking-client/pkg/config"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/cryptobooking/booking-client/pkg/redis"
)

// RouterParams groups the dependencies of the HTTP surface. Redis and
// Gatherer are optional.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions *session.Manager
	Gateway  controllers.WalletGateway
	Views    *views.Service
	Actions  *actions.Service
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
	Clock    func() time.Time
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger
	clock := controllers.Clock(params.Clock)

	// Typed nils must not reach the middleware as non-nil interfaces.
	var (
		redisPinger      redis.Pinger
		idempotencyStore redis.IdempotencyStore
	)
	if params.Redis != nil {
		redisPinger = params.Redis
		idempotencyStore = params.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisPinger, logg))
	})

	metricsHandler := promhttp.Handler()
	if params.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(params.Gatherer, promhttp.HandlerOpts{})
	}
	r.Handle("/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", controllers.SessionCreate(params.Sessions, clock, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(params.Sessions, logg))
			r.Use(middleware.Idempotency(idempotencyStore, logg))

			r.Delete("/sessions/current", controllers.SessionDelete(params.Sessions, logg))

			r.Route("/wallet", func(r chi.Router) {
				r.Post("/connect", controllers.WalletConnect(params.Gateway, params.Views, clock, logg))
				r.Post("/disconnect", controllers.WalletDisconnect(params.Gateway, clock, logg))
			})

			r.Route("/shell", func(r chi.Router) {
				r.Get("/", controllers.ShellGet(clock, logg))
				r.Put("/tab", controllers.ShellSetTab(params.Views, clock, logg))
				r.Get("/quote", controllers.ShellQuote(logg))
				r.Post("/modals/listing", controllers.ShellOpenListingModal(clock, logg))
				r.Post("/modals/booking", controllers.ShellOpenBookingModal(clock, logg))
				r.Delete("/modals", controllers.ShellCloseModal(clock, logg))
			})

			r.Route("/apartments", func(r chi.Router) {
				r.Get("/", controllers.ApartmentsList(params.Views, logg))
				r.Post("/", controllers.ApartmentCreate(params.Actions, logg))
				r.Patch("/{apartmentId}/price", controllers.ApartmentUpdatePrice(params.Actions, logg))
				r.Delete("/{apartmentId}", controllers.ApartmentDelete(params.Actions, logg))
				r.Post("/{apartmentId}/bookings", controllers.ApartmentBook(params.Actions, logg))
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Get("/", controllers.BookingsList(params.Views, clock, logg))
				r.Post("/{bookingId}/check-in", controllers.BookingCheckIn(params.Actions, logg))
				r.Post("/{bookingId}/check-out", controllers.BookingCheckOut(params.Actions, logg))
				r.Post("/{bookingId}/cancel", controllers.BookingCancel(params.Actions, logg))
			})
		})
	})

	return r
}
