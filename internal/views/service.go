package views

import (
	"context"
	"fmt"

	"github.com/cryptobooking/booking-client/internal/session"
	"github.com/cryptobooking/booking-client/pkg/chain"
	"github.com/cryptobooking/booking-client/pkg/enums"
	"github.com/cryptobooking/booking-client/pkg/logger"
	"github.com/cryptobooking/booking-client/pkg/models"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const defaultBookingConcurrency = 4

// Kind names one read view.
type Kind string

const (
	KindApartments Kind = "apartments"
	KindBookings   Kind = "bookings"
)

// ForTab returns the views a tab renders.
func ForTab(tab enums.Tab) []Kind {
	switch tab {
	case enums.TabBookings:
		return []Kind{KindApartments, KindBookings}
	case enums.TabBrowse, enums.TabList:
		return []Kind{KindApartments}
	default:
		return nil
	}
}

// ServiceParams groups dependencies for the views service.
type ServiceParams struct {
	Logger             *logger.Logger
	BookingConcurrency int
}

// Service refreshes the read views of a session from the contract.
type Service struct {
	logg        *logger.Logger
	concurrency int
}

// NewService builds a views service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	concurrency := params.BookingConcurrency
	if concurrency <= 0 {
		concurrency = defaultBookingConcurrency
	}
	return &Service{logg: params.Logger, concurrency: concurrency}, nil
}

// Refresh refreshes each requested view; failures are combined.
func (s *Service) Refresh(ctx context.Context, sess *session.Session, kinds ...Kind) error {
	var errs error
	for _, kind := range kinds {
		switch kind {
		case KindApartments:
			errs = multierr.Append(errs, s.RefreshApartments(ctx, sess))
		case KindBookings:
			errs = multierr.Append(errs, s.RefreshBookings(ctx, sess))
		default:
			errs = multierr.Append(errs, fmt.Errorf("unknown view %q", kind))
		}
	}
	return errs
}

// RefreshApartments replaces the apartments view. On failure the previous
// collection is kept and the session error is set. No-op when disconnected.
func (s *Service) RefreshApartments(ctx context.Context, sess *session.Session) error {
	conn, generation, ok := sess.Connection()
	if !ok {
		return nil
	}
	done := sess.BeginLoading()
	defer done()

	apartments, err := conn.Contract.Apartments(ctx)
	if err != nil {
		return s.fail(ctx, sess, KindApartments, err)
	}
	if !sess.ReplaceApartments(generation, apartments) {
		s.logg.Debug(s.logg.WithSessionID(ctx, sess.ID()), "discarded apartments fetched for a previous connection")
	}
	return nil
}

// RefreshBookings replaces the bookings view with the connected account's
// reservations: one call for the ids, then one call per id.
func (s *Service) RefreshBookings(ctx context.Context, sess *session.Session) error {
	conn, generation, ok := sess.Connection()
	if !ok {
		return nil
	}
	done := sess.BeginLoading()
	defer done()

	bookings, err := s.fetchBookings(ctx, conn)
	if err != nil {
		return s.fail(ctx, sess, KindBookings, err)
	}
	if !sess.ReplaceBookings(generation, bookings) {
		s.logg.Debug(s.logg.WithSessionID(ctx, sess.ID()), "discarded bookings fetched for a previous connection")
	}
	return nil
}

func (s *Service) fetchBookings(ctx context.Context, conn session.Connection) ([]models.Booking, error) {
	ids, err := conn.Contract.BookingIDs(ctx, conn.Account)
	if err != nil {
		return nil, err
	}
	bookings := make([]models.Booking, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			b, err := conn.Contract.Booking(gctx, id)
			if err != nil {
				return fmt.Errorf("booking %d: %w", id, err)
			}
			bookings[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *Service) fail(ctx context.Context, sess *session.Session, kind Kind, err error) error {
	classified := chain.Classify(err)
	sess.SetError(classified)
	ctx = s.logg.WithFields(s.logg.WithSessionID(ctx, sess.ID()), map[string]any{"view": string(kind)})
	s.logg.Error(ctx, "refresh view failed", err)
	return classified
}
