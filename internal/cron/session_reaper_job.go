package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cryptobooking/booking-client/pkg/logger"
)

const defaultIdleTTL = 30 * time.Minute

// sessionSweeper is the part of the session registry the reaper needs.
type sessionSweeper interface {
	Sweep(idleSince time.Time) []string
}

type SessionReaperJobParams struct {
	Logger   *logger.Logger
	Sessions sessionSweeper
	IdleTTL  time.Duration
	Clock    func() time.Time
}

// NewSessionReaperJob returns a job that drops sessions idle for longer than
// IdleTTL, closing their wallet connections.
func NewSessionReaperJob(params SessionReaperJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session registry required")
	}
	ttl := params.IdleTTL
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &sessionReaperJob{logg: params.Logger, sessions: params.Sessions, ttl: ttl, now: clock}, nil
}

type sessionReaperJob struct {
	logg     *logger.Logger
	sessions sessionSweeper
	ttl      time.Duration
	now      func() time.Time
}

func (j *sessionReaperJob) Name() string { return "session-reaper" }

func (j *sessionReaperJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.ttl)
	expired := j.sessions.Sweep(cutoff)
	if len(expired) == 0 {
		return nil
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff":           cutoff,
		"sessions_reaped":  len(expired),
		"idle_ttl_seconds": int64(j.ttl.Seconds()),
	}), "idle sessions reaped")
	return nil
}
