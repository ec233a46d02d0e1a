package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cryptobooking/booking-client/internal/session"
)

type recordingSweeper struct {
	cutoff time.Time
	ids    []string
}

func (r *recordingSweeper) Sweep(idleSince time.Time) []string {
	r.cutoff = idleSince
	return r.ids
}

func TestSessionReaperUsesIdleTTL(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	sweeper := &recordingSweeper{ids: []string{"a"}}
	job, err := NewSessionReaperJob(SessionReaperJobParams{
		Logger:   testLogger(),
		Sessions: sweeper,
		IdleTTL:  15 * time.Minute,
		Clock:    func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "session-reaper" {
		t.Fatalf("unexpected name %s", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := now.Add(-15 * time.Minute); !sweeper.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s got %s", want, sweeper.cutoff)
	}
}

func TestSessionReaperRemovesIdleSessions(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	manager := session.NewManager(clock)
	idle := manager.Create()
	now = now.Add(time.Hour)
	fresh := manager.Create()

	job, err := NewSessionReaperJob(SessionReaperJobParams{
		Logger:   testLogger(),
		Sessions: manager,
		IdleTTL:  30 * time.Minute,
		Clock:    clock,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := manager.Get(idle.ID()); err == nil {
		t.Fatalf("idle session should be reaped")
	}
	if _, err := manager.Get(fresh.ID()); err != nil {
		t.Fatalf("fresh session should survive: %v", err)
	}
}

func TestNewSessionReaperJobRequiresDependencies(t *testing.T) {
	if _, err := NewSessionReaperJob(SessionReaperJobParams{Logger: testLogger()}); err == nil {
		t.Fatalf("expected error without session registry")
	}
}
