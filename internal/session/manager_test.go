package session

import (
	"testing"
	"time"

	pkgerrors "github.com/cryptobooking/booking-client/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	now := time.Unix(1_000, 0)
	mgr := NewManager(func() time.Time { return now })

	sess := mgr.Create()
	got, err := mgr.Get(sess.ID())
	require.NoError(t, err)
	require.Same(t, sess, got)
	require.Equal(t, 1, mgr.Len())

	require.True(t, mgr.Delete(sess.ID()))
	require.False(t, mgr.Delete(sess.ID()))
	_, err = mgr.Get(sess.ID())
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestManagerRejectsMalformedID(t *testing.T) {
	mgr := NewManager(nil)
	_, err := mgr.Get("not-a-uuid")
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestManagerSweep(t *testing.T) {
	now := time.Unix(1_000, 0)
	mgr := NewManager(func() time.Time { return now })
	idle := mgr.Create()

	now = now.Add(10 * time.Minute)
	active := mgr.Create()

	expired := mgr.Sweep(now.Add(-5 * time.Minute))
	require.Equal(t, []string{idle.ID()}, expired)
	require.Equal(t, 1, mgr.Len())
	_, err := mgr.Get(active.ID())
	require.NoError(t, err)
}
