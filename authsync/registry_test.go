package authsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/clerksync"
	"github.com/xy-planning-network/clerksync/authsync"
	"github.com/xy-planning-network/clerksync/http/session"
)

func TestRegistryWaitReleasesDeferredActions(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry()
	want := session.Flash{Class: session.FlashSuccess, Msg: "Welcome back!"}
	uid := reg.Defer(authsync.FlashAction(want))

	done := make(chan struct{})
	var actions []authsync.Action
	var err error
	go func() {
		actions, err = reg.Wait(context.Background(), "session-a", uid)
		close(done)
	}()

	// Act: the frontend event lands after the waiter started.
	time.Sleep(20 * time.Millisecond)
	reg.State("session-a").SetSession()

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiter never released")
	}
	require.Nil(t, err)
	require.Len(t, actions, 1)
	f, err := actions[0](context.Background())
	require.Nil(t, err)
	require.Equal(t, want, f)

	// Act: the entry was consumed; a second wait yields the default action.
	actions, err = reg.Wait(context.Background(), "session-a", uid)

	// Assert
	require.Nil(t, err)
	require.Len(t, actions, 1)
	f, err = actions[0](context.Background())
	require.Nil(t, err)
	require.Equal(t, session.AuthCheckedMsg, f.Msg)
	require.Equal(t, session.FlashInfo, f.Class)
}

func TestRegistryWaitUnknownID(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry()
	reg.State("session-a").ClearSession()

	// Act
	actions, err := reg.Wait(context.Background(), "session-a", uuid.New())

	// Assert
	require.Nil(t, err)
	require.Len(t, actions, 1)
	f, err := actions[0](context.Background())
	require.Nil(t, err)
	require.Equal(t, session.AuthCheckedMsg, f.Msg)
}

func TestRegistryWaitEmptyDeferral(t *testing.T) {
	// Arrange: the page load registered its uid but deferred nothing.
	reg := authsync.NewRegistry()
	uid := reg.Defer()
	reg.State("session-a").SetSession()

	// Act
	actions, err := reg.Wait(context.Background(), "session-a", uid)

	// Assert
	require.Nil(t, err)
	require.Len(t, actions, 1)
	f, err := actions[0](context.Background())
	require.Nil(t, err)
	require.Equal(t, session.AuthCheckedMsg, f.Msg)
	require.Equal(t, session.FlashInfo, f.Class)
}

func TestRegistryWaitTimesOut(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry(authsync.WithWaitTimeout(25 * time.Millisecond))
	uid := reg.Defer(authsync.FlashAction(session.Flash{Msg: "never delivered"}))

	// Act
	start := time.Now()
	actions, err := reg.Wait(context.Background(), "session-a", uid)

	// Assert
	require.ErrorIs(t, err, clerksync.ErrTimeout)
	require.Empty(t, actions)
	require.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestRegistryWaitHonorsContext(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	actions, err := reg.Wait(ctx, "session-a", uuid.New())

	// Assert
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, actions)
}

func TestRegistryWaitAfterEvent(t *testing.T) {
	// Arrange: the event already landed before the waiter arrives.
	reg := authsync.NewRegistry()
	reg.State("session-a").SetSession()
	uid := reg.Defer(authsync.FlashAction(session.Flash{Class: session.FlashInfo, Msg: "deferred"}))

	// Act
	start := time.Now()
	actions, err := reg.Wait(context.Background(), "session-a", uid)

	// Assert: no poll interval to wait out.
	require.Nil(t, err)
	require.Len(t, actions, 1)
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRegistryWaitDevReset(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry(authsync.WithWaitTimeout(25 * time.Millisecond))
	st := reg.State("session-a")
	st.SetSession()
	st.DevReset()

	// Act: after a reset waiters block again.
	_, err := reg.Wait(context.Background(), "session-a", uuid.New())

	// Assert
	require.ErrorIs(t, err, clerksync.ErrTimeout)
}

func TestRegistryConcurrentWaiters(t *testing.T) {
	// Arrange: one waiter per session, fully independent.
	reg := authsync.NewRegistry()
	uidA := reg.Defer(authsync.FlashAction(session.Flash{Msg: "for a"}))
	uidB := reg.Defer(authsync.FlashAction(session.Flash{Msg: "for b"}))

	type result struct {
		actions []authsync.Action
		err     error
	}
	resA := make(chan result, 1)
	resB := make(chan result, 1)
	go func() {
		actions, err := reg.Wait(context.Background(), "session-a", uidA)
		resA <- result{actions, err}
	}()
	go func() {
		actions, err := reg.Wait(context.Background(), "session-b", uidB)
		resB <- result{actions, err}
	}()

	// Act
	reg.State("session-b").ClearSession()
	reg.State("session-a").SetSession()

	// Assert
	for name, ch := range map[string]chan result{"a": resA, "b": resB} {
		select {
		case res := <-ch:
			require.Nil(t, res.err, "session %s", name)
			require.Len(t, res.actions, 1, "session %s", name)
		case <-time.After(time.Second):
			t.Fatalf("waiter for session %s never released", name)
		}
	}
}

func TestRegistryDeferEvictsStaleEntries(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry(authsync.WithDeferralMaxAge(10 * time.Millisecond))
	stale := reg.Defer(authsync.FlashAction(session.Flash{Msg: "abandoned"}))
	time.Sleep(20 * time.Millisecond)

	// Act: a later registration sweeps the abandoned entry.
	reg.Defer(authsync.FlashAction(session.Flash{Msg: "fresh"}))
	reg.State("session-a").SetSession()
	actions, err := reg.Wait(context.Background(), "session-a", stale)

	// Assert
	require.Nil(t, err)
	require.Len(t, actions, 1)
	f, _ := actions[0](context.Background())
	require.Equal(t, session.AuthCheckedMsg, f.Msg)
}
