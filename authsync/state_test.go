package authsync_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/clerksync/authsync"
	"github.com/xy-planning-network/clerksync/http/session"
)

func TestStateEventSequences(t *testing.T) {
	tcs := []struct {
		name     string
		events   []string
		signedIn bool
	}{
		{"Sign-In", []string{"in"}, true},
		{"Sign-Out", []string{"out"}, false},
		{"Sign-In-Then-Out", []string{"in", "out"}, false},
		{"Sign-Out-Then-In", []string{"out", "in"}, true},
		{"Repeated-Sign-In", []string{"in", "in", "in"}, true},
		{"Thrash", []string{"in", "out", "in", "out", "out"}, false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			reg := authsync.NewRegistry()
			st := reg.State("session-a")
			require.False(t, st.SignedIn())
			require.False(t, st.AuthChecked())

			// Act
			for _, ev := range tc.events {
				switch ev {
				case "in":
					f := st.SetSession()
					require.Equal(t, session.SignedInMsg, f.Msg)
					require.Equal(t, session.FlashSuccess, f.Class)
				case "out":
					f := st.ClearSession()
					require.Equal(t, session.SignedOutMsg, f.Msg)
					require.Equal(t, session.FlashSuccess, f.Class)
				}
			}

			// Assert
			require.Equal(t, tc.signedIn, st.SignedIn())
			require.True(t, st.AuthChecked())
		})
	}
}

func TestStateDevReset(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry()
	st := reg.State("session-a")

	// Act + Assert: reset with no prior events
	f := st.DevReset()
	require.Equal(t, session.DevResetMsg, f.Msg)
	require.False(t, st.SignedIn())
	require.False(t, st.AuthChecked())

	// Act + Assert: reset after sign-in
	st.SetSession()
	st.DevReset()
	require.False(t, st.SignedIn())
	require.False(t, st.AuthChecked())

	// Act + Assert: reset after sign-out
	st.ClearSession()
	st.DevReset()
	require.False(t, st.SignedIn())
	require.False(t, st.AuthChecked())
}

func TestStateRegistryIsolatesSessions(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry()
	a := reg.State("session-a")
	b := reg.State("session-b")

	// Act
	a.SetSession()

	// Assert
	require.True(t, a.SignedIn())
	require.False(t, b.SignedIn())
	require.False(t, b.AuthChecked())
	require.Same(t, a, reg.State("session-a"))
}
