package authsync

import (
	"sync"

	"github.com/xy-planning-network/clerksync/http/session"
)

// A State records what the Clerk frontend last reported for one session.
//
// Both flags flip together: an auth event always marks the check complete.
// Events are idempotent; repeating one leaves the State unchanged.
type State struct {
	mu          sync.Mutex
	signedIn    bool
	authChecked bool

	// closed on the first auth event; replaced by DevReset.
	checked chan struct{}
}

func newState() *State {
	return &State{checked: make(chan struct{})}
}

// SignedIn reports whether the most recent auth event was a sign-in.
func (st *State) SignedIn() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.signedIn
}

// AuthChecked reports whether the Clerk frontend resolved the auth check yet.
func (st *State) AuthChecked() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.authChecked
}

// SetSession marks the session signed in and the auth check complete,
// waking any waiters.
func (st *State) SetSession() session.Flash {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.signedIn = true
	st.markChecked()

	return session.Flash{Class: session.FlashSuccess, Msg: session.SignedInMsg}
}

// ClearSession marks the session signed out and the auth check complete,
// waking any waiters.
func (st *State) ClearSession() session.Flash {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.signedIn = false
	st.markChecked()

	return session.Flash{Class: session.FlashSuccess, Msg: session.SignedOutMsg}
}

// DevReset returns the State to its initial values, a developer and testing aid.
//
// Waiters arriving after a DevReset block until the next auth event.
func (st *State) DevReset() session.Flash {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.signedIn = false
	if st.authChecked {
		st.authChecked = false
		st.checked = make(chan struct{})
	}

	return session.Flash{Class: session.FlashSuccess, Msg: session.DevResetMsg}
}

// checkedSignal returns the channel closed once the auth check completes.
func (st *State) checkedSignal() <-chan struct{} {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.checked
}

// markChecked completes the auth check once; callers hold st.mu.
func (st *State) markChecked() {
	if st.authChecked {
		return
	}

	st.authChecked = true
	close(st.checked)
}
