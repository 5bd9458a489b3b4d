package authsync

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xy-planning-network/clerksync"
)

const (
	// DefaultWaitTimeout bounds how long Wait blocks on the auth check.
	DefaultWaitTimeout = time.Second

	// defaultDeferralMaxAge bounds how long unconsumed deferred Actions live.
	//
	// A page load that registers Actions but never completes its auth check -
	// the tab closed, the frontend never loaded - leaves its entry behind.
	// Defer sweeps entries older than this so the registry stays bounded.
	defaultDeferralMaxAge = 10 * time.Minute
)

// A Registry holds the auth State for every session an application serves
// and the deferred Actions registered by in-flight page loads.
//
// Construct one per application and share it between the provider endpoints
// and page handlers; it replaces any notion of process-global auth state.
type Registry struct {
	mu       sync.Mutex
	states   map[string]*State
	deferred map[uuid.UUID]deferral

	timeout        time.Duration
	deferralMaxAge time.Duration
}

type deferral struct {
	actions []Action
	at      time.Time
}

// A RegistryOpt configures a *Registry under construction.
type RegistryOpt func(*Registry)

// WithWaitTimeout overrides DefaultWaitTimeout.
func WithWaitTimeout(d time.Duration) RegistryOpt {
	return func(reg *Registry) { reg.timeout = d }
}

// WithDeferralMaxAge overrides how long unconsumed deferred Actions are kept.
func WithDeferralMaxAge(d time.Duration) RegistryOpt {
	return func(reg *Registry) { reg.deferralMaxAge = d }
}

// NewRegistry constructs a Registry with the provided options.
func NewRegistry(opts ...RegistryOpt) *Registry {
	reg := &Registry{
		states:         make(map[string]*State),
		deferred:       make(map[uuid.UUID]deferral),
		timeout:        DefaultWaitTimeout,
		deferralMaxAge: defaultDeferralMaxAge,
	}
	for _, opt := range opts {
		opt(reg)
	}

	return reg
}

// State retrieves the auth State for the session ID,
// initializing a fresh one the first time a session is seen.
func (reg *Registry) State(sessionID string) *State {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	st, ok := reg.states[sessionID]
	if !ok {
		st = newState()
		reg.states[sessionID] = st
	}

	return st
}

// Defer registers the Actions to run once the auth check for the current
// page load completes, returning the fresh request ID a waiter presents
// to collect them.
//
// Entries are write-once here and read-once by Wait.
func (reg *Registry) Defer(actions ...Action) uuid.UUID {
	uid := uuid.New()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	stale := time.Now().Add(-reg.deferralMaxAge)
	for k, v := range reg.deferred {
		if v.at.Before(stale) {
			delete(reg.deferred, k)
		}
	}

	reg.deferred[uid] = deferral{actions: actions, at: time.Now()}
	return uid
}

// Wait blocks until the session's auth check completes, the Registry's
// timeout elapses, or ctx is done.
//
// On completion Wait returns the Actions registered under uid, consuming
// them; an unknown uid, or one registered with no Actions, yields a single
// default informational Action.
// On timeout Wait returns clerksync.ErrTimeout and no Actions.
//
// The auth check completes when the frontend synchronizer posts its event,
// so Wait must run off the page-load handler's own call chain; the wake
// channel bounds latency to that of the event itself.
func (reg *Registry) Wait(ctx context.Context, sessionID string, uid uuid.UUID) ([]Action, error) {
	st := reg.State(sessionID)

	t := time.NewTimer(reg.timeout)
	defer t.Stop()

	select {
	case <-st.checkedSignal():
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.C:
		return nil, clerksync.ErrTimeout
	}

	actions, ok := reg.consume(uid)
	if !ok || len(actions) == 0 {
		return []Action{defaultAction()}, nil
	}

	return actions, nil
}

// consume removes and returns the deferral for uid.
func (reg *Registry) consume(uid uuid.UUID) ([]Action, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	d, ok := reg.deferred[uid]
	if !ok {
		return nil, false
	}

	delete(reg.deferred, uid)
	return d.actions, true
}
