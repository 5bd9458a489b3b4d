package authsync

import (
	"context"

	"github.com/xy-planning-network/clerksync/http/session"
)

// An Action runs after the auth check for a page load completes,
// producing a notification to render to the end user.
type Action func(ctx context.Context) (session.Flash, error)

// FlashAction wraps the Flash in an Action that does nothing but return it.
func FlashAction(f session.Flash) Action {
	return func(_ context.Context) (session.Flash, error) { return f, nil }
}

// defaultAction returns when a waiter's request ID has no registered Actions.
func defaultAction() Action {
	return FlashAction(session.Flash{Class: session.FlashInfo, Msg: session.AuthCheckedMsg})
}
