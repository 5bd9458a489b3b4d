package clerksync

// A Key stashes clerksync values in a context.Context.
type Key string

const (
	// ClerkUserKey stashes the Clerk user ID for a signed-in session.
	ClerkUserKey Key = "ClerkUserKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled by clerksync.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session associated with an HTTP request.
	SessionKey Key = "SessionKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "clerksync context key: " + string(k)
}
