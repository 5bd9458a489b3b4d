/*
The middleware package defines what a middleware is in clerksync and a set of basic middlewares.

The available middlewares are:
- CORS
- CurrentClerkUser
- InjectIPAddress
- InjectSession
- LogRequest
- RateLimit
- ReportPanic
- RequestID
- RequireSignedIn
- RequireSignedOut

Due to the amount of configuration required, middleware does not provide a default middleware chain.
Instead, the following can be copy-pasted:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs),
		middleware.RequestID(clerksync.RequestIDKey),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore, clerksync.SessionKey),
		middleware.CurrentClerkUser(responder, clerksync.SessionKey, clerksync.ClerkUserKey),
	}
*/
package middleware
