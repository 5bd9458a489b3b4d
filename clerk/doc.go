// Package clerk wraps the Clerk backend API behind the small surface the
// rest of the module needs: user lookup and creation plus session token
// verification. Environments that allow service stubs skip signature
// verification so local development works without a Clerk tenant.
package clerk
