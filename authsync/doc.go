/*
The authsync package holds the per-session auth state a Clerk frontend reports
and the rendezvous machinery page-load handlers use to wait on it.

The browser resolves whether a user is signed in asynchronously: ClerkJS loads,
checks the Clerk session, and only then can the server know. A Registry records,
per session, whether that check completed and whether it found a signed-in user.
Page-load handlers register deferred Actions keyed by a fresh request ID and hand
the ID to the page; once the synchronizer posts the auth event, Wait releases the
deferred Actions to whoever holds the ID.
*/
package authsync
