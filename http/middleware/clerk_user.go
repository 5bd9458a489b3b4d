package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/xy-planning-network/clerksync"
	"github.com/xy-planning-network/clerksync/http/resp"
	"github.com/xy-planning-network/clerksync/http/session"
)

// CurrentClerkUser pulls the Clerk user ID out of the session.UserSessionable
// stored in the *http.Request.Context and promotes it under userKey.
//
// A *resp.Responder is needed to handle cases where no session is present.
//
// A session holding no Clerk user ID is not an error; the synchronizer may
// not have reported a sign-in yet. Access control is left to RequireSignedIn
// and RequireSignedOut.
func CurrentClerkUser(d *resp.Responder, sessionKey, userKey clerksync.Key) Adapter {
	if d == nil || sessionKey == "" || userKey == "" {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := r.Context().Value(sessionKey).(session.SyncSessionable)
			if !ok {
				handleErr(w, r, http.StatusUnauthorized, d, nil)
				return
			}

			clerkUserID, err := s.UserID()
			if err != nil {
				// NOTE: no Clerk user in the session,
				// request may be accessing an unauthenticated endpoint,
				// maybe not, something for access control middlewares to determine
				handler.ServeHTTP(w, r)
				return
			}

			if err := s.ResetExpiry(w, r); err != nil {
				s.Delete(w, r) // NOTE: ignore delete error
				handleErr(w, r, http.StatusInternalServerError, d, err)
				return
			}

			w.Header().Add("Cache-control", "no-store")
			w.Header().Add("Pragma", "no-cache")

			ctx := context.WithValue(r.Context(), userKey, clerkUserID)
			handler.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// RequireSignedOut returns a middleware.Adapter that checks whether a Clerk user
// is signed in and requires they not be.
// When they are not signed in, RequireSignedOut hands off to the next part of the middleware chain.
//
// Signed in means a Clerk user ID is set in the request context with the provided key.
//
// When the user is signed in, and the request's "Accept" header has "application/json" in it,
// RequireSignedOut writes 400 to the client.
// If the request does not have that value in its header,
// RequireSignedOut redirects to homePath.
func RequireSignedOut(key clerksync.Key, homePath string) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(key).(string); ok {
				vs := r.Header.Values("Accept")
				for _, v := range vs {
					if strings.Compare(v, "application/json") == 0 {
						w.WriteHeader(http.StatusBadRequest)
						return
					}
				}

				http.Redirect(w, r, homePath, http.StatusTemporaryRedirect)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// RequireSignedIn returns a middleware.Adapter that checks whether a Clerk user
// is signed in, and requires they be.
// When the user is signed in, RequireSignedIn hands off to the next part of the middleware chain.
//
// Signed in means a Clerk user ID is set in the request context with the provided key.
//
// When the user is not signed in, and the request's "Accept" header has "application/json" in it,
// RequireSignedIn writes 401 to the client.
// If the request does not have that value in its header,
// RequireSignedIn redirects to the provided login URL.
//
// The URL originally requested is appended as a "next" query param
// when the request method is GET and the endpoint is not the logoff URL.
func RequireSignedIn(key clerksync.Key, loginUrl, logoffUrl string) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(key).(string); !ok {
				vs := r.Header.Values("Accept")
				for _, v := range vs {
					if strings.Compare(v, "application/json") == 0 {
						w.WriteHeader(http.StatusUnauthorized)
						return
					}
				}

				u := loginUrl
				if r.Method == http.MethodGet && r.URL.Path != logoffUrl {
					u += "?next=" + url.QueryEscape(r.URL.String())
				}

				http.Redirect(w, r, u, http.StatusTemporaryRedirect)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// handleErr helps CurrentClerkUser error paths by writing responses reflecting the
// "Accept" type of the *http.Request.
func handleErr(w http.ResponseWriter, r *http.Request, code int, d *resp.Responder, err error) {
	vs := r.Header.Values("Accept")
	for _, v := range vs {
		if strings.Compare(v, "application/json") == 0 {
			d.Json(w, r, resp.Err(err), resp.Code(code))
			return
		}
	}

	d.Redirect(w, r, resp.Err(err))
}
