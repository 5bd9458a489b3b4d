package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	_ "embed"

	"github.com/google/uuid"

	"github.com/xy-planning-network/clerksync"
	"github.com/xy-planning-network/clerksync/http/resp"
	"github.com/xy-planning-network/clerksync/http/router"
	"github.com/xy-planning-network/clerksync/http/session"
	"github.com/xy-planning-network/clerksync/logger"
)

// Paths the frontend synchronizer talks to.
const (
	DevResetPath = "/clerk/dev-reset"
	ScriptPath   = "/clerk/synchronizer.js"
	SyncPath     = "/clerk/sync"
	WaitPath     = "/clerk/wait"
)

// Statuses the synchronizer reports when Clerk resolves auth in the browser.
const (
	StatusSignedIn  = "signed_in"
	StatusSignedOut = "signed_out"
)

//go:embed synchronizer.js
var synchronizerJS []byte

// A syncEvent is the payload the synchronizer posts when the auth state
// it observes in the browser changes.
type syncEvent struct {
	Status string `json:"status"`
	Token  string `json:"token"`
}

// A flashData is the payload handlers respond with for the frontend to toast.
type flashData struct {
	Flashes []session.Flash `json:"flashes"`
}

// Routes returns the Routes a Provider handles, ready for router.Router.HandleRoutes.
//
// The dev reset endpoint is excluded in production.
func (p *Provider) Routes() []router.Route {
	routes := []router.Route{
		{Path: SyncPath, Method: http.MethodPost, Handler: p.SyncHandler},
		{Path: WaitPath, Method: http.MethodGet, Handler: p.WaitHandler},
		{Path: ScriptPath, Method: http.MethodGet, Handler: p.ScriptHandler},
	}

	if !p.cfg.Env.IsProduction() {
		routes = append(routes, router.Route{Path: DevResetPath, Method: http.MethodPost, Handler: p.DevResetHandler})
	}

	return routes
}

// SyncHandler receives an auth event from the frontend synchronizer.
//
// A signed in event carries the session token Clerk minted; its subject is
// the Clerk user ID registered in the session. A signed out event deregisters
// the user. Either way the session's auth state marks the check complete,
// waking waiters, and the responding flash is the one the frontend toasts.
func (p *Provider) SyncHandler(w http.ResponseWriter, r *http.Request) {
	var ev syncEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		p.d.Json(w, r, resp.Err(fmt.Errorf("decoding sync event: %w", err)), resp.Code(http.StatusBadRequest))
		return
	}

	s, err := p.d.Session(r.Context())
	if err != nil {
		p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusInternalServerError))
		return
	}

	st := p.registry.State(s.ID())

	var flash session.Flash
	switch ev.Status {
	case StatusSignedIn:
		claims, err := p.api.VerifySessionToken(r.Context(), ev.Token)
		if err != nil {
			p.log.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
			p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusUnauthorized))
			return
		}

		if err := s.RegisterUser(w, r, claims.Subject); err != nil {
			p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusInternalServerError))
			return
		}

		flash = st.SetSession()

	case StatusSignedOut:
		if err := s.DeregisterUser(w, r); err != nil {
			p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusInternalServerError))
			return
		}

		flash = st.ClearSession()

	default:
		err := fmt.Errorf("%w: unknown sync status %q", clerksync.ErrNotValid, ev.Status)
		p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusBadRequest))
		return
	}

	p.d.Json(w, r, resp.Data(flashData{Flashes: []session.Flash{flash}}))
}

// WaitHandler blocks a page load's follow-up request until the auth check
// completes, then runs the Actions registered under the presented request ID
// and responds with their flashes for the frontend to toast.
//
// A wait that outlives the registry's timeout responds with a warning flash
// instead of an error status; the page keeps rendering either way.
func (p *Provider) WaitHandler(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(r.URL.Query().Get("uid"))
	if err != nil {
		err = fmt.Errorf("%w: uid is not a uuid: %s", clerksync.ErrNotValid, err)
		p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusBadRequest))
		return
	}

	s, err := p.d.Session(r.Context())
	if err != nil {
		p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusInternalServerError))
		return
	}

	actions, err := p.registry.Wait(r.Context(), s.ID(), uid)
	if errors.Is(err, clerksync.ErrTimeout) {
		timedOut := session.Flash{Class: session.FlashWarning, Msg: session.AuthTimedOut}
		p.d.Json(w, r, resp.Data(flashData{Flashes: []session.Flash{timedOut}}))
		return
	}
	if err != nil {
		p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusInternalServerError))
		return
	}

	flashes := make([]session.Flash, 0, len(actions))
	for _, action := range actions {
		flash, err := action(r.Context())
		if err != nil {
			p.log.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
			flash = session.Flash{Class: session.FlashError, Msg: session.DefaultErrMsg}
		}

		flashes = append(flashes, flash)
	}

	p.d.Json(w, r, resp.Data(flashData{Flashes: flashes}))
}

// DevResetHandler returns the session's auth state to its initial values,
// a developer and testing aid. Production never routes here.
func (p *Provider) DevResetHandler(w http.ResponseWriter, r *http.Request) {
	if p.cfg.Env.IsProduction() {
		http.NotFound(w, r)
		return
	}

	s, err := p.d.Session(r.Context())
	if err != nil {
		p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusInternalServerError))
		return
	}

	if err := s.DeregisterUser(w, r); err != nil {
		p.d.Json(w, r, resp.Err(err), resp.Code(http.StatusInternalServerError))
		return
	}

	flash := p.registry.State(s.ID()).DevReset()
	p.d.Json(w, r, resp.Data(flashData{Flashes: []session.Flash{flash}}))
}

// ScriptHandler serves the frontend synchronizer script.
func (p *Provider) ScriptHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=UTF-8")
	w.Write(synchronizerJS)
}
