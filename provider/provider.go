package provider

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/xy-planning-network/clerksync"
	"github.com/xy-planning-network/clerksync/authsync"
	"github.com/xy-planning-network/clerksync/clerk"
	"github.com/xy-planning-network/clerksync/http/resp"
	"github.com/xy-planning-network/clerksync/logger"
)

// A Config provides the required values for constructing a Provider.
type Config struct {
	Env clerksync.Environment

	// The tenant's publishable key, handed to the frontend.
	// It also encodes the frontend API origin the synchronizer loads Clerk from.
	PublishableKey string

	// The tenant's secret key, never handed to the frontend.
	SecretKey string
}

// A Provider binds one Clerk tenant to one application.
//
// Construct one per application; nothing is stored in package state.
type Provider struct {
	api         *clerk.API
	cfg         Config
	d           *resp.Responder
	frontendAPI string
	log         logger.Logger
	registry    *authsync.Registry
}

// A ProviderOpt configures a *Provider under construction.
type ProviderOpt func(*Provider)

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
func WithLogger(log logger.Logger) ProviderOpt {
	return func(p *Provider) { p.log = log }
}

// WithRegistry shares an existing authsync.Registry with the Provider.
func WithRegistry(reg *authsync.Registry) ProviderOpt {
	return func(p *Provider) { p.registry = reg }
}

// WithResponder shares an existing resp.Responder with the Provider.
func WithResponder(d *resp.Responder) ProviderOpt {
	return func(p *Provider) { p.d = d }
}

// New constructs a Provider for the tenant the Config's keys belong to.
//
// Misconfiguration fails here with clerksync.ErrBadConfig rather than on
// the first request: both keys must be set and the publishable key must
// decode to a frontend API origin.
func New(cfg Config, opts ...ProviderOpt) (*Provider, error) {
	if cfg.PublishableKey == "" {
		return nil, fmt.Errorf("publishable key is unset: %w", clerksync.ErrBadConfig)
	}

	api, err := clerk.NewAPI(cfg.SecretKey, cfg.Env)
	if err != nil {
		return nil, err
	}

	frontendAPI, err := frontendAPIFromKey(cfg.PublishableKey)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		api:         api,
		cfg:         cfg,
		frontendAPI: frontendAPI,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.log == nil {
		p.log = logger.New()
	}
	if p.registry == nil {
		p.registry = authsync.NewRegistry()
	}
	if p.d == nil {
		p.d = resp.NewResponder(resp.WithLogger(p.log))
	}

	return p, nil
}

// API exposes the backend API client sharing the Provider's secret key.
func (p *Provider) API() *clerk.API { return p.api }

// FrontendAPI returns the origin the synchronizer loads Clerk's browser
// bundle from, decoded out of the publishable key.
func (p *Provider) FrontendAPI() string { return p.frontendAPI }

// PublishableKey returns the key the frontend initializes Clerk with.
func (p *Provider) PublishableKey() string { return p.cfg.PublishableKey }

// Registry exposes the authsync.Registry backing the Provider's endpoints.
func (p *Provider) Registry() *authsync.Registry { return p.registry }

// OnLoad registers the Actions to run once the auth check for the current
// page load completes, returning the request ID the page embeds for the
// synchronizer to present to the wait endpoint.
func (p *Provider) OnLoad(actions ...authsync.Action) uuid.UUID {
	return p.registry.Defer(actions...)
}

// frontendAPIFromKey decodes the frontend API origin out of a publishable key.
//
// A publishable key is "pk_test_" or "pk_live_" followed by the
// base64-encoded frontend API domain with a trailing "$".
func frontendAPIFromKey(pk string) (string, error) {
	var encoded string
	for _, prefix := range []string{"pk_test_", "pk_live_"} {
		if strings.HasPrefix(pk, prefix) {
			encoded = strings.TrimPrefix(pk, prefix)
			break
		}
	}
	if encoded == "" {
		return "", fmt.Errorf("publishable key has no pk_test_ or pk_live_ prefix: %w", clerksync.ErrBadConfig)
	}

	domain, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		domain, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return "", fmt.Errorf("publishable key is not base64: %w", clerksync.ErrBadConfig)
	}

	trimmed := strings.TrimSuffix(string(domain), "$")
	if trimmed == "" {
		return "", fmt.Errorf("publishable key decodes to no domain: %w", clerksync.ErrBadConfig)
	}

	return "https://" + trimmed, nil
}
