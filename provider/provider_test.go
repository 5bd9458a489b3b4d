package provider_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xy-planning-network/clerksync"
	"github.com/xy-planning-network/clerksync/provider"
)

func testPublishableKey(domain string) string {
	return "pk_test_" + base64.StdEncoding.EncodeToString([]byte(domain+"$"))
}

func TestNew(t *testing.T) {
	tcs := []struct {
		name string
		cfg  provider.Config
		err  error
	}{
		{
			"Valid",
			provider.Config{
				Env:            clerksync.Testing,
				PublishableKey: testPublishableKey("example.clerk.accounts.dev"),
				SecretKey:      "sk_test_abc123",
			},
			nil,
		},
		{
			"Empty-Publishable-Key",
			provider.Config{Env: clerksync.Testing, SecretKey: "sk_test_abc123"},
			clerksync.ErrBadConfig,
		},
		{
			"Empty-Secret-Key",
			provider.Config{Env: clerksync.Testing, PublishableKey: testPublishableKey("example.clerk.accounts.dev")},
			clerksync.ErrBadConfig,
		},
		{
			"Unprefixed-Publishable-Key",
			provider.Config{Env: clerksync.Testing, PublishableKey: "whoops", SecretKey: "sk_test_abc123"},
			clerksync.ErrBadConfig,
		},
		{
			"Undecodable-Publishable-Key",
			provider.Config{Env: clerksync.Testing, PublishableKey: "pk_test_%%%", SecretKey: "sk_test_abc123"},
			clerksync.ErrBadConfig,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			p, err := provider.New(tc.cfg)

			// Assert
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				require.Nil(t, p)
				return
			}
			require.Nil(t, err)
			require.Equal(t, "https://example.clerk.accounts.dev", p.FrontendAPI())
			require.Equal(t, tc.cfg.PublishableKey, p.PublishableKey())
		})
	}
}

func TestRoutes(t *testing.T) {
	// Arrange
	cfg := provider.Config{
		PublishableKey: testPublishableKey("example.clerk.accounts.dev"),
		SecretKey:      "sk_test_abc123",
	}

	tcs := []struct {
		name     string
		env      clerksync.Environment
		devReset bool
	}{
		{"Development", clerksync.Development, true},
		{"Testing", clerksync.Testing, true},
		{"Production", clerksync.Production, false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			cfg.Env = tc.env
			p, err := provider.New(cfg)
			require.Nil(t, err)

			// Act
			paths := make(map[string]bool)
			for _, route := range p.Routes() {
				paths[route.Path] = true
			}

			// Assert
			require.True(t, paths[provider.SyncPath])
			require.True(t, paths[provider.WaitPath])
			require.True(t, paths[provider.ScriptPath])
			require.Equal(t, tc.devReset, paths[provider.DevResetPath])
		})
	}
}
