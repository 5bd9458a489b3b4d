package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/clerksync"
	"github.com/xy-planning-network/clerksync/http/session"
)

func TestNewStoreService(t *testing.T) {
	// Arrange
	notHex := "😅"
	cfg := session.Config{
		AuthKey:     notHex,
		Env:         clerksync.Testing,
		SessionName: "clerksync-test",
	}

	// Act
	svc, err := session.NewStoreService(cfg)

	// Assert
	require.NotNil(t, err)
	require.Zero(t, svc)

	// Arrange
	hex := "ABCD"
	cfg.AuthKey = hex
	cfg.EncryptKey = notHex

	// Act
	svc, err = session.NewStoreService(cfg)

	// Assert
	require.NotNil(t, err)
	require.Zero(t, svc)

	// Arrange
	cfg.EncryptKey = hex
	cfg.SessionName = ""

	// Act
	svc, err = session.NewStoreService(cfg)

	// Assert
	require.ErrorIs(t, err, clerksync.ErrBadConfig)
	require.Zero(t, svc)

	// Arrange
	cfg.SessionName = "clerksync-test"
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	svc, err = session.NewStoreService(cfg)

	// Assert
	require.Nil(t, err)
	require.NotZero(t, svc)
	require.NotPanics(t, func() { svc.GetSession(r) })
}

func TestServiceGetSessionAssignsID(t *testing.T) {
	// Arrange
	cfg := session.Config{
		AuthKey:     "ABCD",
		EncryptKey:  "ABCD",
		Env:         clerksync.Testing,
		SessionName: "clerksync-test",
	}
	svc, err := session.NewStoreService(cfg)
	require.Nil(t, err)
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	s, err := svc.GetSession(r)

	// Assert
	require.Nil(t, err)
	require.NotEmpty(t, s.ID())
}
