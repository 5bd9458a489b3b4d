package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/xy-planning-network/clerksync"
	"github.com/xy-planning-network/clerksync/authsync"
	"github.com/xy-planning-network/clerksync/http/session"
	"github.com/xy-planning-network/clerksync/provider"
)

const stubSessionID = "stub-session-id"

func testProvider(t *testing.T, opts ...provider.ProviderOpt) *provider.Provider {
	t.Helper()

	p, err := provider.New(provider.Config{
		Env:            clerksync.Testing,
		PublishableKey: testPublishableKey("example.clerk.accounts.dev"),
		SecretKey:      "sk_test_abc123",
	}, opts...)
	require.Nil(t, err)

	return p
}

func sessionRequest(t *testing.T, method, target string, body string) *http.Request {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	s, err := session.NewStubStore(false).GetSession(r)
	require.Nil(t, err)

	ctx := context.WithValue(r.Context(), clerksync.SessionKey, session.SyncSessionable(s))
	return r.Clone(ctx)
}

func decodeFlashes(t *testing.T, body string) []session.Flash {
	t.Helper()

	var payload struct {
		Data struct {
			Flashes []session.Flash `json:"flashes"`
		} `json:"data"`
	}
	require.Nil(t, json.Unmarshal([]byte(body), &payload))

	return payload.Data.Flashes
}

func sessionToken(t *testing.T, subject string) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: subject}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.Nil(t, err)

	return token
}

func TestSyncHandlerSignedIn(t *testing.T) {
	// Arrange
	p := testProvider(t)
	w := httptest.NewRecorder()
	body := `{"status":"signed_in","token":"` + sessionToken(t, "user_123") + `"}`
	r := sessionRequest(t, http.MethodPost, provider.SyncPath, body)

	// Act
	p.SyncHandler(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	flashes := decodeFlashes(t, w.Body.String())
	require.Len(t, flashes, 1)
	require.Equal(t, session.SignedInMsg, flashes[0].Msg)

	st := p.Registry().State(stubSessionID)
	require.True(t, st.SignedIn())
	require.True(t, st.AuthChecked())
}

func TestSyncHandlerSignedOut(t *testing.T) {
	// Arrange
	p := testProvider(t)
	p.Registry().State(stubSessionID).SetSession()

	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodPost, provider.SyncPath, `{"status":"signed_out"}`)

	// Act
	p.SyncHandler(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	flashes := decodeFlashes(t, w.Body.String())
	require.Len(t, flashes, 1)
	require.Equal(t, session.SignedOutMsg, flashes[0].Msg)

	st := p.Registry().State(stubSessionID)
	require.False(t, st.SignedIn())
	require.True(t, st.AuthChecked())
}

func TestSyncHandlerBadToken(t *testing.T) {
	// Arrange
	p := testProvider(t)
	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodPost, provider.SyncPath, `{"status":"signed_in","token":"notajwt"}`)

	// Act
	p.SyncHandler(w, r)

	// Assert
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.False(t, p.Registry().State(stubSessionID).AuthChecked())
}

func TestSyncHandlerBadStatus(t *testing.T) {
	// Arrange
	p := testProvider(t)
	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodPost, provider.SyncPath, `{"status":"wat"}`)

	// Act
	p.SyncHandler(w, r)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncHandlerBadBody(t *testing.T) {
	// Arrange
	p := testProvider(t)
	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodPost, provider.SyncPath, `{`)

	// Act
	p.SyncHandler(w, r)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWaitHandler(t *testing.T) {
	// Arrange
	p := testProvider(t)
	uid := p.OnLoad(authsync.FlashAction(session.Flash{Class: session.FlashSuccess, Msg: "Welcome back!"}))
	p.Registry().State(stubSessionID).SetSession()

	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodGet, provider.WaitPath+"?uid="+uid.String(), "")

	// Act
	p.WaitHandler(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	flashes := decodeFlashes(t, w.Body.String())
	require.Len(t, flashes, 1)
	require.Equal(t, "Welcome back!", flashes[0].Msg)
}

func TestWaitHandlerDefaultAction(t *testing.T) {
	// Arrange: the page deferred nothing under this uid.
	p := testProvider(t)
	p.Registry().State(stubSessionID).SetSession()

	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodGet, provider.WaitPath+"?uid=8066184f-4a9b-4e0c-b174-dcac9a04dfc9", "")

	// Act
	p.WaitHandler(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	flashes := decodeFlashes(t, w.Body.String())
	require.Len(t, flashes, 1)
	require.Equal(t, session.AuthCheckedMsg, flashes[0].Msg)
}

func TestWaitHandlerTimesOut(t *testing.T) {
	// Arrange
	reg := authsync.NewRegistry(authsync.WithWaitTimeout(10 * time.Millisecond))
	p := testProvider(t, provider.WithRegistry(reg))

	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodGet, provider.WaitPath+"?uid=8066184f-4a9b-4e0c-b174-dcac9a04dfc9", "")

	// Act
	p.WaitHandler(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	flashes := decodeFlashes(t, w.Body.String())
	require.Len(t, flashes, 1)
	require.Equal(t, session.AuthTimedOut, flashes[0].Msg)
	require.Equal(t, session.FlashWarning, flashes[0].Class)
}

func TestWaitHandlerBadUid(t *testing.T) {
	// Arrange
	p := testProvider(t)
	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodGet, provider.WaitPath+"?uid=not-a-uuid", "")

	// Act
	p.WaitHandler(w, r)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDevResetHandler(t *testing.T) {
	// Arrange
	p := testProvider(t)
	st := p.Registry().State(stubSessionID)
	st.SetSession()

	w := httptest.NewRecorder()
	r := sessionRequest(t, http.MethodPost, provider.DevResetPath, "")

	// Act
	p.DevResetHandler(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	flashes := decodeFlashes(t, w.Body.String())
	require.Len(t, flashes, 1)
	require.Equal(t, session.DevResetMsg, flashes[0].Msg)
	require.False(t, st.SignedIn())
	require.False(t, st.AuthChecked())
}

func TestScriptHandler(t *testing.T) {
	// Arrange
	p := testProvider(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, provider.ScriptPath, nil)

	// Act
	p.ScriptHandler(w, r)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/javascript; charset=UTF-8", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), "/clerk/sync")
	require.Contains(t, w.Body.String(), "/clerk/wait")
}
