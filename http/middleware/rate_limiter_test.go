package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xy-planning-network/clerksync/http/middleware"
)

func TestRateLimit(t *testing.T) {
	// Arrange
	vs := middleware.NewVisitors()
	handler := middleware.RateLimit(vs)(NoopHandler())

	// Act: a burst up to the limiter's capacity passes.
	var last int
	for i := 0; i < 21; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-For", "1.2.3.4")
		handler.ServeHTTP(w, r)
		last = w.Code
	}

	// Assert
	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestVisitorsFetch(t *testing.T) {
	// Arrange
	vs := middleware.NewVisitors()

	// Act
	a := vs.Fetch("1.2.3.4")
	b := vs.Fetch("1.2.3.4")

	// Assert: same limiter for repeat visits
	require.Same(t, a.Limiter, b.Limiter)
	require.False(t, b.LastSeen.Before(a.LastSeen))
}
