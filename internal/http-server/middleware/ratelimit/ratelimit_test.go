package ratelimit

import (
	"github.com/stretchr/testify/assert"
	"lectureRegistrar/internal/lib/logger/handlers/slogdiscard"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareRejectsAfterBurst(t *testing.T) {
	t.Parallel()

	store := NewStore(0.001, 2, time.Minute)
	handler := New(slogdiscard.NewDiscardLogger(), store)(okHandler())

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/lectures/apply", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, req)
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "1000", last.Header().Get("Retry-After"))
	assert.JSONEq(t,
		`{"success":false,"data":null,"error":"TooManyRequests","message":"too many requests"}`,
		last.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/lectures/apply", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "other clients keep their own bucket")
}

func TestStoreCleanup(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 12, 25, 18, 0, 0, 0, time.UTC)
	store := NewStore(1, 1, time.Minute)
	store.now = func() time.Time { return now }

	store.Get("a")
	store.Get("b")

	now = now.Add(45 * time.Second)
	store.Get("b")

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, store.Cleanup())
	assert.Equal(t, 1, store.Len())

	lim := store.Get("b")
	assert.Same(t, lim, store.Get("b"))
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		remoteAddr string
		expected   string
	}{
		{name: "host and port", remoteAddr: "192.168.1.10:5555", expected: "192.168.1.10"},
		{name: "bare host", remoteAddr: "192.168.1.10", expected: "192.168.1.10"},
		{name: "ipv6", remoteAddr: "[::1]:8080", expected: "::1"},
		{name: "empty", remoteAddr: "", expected: "unknown"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr

			assert.Equal(t, tc.expected, ClientKey(req))
		})
	}
}
