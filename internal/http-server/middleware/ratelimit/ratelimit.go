// Package ratelimit throttles requests per client with token buckets
// from golang.org/x/time/rate.
package ratelimit

import (
	"github.com/go-chi/render"
	"golang.org/x/time/rate"
	"lectureRegistrar/internal/lib/api/response"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type entry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewStore(rps float64, burst int, idleTTL time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (s *Store) Get(key string) *rate.Limiter {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &entry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup drops limiters idle for longer than the idle TTL and reports how
// many were removed.
func (s *Store) Cleanup() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// ClientKey identifies the caller by IP. Run chi's RealIP middleware first to
// honour X-Forwarded-For / X-Real-IP.
func ClientKey(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	if addr != "" {
		return addr
	}
	return "unknown"
}

func New(log *slog.Logger, store *Store) func(next http.Handler) http.Handler {
	retryAfter := "1"
	if store.rps > 0 && store.rps < 1 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / float64(store.rps))))
	}

	return func(next http.Handler) http.Handler {
		log := log.With(slog.String("component", "middleware/ratelimit"))

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r)

			if !store.Get(key).Allow() {
				log.Warn("request rejected", slog.String("client", key), slog.String("path", r.URL.Path))

				w.Header().Set("Retry-After", retryAfter)
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(response.KindTooManyRequests, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
