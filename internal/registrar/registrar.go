// Package registrar owns admission control for lecture applications.
//
// ApplyLecture admits a user iff the user has no application for the lecture
// and the lecture still has free seats. Both checks and the insert run inside
// the store's WithinLecture, which serializes admissions per lecture; lectures
// never block each other.
package registrar

import (
	"context"
	"errors"
	"fmt"
	gocache "github.com/patrickmn/go-cache"
	"lectureRegistrar/internal/lib/logger/sl"
	"lectureRegistrar/internal/models"
	"lectureRegistrar/internal/stats"
	"lectureRegistrar/internal/storage"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const (
	DefaultCapacity = 30
	DefaultCacheTTL = time.Minute

	lecturesKey = "lectures"
)

var (
	// ErrPersistenceFailure wraps every infrastructure error surfaced by the registrar.
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrInvalidLecture     = errors.New("invalid lecture")
)

type Store interface {
	CreateLecture(ctx context.Context, title string, date time.Time, capacity int) (int64, error)
	Lecture(ctx context.Context, id int64) (models.Lecture, error)
	Lectures(ctx context.Context) ([]models.Lecture, error)
	Applications(ctx context.Context, lectureID int64) ([]models.Application, error)
	HasApplied(ctx context.Context, userID int64) (bool, error)
	HasAppliedTo(ctx context.Context, lectureID, userID int64) (bool, error)
	WithinLecture(ctx context.Context, lectureID int64, fn func(tx storage.Tx) error) error
}

type Registrar struct {
	log             *slog.Logger
	store           Store
	stats           stats.Recorder
	defaultCapacity int
	now             func() time.Time

	// mu guards gen; gen is bumped on every lecture creation so a listing
	// read before the bump is never cached after it.
	mu    sync.Mutex
	gen   uint64
	cache *gocache.Cache
}

type Option func(*Registrar)

func WithStats(rec stats.Recorder) Option {
	return func(r *Registrar) { r.stats = rec }
}

func WithDefaultCapacity(n int) Option {
	return func(r *Registrar) { r.defaultCapacity = n }
}

// WithListCacheTTL sets how long a listing is served from cache. Zero keeps it
// until the next lecture is created.
func WithListCacheTTL(d time.Duration) Option {
	return func(r *Registrar) { r.cache = gocache.New(d, 2*d) }
}

func New(log *slog.Logger, store Store, opts ...Option) *Registrar {
	r := &Registrar{
		log:             log,
		store:           store,
		stats:           stats.Nop{},
		defaultCapacity: DefaultCapacity,
		now:             time.Now,
		cache:           gocache.New(DefaultCacheTTL, 2*DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registrar) ApplyLecture(ctx context.Context, lectureID, userID int64) error {
	const op = "registrar.ApplyLecture"

	log := r.log.With(
		slog.String("op", op),
		slog.Int64("lecture_id", lectureID),
		slog.Int64("user_id", userID),
	)

	err := r.store.WithinLecture(ctx, lectureID, func(tx storage.Tx) error {
		lecture, err := tx.FindLecture(ctx, lectureID)
		if err != nil {
			return err
		}

		exists, err := tx.ExistsApplication(ctx, lectureID, userID)
		if err != nil {
			return err
		}
		if exists {
			return storage.ErrAlreadyApplied
		}

		count, err := tx.CountApplications(ctx, lectureID)
		if err != nil {
			return err
		}
		if count >= lecture.Capacity {
			return storage.ErrCapacityExceeded
		}

		_, err = tx.InsertApplication(ctx, lectureID, userID)
		return err
	})

	outcome := outcomeOf(err)
	r.record(ctx, log, stats.Event{
		LectureID: lectureID,
		UserID:    userID,
		Outcome:   outcome,
		At:        r.now(),
	})

	switch outcome {
	case stats.OutcomeAccepted:
		log.Info("application accepted")
		return nil
	case stats.OutcomeFailed:
		log.Error("failed to apply lecture", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailure, err)
	default:
		log.Info("application rejected", slog.String("reason", string(outcome)))
		return fmt.Errorf("%s: %w", op, err)
	}
}

// ListLectures returns every lecture ordered by date, then id. The result is
// cached until the TTL expires or a lecture is created.
func (r *Registrar) ListLectures(ctx context.Context) ([]models.Lecture, error) {
	const op = "registrar.ListLectures"

	if cached, ok := r.cache.Get(lecturesKey); ok {
		return clone(cached.([]models.Lecture)), nil
	}

	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()

	lectures, err := r.store.Lectures(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailure, err)
	}
	if lectures == nil {
		lectures = []models.Lecture{}
	}

	r.mu.Lock()
	if r.gen == gen {
		r.cache.SetDefault(lecturesKey, lectures)
	}
	r.mu.Unlock()

	return clone(lectures), nil
}

func (r *Registrar) HasApplied(ctx context.Context, userID int64) (bool, error) {
	const op = "registrar.HasApplied"

	applied, err := r.store.HasApplied(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailure, err)
	}

	return applied, nil
}

func (r *Registrar) HasAppliedTo(ctx context.Context, lectureID, userID int64) (bool, error) {
	const op = "registrar.HasAppliedTo"

	applied, err := r.store.HasAppliedTo(ctx, lectureID, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailure, err)
	}

	return applied, nil
}

// CreateLecture seeds a lecture. A zero capacity means the default capacity.
func (r *Registrar) CreateLecture(ctx context.Context, title string, date time.Time, capacity int) (int64, error) {
	const op = "registrar.CreateLecture"

	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%s: %w: title is required", op, ErrInvalidLecture)
	}
	if capacity < 0 {
		return 0, fmt.Errorf("%s: %w: capacity must not be negative", op, ErrInvalidLecture)
	}
	if capacity == 0 {
		capacity = r.defaultCapacity
	}

	id, err := r.store.CreateLecture(ctx, title, date, capacity)
	if err != nil {
		return 0, fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailure, err)
	}

	r.mu.Lock()
	r.gen++
	r.cache.Delete(lecturesKey)
	r.mu.Unlock()

	r.log.Info("lecture created",
		slog.String("op", op),
		slog.Int64("lecture_id", id),
		slog.Int("capacity", capacity),
	)

	return id, nil
}

// Lecture returns a lecture together with its enrollment history.
func (r *Registrar) Lecture(ctx context.Context, id int64) (models.Lecture, []models.Application, error) {
	const op = "registrar.Lecture"

	lecture, err := r.store.Lecture(ctx, id)
	if err != nil {
		return models.Lecture{}, nil, wrap(op, err)
	}

	apps, err := r.store.Applications(ctx, id)
	if err != nil {
		return models.Lecture{}, nil, wrap(op, err)
	}
	if apps == nil {
		apps = []models.Application{}
	}

	return lecture, apps, nil
}

func (r *Registrar) record(ctx context.Context, log *slog.Logger, ev stats.Event) {
	if err := r.stats.Record(ctx, ev); err != nil {
		log.Warn("failed to record admission outcome", sl.Err(err))
	}
}

func outcomeOf(err error) stats.Outcome {
	switch {
	case err == nil:
		return stats.OutcomeAccepted
	case errors.Is(err, storage.ErrAlreadyApplied):
		return stats.OutcomeAlreadyApplied
	case errors.Is(err, storage.ErrCapacityExceeded):
		return stats.OutcomeCapacityExceeded
	case errors.Is(err, storage.ErrLectureNotFound):
		return stats.OutcomeLectureNotFound
	default:
		return stats.OutcomeFailed
	}
}

func wrap(op string, err error) error {
	if errors.Is(err, storage.ErrLectureNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailure, err)
}

func clone(lectures []models.Lecture) []models.Lecture {
	out := make([]models.Lecture, len(lectures))
	copy(out, lectures)
	return out
}
