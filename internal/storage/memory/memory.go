// Package memory is an in-process storage backend. Admission is serialized
// with one mutex per lecture; nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"lectureRegistrar/internal/models"
	"lectureRegistrar/internal/storage"
	"sort"
	"sync"
	"time"
)

type Storage struct {
	mu           sync.RWMutex
	lectures     map[int64]models.Lecture
	applications map[int64][]models.Application
	locks        map[int64]*sync.Mutex
	lastLecture  int64
	lastApp      int64

	now func() time.Time
}

func New() *Storage {
	return &Storage{
		lectures:     make(map[int64]models.Lecture),
		applications: make(map[int64][]models.Application),
		locks:        make(map[int64]*sync.Mutex),
		now:          time.Now,
	}
}

func (s *Storage) Close() error {
	return nil
}

func (s *Storage) CreateLecture(_ context.Context, title string, date time.Time, capacity int) (int64, error) {
	if capacity <= 0 {
		return 0, fmt.Errorf("failed to create lecture: capacity must be positive, got %d", capacity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastLecture++
	id := s.lastLecture

	s.lectures[id] = models.Lecture{
		ID:       id,
		Title:    title,
		Capacity: capacity,
		Date:     date.UTC(),
	}
	s.locks[id] = &sync.Mutex{}

	return id, nil
}

func (s *Storage) Lecture(_ context.Context, id int64) (models.Lecture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lecture, ok := s.lectures[id]
	if !ok {
		return models.Lecture{}, storage.ErrLectureNotFound
	}

	return lecture, nil
}

func (s *Storage) Lectures(_ context.Context) ([]models.Lecture, error) {
	s.mu.RLock()
	lectures := make([]models.Lecture, 0, len(s.lectures))
	for _, l := range s.lectures {
		lectures = append(lectures, l)
	}
	s.mu.RUnlock()

	sort.Slice(lectures, func(i, j int) bool {
		if !lectures[i].Date.Equal(lectures[j].Date) {
			return lectures[i].Date.Before(lectures[j].Date)
		}
		return lectures[i].ID < lectures[j].ID
	})

	return lectures, nil
}

func (s *Storage) Applications(_ context.Context, lectureID int64) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.lectures[lectureID]; !ok {
		return nil, storage.ErrLectureNotFound
	}

	apps := make([]models.Application, len(s.applications[lectureID]))
	copy(apps, s.applications[lectureID])

	return apps, nil
}

func (s *Storage) HasApplied(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, apps := range s.applications {
		for _, a := range apps {
			if a.UserID == userID {
				return true, nil
			}
		}
	}

	return false, nil
}

func (s *Storage) HasAppliedTo(_ context.Context, lectureID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.exists(lectureID, userID), nil
}

// WithinLecture runs fn while holding the lecture's admission lock.
func (s *Storage) WithinLecture(ctx context.Context, lectureID int64, fn func(tx storage.Tx) error) error {
	s.mu.RLock()
	lock, ok := s.locks[lectureID]
	s.mu.RUnlock()

	if !ok {
		return storage.ErrLectureNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(&tx{s: s})
}

func (s *Storage) exists(lectureID, userID int64) bool {
	for _, a := range s.applications[lectureID] {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

type tx struct {
	s *Storage
}

func (t *tx) FindLecture(ctx context.Context, id int64) (models.Lecture, error) {
	return t.s.Lecture(ctx, id)
}

func (t *tx) CountApplications(_ context.Context, lectureID int64) (int, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	return len(t.s.applications[lectureID]), nil
}

func (t *tx) ExistsApplication(_ context.Context, lectureID, userID int64) (bool, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	return t.s.exists(lectureID, userID), nil
}

func (t *tx) InsertApplication(_ context.Context, lectureID, userID int64) (models.Application, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.s.exists(lectureID, userID) {
		return models.Application{}, storage.ErrAlreadyApplied
	}

	t.s.lastApp++
	app := models.Application{
		ID:        t.s.lastApp,
		LectureID: lectureID,
		UserID:    userID,
		CreatedAt: t.s.now().UTC(),
	}
	t.s.applications[lectureID] = append(t.s.applications[lectureID], app)

	return app, nil
}
