package sqlite

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lectureRegistrar/internal/storage"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "registrar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestCreateAndListLectures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)

	day := time.Date(2024, 12, 25, 18, 0, 0, 0, time.UTC)

	late, err := s.CreateLecture(ctx, "Databases", day.Add(24*time.Hour), 20)
	require.NoError(t, err)
	early, err := s.CreateLecture(ctx, "Go basics", day, 30)
	require.NoError(t, err)

	lectures, err := s.Lectures(ctx)
	require.NoError(t, err)
	require.Len(t, lectures, 2)

	assert.Equal(t, early, lectures[0].ID)
	assert.Equal(t, "Go basics", lectures[0].Title)
	assert.Equal(t, 30, lectures[0].Capacity)
	assert.True(t, day.Equal(lectures[0].Date))
	assert.Equal(t, late, lectures[1].ID)

	lecture, err := s.Lecture(ctx, late)
	require.NoError(t, err)
	assert.Equal(t, "Databases", lecture.Title)

	_, err = s.Lecture(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrLectureNotFound)
}

func TestCreateLectureRejectsNonPositiveCapacity(t *testing.T) {
	t.Parallel()

	_, err := newTestStorage(t).CreateLecture(context.Background(), "broken", time.Now(), 0)
	require.Error(t, err)
}

func TestWithinLecture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)

	id, err := s.CreateLecture(ctx, "Go basics", time.Now(), 30)
	require.NoError(t, err)

	err = s.WithinLecture(ctx, id, func(tx storage.Tx) error {
		app, err := tx.InsertApplication(ctx, id, 7)
		require.NoError(t, err)
		assert.NotZero(t, app.ID)

		_, err = tx.InsertApplication(ctx, id, 7)
		assert.ErrorIs(t, err, storage.ErrAlreadyApplied)

		n, err := tx.CountApplications(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		return nil
	})
	require.NoError(t, err)

	applied, err := s.HasApplied(ctx, 7)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.HasAppliedTo(ctx, id, 8)
	require.NoError(t, err)
	assert.False(t, applied)

	apps, err := s.Applications(ctx, id)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, int64(7), apps[0].UserID)
	assert.Equal(t, id, apps[0].LectureID)
}

func TestWithinLectureRollsBackOnError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)

	id, err := s.CreateLecture(ctx, "Go basics", time.Now(), 30)
	require.NoError(t, err)

	err = s.WithinLecture(ctx, id, func(tx storage.Tx) error {
		_, err := tx.InsertApplication(ctx, id, 1)
		require.NoError(t, err)
		return storage.ErrCapacityExceeded
	})
	assert.ErrorIs(t, err, storage.ErrCapacityExceeded)

	applied, err := s.HasApplied(ctx, 1)
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestWithinLectureUnknownLecture(t *testing.T) {
	t.Parallel()

	err := newTestStorage(t).WithinLecture(context.Background(), 404, func(tx storage.Tx) error {
		return nil
	})
	assert.ErrorIs(t, err, storage.ErrLectureNotFound)

	_, err = newTestStorage(t).Applications(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrLectureNotFound)
}

func TestInMemoryDatabase(t *testing.T) {
	t.Parallel()

	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.CreateLecture(context.Background(), "memory", time.Now(), 1)
	require.NoError(t, err)

	lectures, err := s.Lectures(context.Background())
	require.NoError(t, err)
	assert.Len(t, lectures, 1)
}

func TestWithinLectureConcurrentCheckAndInsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)

	id, err := s.CreateLecture(ctx, "crowded", time.Now(), 10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 40; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()

			_ = s.WithinLecture(ctx, id, func(tx storage.Tx) error {
				n, err := tx.CountApplications(ctx, id)
				if err != nil {
					return err
				}
				if n >= 10 {
					return storage.ErrCapacityExceeded
				}
				_, err = tx.InsertApplication(ctx, id, user)
				return err
			})
		}(int64(i))
	}
	wg.Wait()

	apps, err := s.Applications(ctx, id)
	require.NoError(t, err)
	assert.Len(t, apps, 10)
}

func TestApplicationsOrderedByCreationTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStorage(t)

	id, err := s.CreateLecture(ctx, "Go basics", time.Now(), 30)
	require.NoError(t, err)

	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	times := []time.Time{
		base,
		base.Add(100 * time.Millisecond),
		base.Add(120 * time.Millisecond),
		base.Add(time.Second + 5*time.Nanosecond),
	}

	for i, at := range times {
		at := at
		s.now = func() time.Time { return at }

		err = s.WithinLecture(ctx, id, func(tx storage.Tx) error {
			_, err := tx.InsertApplication(ctx, id, int64(i+1))
			return err
		})
		require.NoError(t, err)
	}

	apps, err := s.Applications(ctx, id)
	require.NoError(t, err)
	require.Len(t, apps, len(times))

	for i, app := range apps {
		assert.Equal(t, int64(i+1), app.UserID)
		assert.True(t, times[i].Equal(app.CreatedAt), "created_at %v, want %v", app.CreatedAt, times[i])
	}
}
