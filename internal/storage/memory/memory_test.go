package memory

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lectureRegistrar/internal/storage"
	"sync"
	"testing"
	"time"
)

func TestLecturesOrdering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	day := time.Date(2024, 12, 25, 18, 0, 0, 0, time.UTC)

	late, err := s.CreateLecture(ctx, "late", day.Add(48*time.Hour), 30)
	require.NoError(t, err)
	first, err := s.CreateLecture(ctx, "first", day, 30)
	require.NoError(t, err)
	second, err := s.CreateLecture(ctx, "second", day, 10)
	require.NoError(t, err)

	lectures, err := s.Lectures(ctx)
	require.NoError(t, err)
	require.Len(t, lectures, 3)

	assert.Equal(t, first, lectures[0].ID)
	assert.Equal(t, second, lectures[1].ID)
	assert.Equal(t, late, lectures[2].ID)

	again, err := s.Lectures(ctx)
	require.NoError(t, err)
	assert.Equal(t, lectures, again)
}

func TestCreateLectureRejectsNonPositiveCapacity(t *testing.T) {
	t.Parallel()

	_, err := New().CreateLecture(context.Background(), "empty", time.Now(), 0)
	require.Error(t, err)
}

func TestWithinLecture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	id, err := s.CreateLecture(ctx, "Go concurrency", time.Now(), 2)
	require.NoError(t, err)

	err = s.WithinLecture(ctx, id, func(tx storage.Tx) error {
		lecture, err := tx.FindLecture(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 2, lecture.Capacity)

		_, err = tx.InsertApplication(ctx, id, 1)
		require.NoError(t, err)

		_, err = tx.InsertApplication(ctx, id, 1)
		assert.ErrorIs(t, err, storage.ErrAlreadyApplied)

		n, err := tx.CountApplications(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		exists, err := tx.ExistsApplication(ctx, id, 1)
		require.NoError(t, err)
		assert.True(t, exists)

		return nil
	})
	require.NoError(t, err)

	applied, err := s.HasApplied(ctx, 1)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.HasAppliedTo(ctx, id, 2)
	require.NoError(t, err)
	assert.False(t, applied)

	apps, err := s.Applications(ctx, id)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, int64(1), apps[0].UserID)
}

func TestWithinLectureUnknownLecture(t *testing.T) {
	t.Parallel()

	called := false
	err := New().WithinLecture(context.Background(), 42, func(tx storage.Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, storage.ErrLectureNotFound)
	assert.False(t, called)
}

func TestWithinLectureSerializesSameLecture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := New()

	id, err := s.CreateLecture(ctx, "counter", time.Now(), 1000)
	require.NoError(t, err)

	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()

			_ = s.WithinLecture(ctx, id, func(tx storage.Tx) error {
				n, err := tx.CountApplications(ctx, id)
				if err != nil {
					return err
				}
				if n >= 25 {
					return storage.ErrCapacityExceeded
				}
				_, err = tx.InsertApplication(ctx, id, user)
				return err
			})
		}(int64(i + 1))
	}
	wg.Wait()

	apps, err := s.Applications(ctx, id)
	require.NoError(t, err)
	assert.Len(t, apps, 25)
}

func TestWithinLectureCancelledContext(t *testing.T) {
	t.Parallel()

	s := New()
	id, err := s.CreateLecture(context.Background(), "cancelled", time.Now(), 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.WithinLecture(ctx, id, func(tx storage.Tx) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
