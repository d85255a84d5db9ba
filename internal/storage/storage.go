package storage

import (
	"context"
	"errors"
	"lectureRegistrar/internal/models"
)

var (
	ErrLectureNotFound  = errors.New("lecture not found")
	ErrAlreadyApplied   = errors.New("user already applied for this lecture")
	ErrCapacityExceeded = errors.New("lecture capacity exceeded")
)

// Tx is the set of operations available inside WithinLecture. Every call made
// through a Tx observes and mutates the lecture's applications atomically
// with respect to other WithinLecture calls for the same lecture.
type Tx interface {
	FindLecture(ctx context.Context, id int64) (models.Lecture, error)
	CountApplications(ctx context.Context, lectureID int64) (int, error)
	ExistsApplication(ctx context.Context, lectureID, userID int64) (bool, error)
	InsertApplication(ctx context.Context, lectureID, userID int64) (models.Application, error)
}
