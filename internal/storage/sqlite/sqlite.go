package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"lectureRegistrar/internal/models"
	"lectureRegistrar/internal/storage"
	"time"
)

//go:embed schema.sql
var schema string

type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// New opens the database at path (":memory:" is accepted) and applies the schema.
// Transactions are started with BEGIN IMMEDIATE so the write lock is taken
// before the admission checks run.
func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	dsn := "file:" + path + "?_txlock=immediate&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// SQLite has a single writer; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: apply schema: %w", op, err)
	}

	return &Storage{db: db, now: time.Now}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreateLecture(ctx context.Context, title string, date time.Time, capacity int) (int64, error) {
	const op = "storage.sqlite.CreateLecture"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO lectures (title, capacity, date) VALUES (?, ?, ?)`,
		title, capacity, date.UTC().Truncate(time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to get last insert id: %w", op, err)
	}

	return id, nil
}

func (s *Storage) Lecture(ctx context.Context, id int64) (models.Lecture, error) {
	return findLecture(ctx, s.db, id)
}

func (s *Storage) Lectures(ctx context.Context) ([]models.Lecture, error) {
	const op = "storage.sqlite.Lectures"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, capacity, date
		FROM lectures
		ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var lectures []models.Lecture
	for rows.Next() {
		var l models.Lecture
		if err = rows.Scan(&l.ID, &l.Title, &l.Capacity, &l.Date); err != nil {
			return nil, fmt.Errorf("%s: failed to scan lecture: %w", op, err)
		}
		lectures = append(lectures, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return lectures, nil
}

func (s *Storage) Applications(ctx context.Context, lectureID int64) ([]models.Application, error) {
	const op = "storage.sqlite.Applications"

	if _, err := findLecture(ctx, s.db, lectureID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lecture_id, user_id, created_at
		FROM applications
		WHERE lecture_id = ?
		ORDER BY created_at ASC, id ASC`, lectureID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		var (
			a         models.Application
			createdAt int64
		)
		if err = rows.Scan(&a.ID, &a.LectureID, &a.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: failed to scan application: %w", op, err)
		}
		a.CreatedAt = time.Unix(0, createdAt).UTC()
		apps = append(apps, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return apps, nil
}

func (s *Storage) HasApplied(ctx context.Context, userID int64) (bool, error) {
	const op = "storage.sqlite.HasApplied"

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE user_id = ?)`, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (s *Storage) HasAppliedTo(ctx context.Context, lectureID, userID int64) (bool, error) {
	return existsApplication(ctx, s.db, lectureID, userID)
}

func (s *Storage) WithinLecture(ctx context.Context, lectureID int64, fn func(tx storage.Tx) error) error {
	const op = "storage.sqlite.WithinLecture"

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer sqlTx.Rollback()

	if _, err = findLecture(ctx, sqlTx, lectureID); err != nil {
		return err
	}

	if err = fn(&tx{q: sqlTx, now: s.now}); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}

	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type tx struct {
	q   querier
	now func() time.Time
}

func (t *tx) FindLecture(ctx context.Context, id int64) (models.Lecture, error) {
	return findLecture(ctx, t.q, id)
}

func (t *tx) CountApplications(ctx context.Context, lectureID int64) (int, error) {
	const op = "storage.sqlite.CountApplications"

	var n int
	err := t.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE lecture_id = ?`, lectureID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (t *tx) ExistsApplication(ctx context.Context, lectureID, userID int64) (bool, error) {
	return existsApplication(ctx, t.q, lectureID, userID)
}

func (t *tx) InsertApplication(ctx context.Context, lectureID, userID int64) (models.Application, error) {
	const op = "storage.sqlite.InsertApplication"

	app := models.Application{
		LectureID: lectureID,
		UserID:    userID,
		CreatedAt: t.now().UTC(),
	}

	res, err := t.q.ExecContext(ctx,
		`INSERT INTO applications (lecture_id, user_id, created_at) VALUES (?, ?, ?)`,
		app.LectureID, app.UserID, app.CreatedAt.UnixNano(),
	)
	if err != nil {
		if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
			return models.Application{}, storage.ErrAlreadyApplied
		}
		return models.Application{}, fmt.Errorf("%s: %w", op, err)
	}

	if app.ID, err = res.LastInsertId(); err != nil {
		return models.Application{}, fmt.Errorf("%s: failed to get last insert id: %w", op, err)
	}

	return app, nil
}

func findLecture(ctx context.Context, q querier, id int64) (models.Lecture, error) {
	const op = "storage.sqlite.findLecture"

	var l models.Lecture
	err := q.QueryRowContext(ctx,
		`SELECT id, title, capacity, date FROM lectures WHERE id = ?`, id,
	).Scan(&l.ID, &l.Title, &l.Capacity, &l.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Lecture{}, storage.ErrLectureNotFound
		}
		return models.Lecture{}, fmt.Errorf("%s: %w", op, err)
	}

	return l, nil
}

func existsApplication(ctx context.Context, q querier, lectureID, userID int64) (bool, error) {
	const op = "storage.sqlite.existsApplication"

	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE lecture_id = ? AND user_id = ?)`,
		lectureID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}
