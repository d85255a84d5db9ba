package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	"lectureRegistrar/internal/config"
	"lectureRegistrar/internal/models"
	"lectureRegistrar/internal/storage"
	"net/url"
	"strconv"
	"time"
)

const uniqueViolation = "23505"

//go:embed migrations/*.sql
var migrations embed.FS

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = Migrate(dbCfg); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{DB: db}, nil
}

// Migrate applies the embedded migrations over a dedicated connection.
func Migrate(dbCfg *config.Database) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrationURL(dbCfg))
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

func migrationURL(dbCfg *config.Database) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbCfg.User, dbCfg.Password),
		Host:     dbCfg.Host + ":" + strconv.Itoa(dbCfg.Port),
		Path:     "/" + dbCfg.DBName,
		RawQuery: url.Values{"sslmode": []string{dbCfg.SSLMode}}.Encode(),
	}

	return u.String()
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) CreateLecture(ctx context.Context, title string, date time.Time, capacity int) (int64, error) {
	query := `
		INSERT INTO lectures (title, capacity, date)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	err := s.DB.QueryRowContext(ctx, query, title, capacity, date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create lecture: %w", err)
	}

	return id, nil
}

func (s *Storage) Lecture(ctx context.Context, id int64) (models.Lecture, error) {
	return findLecture(ctx, s.DB, id, false)
}

func (s *Storage) Lectures(ctx context.Context) ([]models.Lecture, error) {
	query := `
		SELECT id, title, capacity, date
		FROM lectures
		ORDER BY date ASC, id ASC`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get lectures: %w", err)
	}
	defer rows.Close()

	var lectures []models.Lecture
	for rows.Next() {
		var lecture models.Lecture
		err = rows.Scan(
			&lecture.ID,
			&lecture.Title,
			&lecture.Capacity,
			&lecture.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lecture: %w", err)
		}

		lectures = append(lectures, lecture)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lectures: %w", err)
	}

	return lectures, nil
}

func (s *Storage) Applications(ctx context.Context, lectureID int64) ([]models.Application, error) {
	if _, err := findLecture(ctx, s.DB, lectureID, false); err != nil {
		return nil, err
	}

	query := `
		SELECT id, lecture_id, user_id, created_at
		FROM applications
		WHERE lecture_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := s.DB.QueryContext(ctx, query, lectureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get applications: %w", err)
	}
	defer rows.Close()

	var applications []models.Application
	for rows.Next() {
		var app models.Application
		err = rows.Scan(
			&app.ID,
			&app.LectureID,
			&app.UserID,
			&app.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, app)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}

	return applications, nil
}

func (s *Storage) HasApplied(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE user_id = $1)`

	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}

	return exists, nil
}

func (s *Storage) HasAppliedTo(ctx context.Context, lectureID, userID int64) (bool, error) {
	return existsApplication(ctx, s.DB, lectureID, userID)
}

// WithinLecture runs fn in a transaction holding a row lock on the lecture,
// so concurrent admissions for the same lecture are applied one at a time.
func (s *Storage) WithinLecture(ctx context.Context, lectureID int64, fn func(tx storage.Tx) error) error {
	sqlTx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err = findLecture(ctx, sqlTx, lectureID, true); err != nil {
		return err
	}

	if err = fn(&tx{q: sqlTx}); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type tx struct {
	q querier
}

func (t *tx) FindLecture(ctx context.Context, id int64) (models.Lecture, error) {
	return findLecture(ctx, t.q, id, false)
}

func (t *tx) CountApplications(ctx context.Context, lectureID int64) (int, error) {
	query := `SELECT COUNT(*) FROM applications WHERE lecture_id = $1`

	var count int
	if err := t.q.QueryRowContext(ctx, query, lectureID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}

	return count, nil
}

func (t *tx) ExistsApplication(ctx context.Context, lectureID, userID int64) (bool, error) {
	return existsApplication(ctx, t.q, lectureID, userID)
}

func (t *tx) InsertApplication(ctx context.Context, lectureID, userID int64) (models.Application, error) {
	query := `
		INSERT INTO applications (lecture_id, user_id, created_at)
		VALUES ($1, $2, clock_timestamp())
		RETURNING id, lecture_id, user_id, created_at`

	var app models.Application
	err := t.q.QueryRowContext(ctx, query, lectureID, userID).Scan(
		&app.ID,
		&app.LectureID,
		&app.UserID,
		&app.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Application{}, storage.ErrAlreadyApplied
		}
		return models.Application{}, fmt.Errorf("failed to create application: %w", err)
	}

	return app, nil
}

func findLecture(ctx context.Context, q querier, id int64, forUpdate bool) (models.Lecture, error) {
	query := `
		SELECT id, title, capacity, date
		FROM lectures
		WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var lecture models.Lecture
	err := q.QueryRowContext(ctx, query, id).Scan(
		&lecture.ID,
		&lecture.Title,
		&lecture.Capacity,
		&lecture.Date,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Lecture{}, storage.ErrLectureNotFound
		}
		return models.Lecture{}, fmt.Errorf("failed to get lecture: %w", err)
	}

	return lecture, nil
}

func existsApplication(ctx context.Context, q querier, lectureID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE lecture_id = $1 AND user_id = $2
		)`

	var exists bool
	if err := q.QueryRowContext(ctx, query, lectureID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing application: %w", err)
	}

	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
