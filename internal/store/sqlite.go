package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ashureev/debate-coach/internal/domain"
	"github.com/ashureev/debate-coach/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	writeMu sync.Mutex // Serializes writes to avoid SQLITE_BUSY between pooled connections
	retry   shared.RetryPolicy
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for concurrent readers; busy timeout applied on every pooled connection.
	dsn := "file:" + dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, retry: shared.DefaultRetryPolicy}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS arguments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		topic TEXT NOT NULL,
		argument TEXT NOT NULL,
		score REAL NOT NULL,
		feedback TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_arguments_email ON arguments(email);

	CREATE TABLE IF NOT EXISTS usage (
		email TEXT PRIMARY KEY,
		practice_time INTEGER NOT NULL DEFAULT 0,
		real_debate_time INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		email TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		institution TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

// write runs fn under the write lock with SQLITE_BUSY retries.
func (s *SQLiteStore) write(ctx context.Context, op string, fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return shared.RetryOnConflict(ctx, s.retry, op, fn)
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// InsertArgument appends an argument record and returns its ID.
func (s *SQLiteStore) InsertArgument(ctx context.Context, rec *domain.ArgumentRecord) (int64, error) {
	query := `
	INSERT INTO arguments (email, topic, argument, score, feedback, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var id int64
	err := s.write(ctx, "insert argument", func() error {
		result, err := s.db.ExecContext(ctx, query,
			rec.Owner, rec.Topic, rec.Argument, rec.Score, rec.Feedback, createdAt.Unix())
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, storageErr("insert argument", err)
	}
	return id, nil
}

// ListArguments returns every argument saved by owner.
func (s *SQLiteStore) ListArguments(ctx context.Context, owner string) ([]domain.ArgumentRecord, error) {
	query := `
		SELECT id, email, topic, argument, score, feedback, created_at
		FROM arguments WHERE email = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, storageErr("query arguments", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close argument rows", "error", closeErr)
		}
	}()

	records := make([]domain.ArgumentRecord, 0)
	for rows.Next() {
		var rec domain.ArgumentRecord
		var createdAt int64
		if err := rows.Scan(
			&rec.ID, &rec.Owner, &rec.Topic, &rec.Argument,
			&rec.Score, &rec.Feedback, &createdAt,
		); err != nil {
			return nil, storageErr("scan argument row", err)
		}
		rec.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate arguments", err)
	}

	return records, nil
}

// DeleteArgument removes an argument by ID.
func (s *SQLiteStore) DeleteArgument(ctx context.Context, id int64) (bool, error) {
	var rows int64
	err := s.write(ctx, "delete argument", func() error {
		result, err := s.db.ExecContext(ctx, `DELETE FROM arguments WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rows, err = result.RowsAffected()
		return err
	})
	if err != nil {
		return false, storageErr("delete argument", err)
	}
	return rows > 0, nil
}

// ArgumentStats returns count and mean score per owner.
func (s *SQLiteStore) ArgumentStats(ctx context.Context) ([]OwnerStats, error) {
	query := `
		SELECT email, COUNT(*), AVG(score)
		FROM arguments
		GROUP BY email`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("query argument stats", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close stats rows", "error", closeErr)
		}
	}()

	var stats []OwnerStats
	for rows.Next() {
		var st OwnerStats
		var avg sql.NullFloat64
		if err := rows.Scan(&st.Owner, &st.TotalArguments, &avg); err != nil {
			return nil, storageErr("scan stats row", err)
		}
		st.AverageScore = avg.Float64
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate argument stats", err)
	}

	return stats, nil
}

// IncrementUsage adds seconds to one counter in a single upsert statement.
func (s *SQLiteStore) IncrementUsage(ctx context.Context, owner string, category domain.UsageCategory, seconds int64) (domain.UsageRecord, error) {
	var practice, realDebate int64
	switch category {
	case domain.UsagePractice:
		practice = seconds
	case domain.UsageRealDebate:
		realDebate = seconds
	default:
		return domain.UsageRecord{}, domain.NewInputError("category", fmt.Sprintf("unknown category %q", category))
	}

	query := `
	INSERT INTO usage (email, practice_time, real_debate_time, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(email) DO UPDATE SET
		practice_time = usage.practice_time + excluded.practice_time,
		real_debate_time = usage.real_debate_time + excluded.real_debate_time,
		updated_at = excluded.updated_at
	RETURNING practice_time, real_debate_time`

	rec := domain.UsageRecord{Owner: owner}
	err := s.write(ctx, "increment usage", func() error {
		return s.db.QueryRowContext(ctx, query, owner, practice, realDebate, time.Now().Unix()).
			Scan(&rec.PracticeSeconds, &rec.RealDebateSeconds)
	})
	if err != nil {
		return domain.UsageRecord{}, storageErr("increment usage", err)
	}
	return rec, nil
}

// GetUsage retrieves the counters for owner.
func (s *SQLiteStore) GetUsage(ctx context.Context, owner string) (*domain.UsageRecord, error) {
	query := `SELECT email, practice_time, real_debate_time FROM usage WHERE email = ?`

	var rec domain.UsageRecord
	err := s.db.QueryRowContext(ctx, query, owner).Scan(&rec.Owner, &rec.PracticeSeconds, &rec.RealDebateSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("scan usage row", err)
	}
	return &rec, nil
}

// GetProfile retrieves a profile by owner.
func (s *SQLiteStore) GetProfile(ctx context.Context, owner string) (*domain.Profile, error) {
	query := `
		SELECT email, name, contact, institution, updated_at
		FROM profiles WHERE email = ?`

	var p domain.Profile
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, query, owner).Scan(
		&p.Owner, &p.Name, &p.Contact, &p.Institution, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("scan profile row", err)
	}
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// UpsertProfile creates or updates a profile.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	query := `
	INSERT INTO profiles (email, name, contact, institution, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(email) DO UPDATE SET
		name = excluded.name,
		contact = excluded.contact,
		institution = excluded.institution,
		updated_at = excluded.updated_at`

	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	err := s.write(ctx, "upsert profile", func() error {
		_, err := s.db.ExecContext(ctx, query, p.Owner, p.Name, p.Contact, p.Institution, updatedAt.Unix())
		return err
	})
	if err != nil {
		return storageErr("upsert profile", err)
	}
	return nil
}
