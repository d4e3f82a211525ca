package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"github.com/yalldumb/nails-tg-app/internal/config"
	"github.com/yalldumb/nails-tg-app/internal/models"
)

// SQLiteStore persists bookings on disk. Substituting it for the memory
// store changes nothing above the BookingStore interface.
type SQLiteStore struct {
	db     *sql.DB
	mode   string
	logger *zerolog.Logger
}

func NewSQLiteStore(path, conflictMode string, logger *zerolog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode and a busy timeout keep the single-writer model responsive.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &SQLiteStore{db: db, mode: conflictMode, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("sqlite store initialized")
	return s, nil
}

func (s *SQLiteStore) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			service_id INTEGER NOT NULL,
			service_title TEXT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL DEFAULT '',
			client_name TEXT NOT NULL,
			client_external_id TEXT NOT NULL DEFAULT '',
			comment TEXT NOT NULL DEFAULT '',
			images TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date_time ON bookings(date, time)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_client ON bookings(client_external_id)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("exec %q: %w", query, err)
		}
	}
	return nil
}

// Create checks the conflict key and inserts in one transaction so two
// concurrent submissions for the same date/slot cannot both land.
func (s *SQLiteStore) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var booked int64
	if s.mode == config.ConflictModeDateTime {
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings WHERE date = ? AND time = ?`,
			b.Date, b.Time,
		).Scan(&booked)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings WHERE date = ?`,
			b.Date,
		).Scan(&booked)
	}
	if err != nil {
		return nil, fmt.Errorf("check conflict: %w", err)
	}
	if booked > 0 {
		return nil, ErrConflict
	}

	stored := *b
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	images, err := json.Marshal(stored.Images)
	if err != nil {
		return nil, fmt.Errorf("encode images: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (
			service_id, service_title, date, time,
			client_name, client_external_id, comment, images, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ServiceID, stored.ServiceTitle, stored.Date, stored.Time,
		stored.ClientName, stored.ClientExternalID, stored.Comment,
		string(images), stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	stored.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &stored, nil
}

const selectBooking = `
	SELECT id, service_id, service_title, date, time,
	       client_name, client_external_id, comment, images, created_at
	FROM bookings`

func (s *SQLiteStore) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.query(ctx, selectBooking+` ORDER BY id DESC`)
}

func (s *SQLiteStore) ListByClient(ctx context.Context, externalID string) ([]models.Booking, error) {
	return s.query(ctx, selectBooking+` WHERE client_external_id = ? ORDER BY id DESC`, externalID)
}

func (s *SQLiteStore) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return s.query(ctx, selectBooking+` WHERE date = ? ORDER BY id DESC`, date)
}

func (s *SQLiteStore) ListByMonth(ctx context.Context, month string) ([]models.Booking, error) {
	return s.query(ctx, selectBooking+` WHERE date LIKE ? ORDER BY id DESC`, month+"-%")
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		var b models.Booking
		var images string
		if err := rows.Scan(
			&b.ID, &b.ServiceID, &b.ServiceTitle, &b.Date, &b.Time,
			&b.ClientName, &b.ClientExternalID, &b.Comment, &images, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(images), &b.Images); err != nil {
			s.logger.Warn().Int64("booking_id", b.ID).Err(err).Msg("bad images payload")
			b.Images = nil
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
