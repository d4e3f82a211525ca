package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Backup copies the sqlite database file to a timestamped snapshot on a
// fixed interval and prunes snapshots older than the retention window.
// WAL mode keeps the main file consistent enough for a plain file copy.
type Backup struct {
	dbPath    string
	dir       string
	interval  time.Duration
	retention time.Duration
	logger    zerolog.Logger
}

func NewBackup(dbPath, dir string, interval time.Duration, retentionDays int, logger zerolog.Logger) *Backup {
	return &Backup{
		dbPath:    dbPath,
		dir:       dir,
		interval:  interval,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger.With().Str("component", "backup").Logger(),
	}
}

// Run takes one snapshot immediately, then one per interval until the done
// channel closes. Call from a goroutine.
func (b *Backup) Run(done <-chan struct{}) {
	b.logger.Info().Str("dir", b.dir).Dur("interval", b.interval).Msg("backup loop started")

	if err := b.Snapshot(); err != nil {
		b.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := b.Snapshot(); err != nil {
				b.logger.Error().Err(err).Msg("backup failed")
			}
			b.prune()
		}
	}
}

// Snapshot writes a single timestamped copy of the database file.
func (b *Backup) Snapshot() error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("bookings_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(b.dir, name)

	src, err := os.Open(b.dbPath)
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	b.logger.Info().Str("path", dst).Msg("backup written")
	return nil
}

func (b *Backup) prune() {
	if b.retention <= 0 {
		return
	}

	entries, err := os.ReadDir(b.dir)
	if err != nil {
		b.logger.Error().Err(err).Msg("read backup dir failed")
		return
	}

	cutoff := time.Now().Add(-b.retention)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			b.logger.Info().Str("file", entry.Name()).Msg("pruning old backup")
			_ = os.Remove(filepath.Join(b.dir, entry.Name()))
		}
	}
}
