// Package uploads stores booking photo attachments as opaque blobs on the
// local filesystem, addressable by generated filenames.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yalldumb/nails-tg-app/internal/metrics"
)

// URLPrefix is where stored blobs are exposed over HTTP.
const URLPrefix = "/uploads/"

// ErrUploadFailed wraps any storage failure, including timeouts. A failed
// or timed-out save must abort the whole booking submission.
var ErrUploadFailed = errors.New("uploads: store attachment failed")

type Store struct {
	dir     string
	timeout time.Duration
	logger  zerolog.Logger
}

func NewStore(dir string, timeout time.Duration, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &Store{
		dir:     dir,
		timeout: timeout,
		logger:  logger.With().Str("component", "uploads").Logger(),
	}, nil
}

// Dir returns the directory blobs are written to.
func (s *Store) Dir() string { return s.dir }

// Save writes one attachment under a fresh uuid name, keeping the original
// extension, and returns its relative URL. The write is bounded by the
// configured timeout; on timeout or error the partial file is removed.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := uuid.NewString() + sanitizeExt(originalName)
	dst := filepath.Join(s.dir, name)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- writeFile(dst, r)
	}()

	select {
	case err := <-done:
		if err != nil {
			_ = os.Remove(dst)
			s.logger.Error().Err(err).Str("file", name).Msg("attachment write failed")
			return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
	case <-ctx.Done():
		// The writer goroutine may still be running; the partial file is
		// removed either way and the name is never reused.
		_ = os.Remove(dst)
		s.logger.Error().Str("file", name).Msg("attachment write timed out")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, ctx.Err())
	}

	metrics.IncPhotosStored()
	return URLPrefix + name, nil
}

func writeFile(dst string, r io.Reader) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// sanitizeExt keeps a short, lowercase extension and drops anything odd.
func sanitizeExt(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if len(ext) < 2 || len(ext) > 8 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
