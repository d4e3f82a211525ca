package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, timeout time.Duration) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), timeout, zerolog.New(io.Discard))
	require.NoError(t, err)
	return s
}

func TestSave_RoundTrip(t *testing.T) {
	s := testStore(t, time.Second)

	url, err := s.Save(context.Background(), "photo.JPG", strings.NewReader("binary"))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, URLPrefix))
	assert.True(t, strings.HasSuffix(url, ".jpg"), "extension kept, lowercased: %s", url)

	data, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(url, URLPrefix)))
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))
}

func TestSave_UniqueNames(t *testing.T) {
	s := testStore(t, time.Second)

	a, err := s.Save(context.Background(), "x.png", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Save(context.Background(), "x.png", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSave_Timeout(t *testing.T) {
	s := testStore(t, 30*time.Millisecond)

	slow := &slowReader{delay: 200 * time.Millisecond}
	_, err := s.Save(context.Background(), "x.jpg", slow)
	assert.ErrorIs(t, err, ErrUploadFailed)

	entries, readErr := os.ReadDir(s.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries, "partial file removed")
}

func TestSanitizeExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.jpg", ".jpg"},
		{"PHOTO.JPEG", ".jpeg"},
		{"noext", ""},
		{"weird.j p", ""},
		{"dotfile.", ""},
		{"archive.tar.gz", ".gz"},
		{"evil.superlongext", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeExt(tt.in), "sanitizeExt(%q)", tt.in)
	}
}

type slowReader struct {
	delay time.Duration
	done  bool
}

func (r *slowReader) Read(p []byte) (int, error) {
	time.Sleep(r.delay)
	if r.done {
		return 0, io.EOF
	}
	r.done = true
	n := copy(p, "x")
	return n, nil
}
