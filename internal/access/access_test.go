package access

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStaticToken(t *testing.T) {
	logger := zerolog.New(io.Discard)

	t.Run("ExactMatch", func(t *testing.T) {
		a := NewStaticToken("s3cret", logger)
		assert.True(t, a.CanListAllBookings("s3cret"))
	})

	t.Run("Mismatch", func(t *testing.T) {
		a := NewStaticToken("s3cret", logger)
		assert.False(t, a.CanListAllBookings("S3cret"))
		assert.False(t, a.CanListAllBookings("s3cret "))
		assert.False(t, a.CanListAllBookings(""))
	})

	t.Run("EmptySecretDeniesEverything", func(t *testing.T) {
		a := NewStaticToken("", logger)
		assert.False(t, a.CanListAllBookings(""))
		assert.False(t, a.CanListAllBookings("anything"))
	})
}
