package mdns

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "_wishlist._tcp", ServiceType)
	assert.Equal(t, "v1", APIVersion)
}

func TestNewService(t *testing.T) {
	service := NewService(newTestLogger())

	require.NotNil(t, service)
	assert.Nil(t, service.server, "server should be nil before Start")
}

func TestServiceStop(t *testing.T) {
	t.Run("stop when not started is safe", func(t *testing.T) {
		service := NewService(newTestLogger())

		service.Stop()
		assert.Nil(t, service.server)
	})

	t.Run("stop can be called multiple times", func(t *testing.T) {
		service := NewService(newTestLogger())

		service.Stop()
		service.Stop()
		service.Stop()
	})
}
