package api

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/wishlistapp/wishlist-server/internal/backup"
	"github.com/wishlistapp/wishlist-server/internal/logger"
	"github.com/wishlistapp/wishlist-server/internal/media/covers"
	"github.com/wishlistapp/wishlist-server/internal/metadata/audible"
	"github.com/wishlistapp/wishlist-server/internal/service"
	"github.com/wishlistapp/wishlist-server/internal/store/sqlite"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	Success   bool   `json:"success"`
	Data      T      `json:"data"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Details   any    `json:"details"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId"`
}

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api    humatest.TestAPI
	covers *covers.Service
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), slogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	storage, err := covers.NewStorage(filepath.Join(tmpDir, "covers"))
	require.NoError(t, err)
	coverService := covers.NewService(storage, slogger)

	services := &Services{
		Books:    service.NewBookService(st, nil, slogger),
		Tags:     service.NewTagService(st, slogger),
		Metadata: service.NewMetadataService(audible.New(slogger), slogger),
		Backup:   backup.NewService(st, filepath.Join(tmpDir, "backups"), slogger),
	}

	lg := logger.New(logger.Config{Writer: os.Stderr, Level: slog.LevelError})

	s := NewServer(Options{
		Services:    services,
		Covers:      coverService,
		CORSOrigins: []string{"*"},
		Logger:      lg,
	})

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		covers: coverService,
	}
}
