package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tagcolor "github.com/wishlistapp/wishlist-server/internal/color"
	apperrors "github.com/wishlistapp/wishlist-server/internal/errors"
	"github.com/wishlistapp/wishlist-server/internal/store/sqlite"
)

func newTestTagService(t *testing.T) *TagService {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return NewTagService(st, logger)
}

func TestTagService_Create(t *testing.T) {
	svc := newTestTagService(t)
	ctx := context.Background()

	tag, err := svc.Create(ctx, " sci-fi ", "#16a34a")
	require.NoError(t, err)

	assert.NotEmpty(t, tag.ID)
	assert.Equal(t, "sci-fi", tag.Name, "name should be trimmed")
	assert.Equal(t, "#16a34a", tag.Color)

	got, err := svc.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, tag.Name, got.Name)
}

func TestTagService_Create_DefaultColor(t *testing.T) {
	svc := newTestTagService(t)
	ctx := context.Background()

	tag, err := svc.Create(ctx, "fantasy", "")
	require.NoError(t, err)
	assert.Equal(t, tagcolor.ForTag("fantasy"), tag.Color, "missing color falls back to the deterministic palette")
}

func TestTagService_Create_DuplicateName(t *testing.T) {
	svc := newTestTagService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "sci-fi", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "sci-fi", "#000000")
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict), "duplicate name must conflict, got %v", err)
}

func TestTagService_Create_Validation(t *testing.T) {
	svc := newTestTagService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "   ", "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.Create(ctx, strings.Repeat("x", 51), "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestTagService_List(t *testing.T) {
	svc := newTestTagService(t)
	ctx := context.Background()

	for _, name := range []string{"zebra", "apple", "Next"} {
		_, err := svc.Create(ctx, name, "")
		require.NoError(t, err)
	}

	tags, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)

	assert.Equal(t, "apple", tags[0].Name)
	assert.Equal(t, "Next", tags[1].Name)
	assert.Equal(t, "zebra", tags[2].Name)
}
