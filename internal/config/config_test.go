package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue(t *testing.T) {
	t.Run("flag takes precedence", func(t *testing.T) {
		t.Setenv("TEST_KEY", "from-env")
		got := getConfigValue("from-flag", "TEST_KEY", "from-default")
		assert.Equal(t, "from-flag", got)
	})

	t.Run("env when flag empty", func(t *testing.T) {
		t.Setenv("TEST_KEY", "from-env")
		got := getConfigValue("", "TEST_KEY", "from-default")
		assert.Equal(t, "from-env", got)
	})

	t.Run("default when both empty", func(t *testing.T) {
		got := getConfigValue("", "TEST_MISSING_KEY", "from-default")
		assert.Equal(t, "from-default", got)
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("loads key value pairs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "# comment\nFOO_TEST_VAR=hello\n\nBAR_TEST_VAR=\"quoted\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		t.Setenv("FOO_TEST_VAR", "")
		os.Unsetenv("FOO_TEST_VAR")
		t.Setenv("BAR_TEST_VAR", "")
		os.Unsetenv("BAR_TEST_VAR")

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "hello", os.Getenv("FOO_TEST_VAR"))
		assert.Equal(t, "quoted", os.Getenv("BAR_TEST_VAR"))
	})

	t.Run("env vars win over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("PRESET_TEST_VAR=file\n"), 0o600))

		t.Setenv("PRESET_TEST_VAR", "env")
		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "env", os.Getenv("PRESET_TEST_VAR"))
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("not a pair\n"), 0o600))
		assert.Error(t, loadEnvFile(path))
	})

	t.Run("missing file returns error", func(t *testing.T) {
		assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Run("empty uses default", func(t *testing.T) {
		got, err := expandPath("", "/srv/data")
		require.NoError(t, err)
		assert.Equal(t, "/srv/data", got)
	})

	t.Run("tilde expansion", func(t *testing.T) {
		got, err := expandPath("~/wishlist", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "wishlist"), got)
	})

	t.Run("relative made absolute", func(t *testing.T) {
		got, err := expandPath("some/dir", "")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Environment: "development"},
			Logger: LoggerConfig{Level: "info"},
			Data:   DataConfig{BasePath: "/srv/wishlist"},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := valid()
		cfg.App.Environment = "testing"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := valid()
		cfg.Logger.Level = "verbose"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty data path", func(t *testing.T) {
		cfg := valid()
		cfg.Data.BasePath = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "/srv/wishlist"}}
	assert.Equal(t, "/srv/wishlist/wishlist.db", cfg.DatabasePath())
	assert.Equal(t, "/srv/wishlist/covers", cfg.CoverCachePath())
	assert.Equal(t, "/srv/wishlist/backups", cfg.BackupPath())
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t, []string{"http://a", "http://b"}, splitOrigins("http://a, http://b"))
	assert.Equal(t, []string{"http://a"}, splitOrigins("http://a,,"))
}
