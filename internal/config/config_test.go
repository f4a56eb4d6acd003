package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cafebot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("database", "", "")
	flags.String("images-dir", "", "")
	flags.String("token", "", "")
	flags.String("log-level", "", "")
	flags.Duration("poll-timeout", 0, "")
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	chdir(t, t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.Token)
	assert.Equal(t, DefaultDatabase, cfg.Database)
	assert.Equal(t, DefaultImagesDir, cfg.ImagesDir)
	assert.Equal(t, DefaultPollTimeout, cfg.PollTimeout)
	assert.Equal(t, LogConfig{Level: "info", Format: "text"}, cfg.Log)
	assert.Equal(t, []string{"matcha"}, cfg.Menu.Ungrouped)
	assert.Equal(t, 1024, cfg.Menu.CaptionLimit)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `token: from_file
database: menu.db
poll_timeout: 30s
log:
  level: debug
  format: json
menu:
  ungrouped: [matcha, tea_fruit]
  caption_limit: 900
  category_labels:
    seasonal: Сезонное
  compound:
    coffee_signature:
      - prefix: raf_
        segments: 2
  special_desserts:
    macarons:
      item_id: macaron_box
      images: [box.jpg]
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "from_file", cfg.Token)
	assert.Equal(t, "menu.db", cfg.Database)
	assert.Equal(t, 30*time.Second, cfg.PollTimeout)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)

	m := cfg.Menu
	assert.Equal(t, []string{"matcha", "tea_fruit"}, m.Ungrouped)
	assert.Equal(t, 900, m.CaptionLimit)
	assert.Equal(t, "Сезонное", m.CategoryLabel("seasonal"))
	// a configured table replaces the stock one
	assert.Equal(t, "coffee_classic", m.CategoryLabel("coffee_classic"))
	assert.Equal(t, "raf_lavender", m.GroupKey("coffee_signature", "raf_lavender_300"))
	require.Contains(t, m.SpecialDesserts, "macarons")
	assert.Equal(t, "macaron_box", m.SpecialDesserts["macarons"].ItemID)
	assert.NotContains(t, m.SpecialDesserts, "shu")
	// untouched tables keep their defaults
	assert.Equal(t, "Начинки", m.PreparationLabels["shu"])
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, "database: from_file\nimages_dir: from_file\n")

	t.Setenv("CAFEBOT_DATABASE", "from_env")
	t.Setenv("CAFEBOT_IMAGES_DIR", "from_env")
	t.Setenv("CAFEBOT_LOG_LEVEL", "warn")

	flags := testFlags()
	require.NoError(t, flags.Set("database", "from_flag"))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.Database, "flag should override env and file")
	assert.Equal(t, "from_env", cfg.ImagesDir, "env should override file when the flag is unset")
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MenuEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CAFEBOT_MENU_CAPTION_LIMIT", "500")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Menu.CaptionLimit)
}

func TestConfigKey(t *testing.T) {
	tests := map[string]string{
		"DATABASE":           "database",
		"IMAGES_DIR":         "images_dir",
		"images-dir":         "images_dir",
		"LOG_LEVEL":          "log.level",
		"log-format":         "log.format",
		"MENU_CAPTION_LIMIT": "menu.caption_limit",
		"poll-timeout":       "poll_timeout",
	}
	for in, want := range tests {
		assert.Equal(t, want, configKey(in), in)
	}
}

func TestLoad_FlagKeys(t *testing.T) {
	chdir(t, t.TempDir())

	flags := testFlags()
	require.NoError(t, flags.Set("images-dir", "/srv/photos"))
	require.NoError(t, flags.Set("log-level", "error"))
	require.NoError(t, flags.Set("poll-timeout", "5s"))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "/srv/photos", cfg.ImagesDir)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.PollTimeout)
}

func TestLoad_TokenFallback(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_TOKEN", "legacy")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Token)

	t.Setenv("CAFEBOT_TOKEN", "preferred")
	cfg, err = Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "preferred", cfg.Token)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"special without item", "menu:\n  special_desserts:\n    shu:\n      images: [a.jpg]\n"},
		{"compound without prefix", "menu:\n  compound:\n    coffee_signature:\n      - segments: 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "chat", 42)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"chat":42`)

	buf.Reset()
	logger, err = LogConfig{Level: "debug", Format: "text"}.NewLogger(&buf)
	require.NoError(t, err)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = LogConfig{Level: "loud"}.NewLogger(&buf)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
