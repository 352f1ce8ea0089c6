package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/cellterm/config"
	"github.com/lixenwraith/cellterm/terminal"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	cfg := config.Default()
	logger, f, err := setupLogging(cfg)
	require.NoError(t, err)
	assert.Nil(t, f, "no log file when debug=false")
	assert.False(t, logger.Enabled(t.Context(), 0))
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	cfg := config.Default()
	cfg.Debug = true
	cfg.LogFile = filepath.Join(t.TempDir(), "input-test.log")

	logger, f, err := setupLogging(cfg)
	require.NoError(t, err)
	require.NotNil(t, f)

	logger.Debug("test log message", "key", "value")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test log message")
	assert.Contains(t, string(data), "key=value")
}

func TestFormatKeyEvent(t *testing.T) {
	cases := []struct {
		ev   terminal.Event
		want string
	}{
		{terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Ch: 'a'}, "KEY: 'a'"},
		{terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Ch: 'é'}, "KEY: U+00E9"},
		{terminal.Event{Type: terminal.EventKey, Mod: terminal.ModCtrl | terminal.ModShift, Key: terminal.KeyUp}, "KEY: ctrl+shift+up"},
		{terminal.Event{Type: terminal.EventKey, Key: terminal.KeyF5}, "KEY: f5"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatKeyEvent(tc.ev))
	}
}

func TestQuitBindings(t *testing.T) {
	quit := parseBindings(quitBindings)
	require.Len(t, quit, 2)

	assert.True(t, quit.match(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyCtrlC}))
	assert.True(t, quit.match(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyCtrlQ}))
	assert.False(t, quit.match(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Ch: 'q'}))
	assert.False(t, quit.match(terminal.Event{Type: terminal.EventKey, Mod: terminal.ModAlt, Key: terminal.KeyCtrlC}))

	runes := parseBindings([]string{"alt+x"})
	assert.True(t, runes.match(terminal.Event{Type: terminal.EventKey, Mod: terminal.ModAlt, Key: terminal.KeyRune, Ch: 'x'}))
	assert.False(t, runes.match(terminal.Event{Type: terminal.EventKey, Mod: terminal.ModAlt, Key: terminal.KeyRune, Ch: 'y'}))
}
