package logger_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clay-auth/clay-auth/internal/logger"
)

func consoleConfig(level string) logger.Log {
	return logger.Log{
		LogLevel:    level,
		ServiceName: "clay-auth",
		AppName:     "clay-auth",
		Console:     logger.Console{Enabled: true},
	}
}

func TestInitValidation(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     logger.Log
		wantErr error
	}{
		{name: "missing service name", cfg: logger.Log{LogLevel: "info", AppName: "clay-auth"}, wantErr: logger.ErrServiceNameIsEmpty},
		{name: "missing app name", cfg: logger.Log{LogLevel: "info", ServiceName: "clay-auth"}, wantErr: logger.ErrAppNameIsEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, logger.Init(tc.cfg), tc.wantErr)
		})
	}

	err := logger.Init(consoleConfig("loud"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loglevel loud is not supported")
}

func TestInitConsoleJSON(t *testing.T) {
	lines := captureConsole(t, consoleConfig("info"), func() {
		log.Info().Str("site", "example").Str("user", "alice").Msg("user saved")
		log.Warn().Str("uid", "abc").Msg("failed to refresh session")
		log.Debug().Msg("hidden below info")
		log.Trace().Msg("hidden below info")
	})

	require.Len(t, lines, 2)

	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "clay-auth", lines[0]["app"])
	assert.Equal(t, "example", lines[0]["site"])
	assert.Equal(t, "user saved", lines[0]["message"])
	assert.NotEmpty(t, lines[0]["time"])

	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "abc", lines[1]["uid"])
}

func TestInitWithoutWriters(t *testing.T) {
	lines := captureConsole(t, logger.Log{LogLevel: "info", ServiceName: "clay-auth", AppName: "clay-auth"}, func() {
		log.Error().Msg("nowhere to go")
	})

	assert.Empty(t, lines)
}

func TestLevelWriter(t *testing.T) {
	var errOut, info, trace, warn bytes.Buffer

	lw := &logger.LevelWriter{ErrorWriter: &errOut, InfoWriter: &info, TraceWriter: &trace, WarnWriter: &warn}

	writes := []struct {
		level zerolog.Level
		msg   string
	}{
		{zerolog.TraceLevel, "t"},
		{zerolog.DebugLevel, "d"},
		{zerolog.InfoLevel, "i"},
		{zerolog.WarnLevel, "w"},
		{zerolog.ErrorLevel, "e"},
		{zerolog.FatalLevel, "f"},
		{zerolog.Disabled, "x"},
	}

	for _, w := range writes {
		_, err := lw.WriteLevel(w.level, []byte(w.msg))
		require.NoError(t, err)
	}

	assert.Equal(t, "t", trace.String())
	assert.Equal(t, "di", info.String())
	assert.Equal(t, "w", warn.String())
	assert.Equal(t, "ef", errOut.String())
}

// captureConsole initializes the logger with stdout and stderr redirected and
// returns the decoded json lines written by fn.
func captureConsole(t *testing.T, cfg logger.Log, fn func()) []map[string]any {
	t.Helper()

	stdout, stderr, global := os.Stdout, os.Stderr, log.Logger

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	t.Cleanup(func() {
		os.Stdout, os.Stderr = stdout, stderr
		log.Logger = global
	})

	out := make(chan []byte)

	go func() {
		data, _ := io.ReadAll(r)
		out <- data
	}()

	require.NoError(t, logger.Init(cfg))
	fn()

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr

	var lines []map[string]any

	scanner := bufio.NewScanner(bytes.NewReader(<-out))
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), scanner.Text())

		lines = append(lines, line)
	}

	return lines
}
