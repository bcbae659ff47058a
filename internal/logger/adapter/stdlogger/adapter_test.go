package stdlogger_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clay-auth/clay-auth/internal/logger/adapter/stdlogger"
)

func capture(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	global, globalLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = global
		zerolog.SetGlobalLevel(globalLevel)
	})

	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any

	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))

		lines = append(lines, line)
	}

	return lines
}

func TestLevels(t *testing.T) {
	buf := capture(t, zerolog.DebugLevel)
	l := stdlogger.New("gorm")

	l.Debugf("slow query %dms", 250)
	l.Infof("connected to %s", "sqlite")
	l.Printf("record not found: %s", "/_users/abc")
	l.Warningf("retrying %d", 1)
	l.Warnf("retrying %d", 2)
	l.Errorf("failed: %v", "timeout")

	lines := decode(t, buf)
	require.Len(t, lines, 6)

	want := []struct{ level, msg string }{
		{"debug", "slow query 250ms"},
		{"info", "connected to sqlite"},
		{"info", "record not found: /_users/abc"},
		{"warn", "retrying 1"},
		{"warn", "retrying 2"},
		{"error", "failed: timeout"},
	}

	for i, w := range want {
		assert.Equal(t, w.level, lines[i]["level"])
		assert.Equal(t, w.msg, lines[i]["message"])
		assert.Equal(t, "gorm", lines[i]["component"])
	}
}

func TestGlobalLevelApplies(t *testing.T) {
	buf := capture(t, zerolog.WarnLevel)
	l := stdlogger.New("resty")

	l.Debugf("request %s", "GET")
	l.Infof("response %d", 200)
	l.Errorf("userinfo request failed")

	lines := decode(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "error", lines[0]["level"])
	assert.Equal(t, "resty", lines[0]["component"])
}

func TestWithoutComponent(t *testing.T) {
	buf := capture(t, zerolog.InfoLevel)

	stdlogger.New().Infof("plain")

	lines := decode(t, buf)
	require.Len(t, lines, 1)
	assert.Empty(t, lines[0]["component"])
}
