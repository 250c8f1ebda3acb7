package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, "info", "json")
	log.Debug("hidden")
	log.Info("archive_event", "action", "archive_delete", "original_table", "restaurants")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "archive_event", line["msg"])
	assert.Equal(t, "restaurants", line["original_table"])
}

func TestPrettyHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, "warn", "pretty").With("component", "seed").WithGroup("db")
	log.Info("hidden")
	log.Warn("seed skipped", "error", errors.New("table not empty"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "seed skipped")
	assert.Contains(t, out, "component")
	assert.Contains(t, out, "db.error")
	assert.Contains(t, out, "table not empty")
}

func TestPrettyHandler_Values(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil))
	log.Info("request",
		"duration", 1500*time.Millisecond,
		"path", "/api/v1/archives",
		"note", "cerrado por remodelación",
		slog.Group("owner", "id", "u1"),
	)

	out := buf.String()
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "/api/v1/archives")
	assert.Contains(t, out, `"cerrado por remodelación"`)
	assert.Contains(t, out, "owner.id")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}
