package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"tendersdz/internal/logging"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel("DEBUG")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, lvl)

	lvl, err = logging.ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, lvl)

	_, err = logging.ParseLevel("loud")
	require.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "warn", "json")
	require.NoError(t, err)

	logger.Info("skipped")
	logger.Warn("session cleared", "identifier", "ops@tenders.dz")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "session cleared", entry["msg"])
	require.Equal(t, "ops@tenders.dz", entry["identifier"])
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}
