package telemetry_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exg/mvs/internal/telemetry"
)

func TestEachRecordIsOneJSONLine(t *testing.T) {
	var buf bytes.Buffer
	l := telemetry.New(&buf, telemetry.LevelInfo)
	l.Info("enumerate", telemetry.F("calls", 3), telemetry.F("max_weight", 4.5))
	l.Debug("suppressed")

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 1, "debug below the configured level must not be written")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "enumerate", rec["msg"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, 3.0, rec["calls"])
	assert.Equal(t, 4.5, rec["max_weight"])
}

func TestWithFieldsIsInheritedByDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := telemetry.New(&buf, telemetry.LevelDebug).WithFields(telemetry.F("tool", "mvs"))
	l.Warn("candidate", telemetry.F("id", 1))

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "mvs", rec["tool"])
	assert.Equal(t, 1.0, rec["id"])
	assert.Equal(t, "warn", rec["level"])
}

func TestNullLoggerWritesNothing(t *testing.T) {
	l := telemetry.Null()
	l.Error("should not panic or write anywhere")
	assert.Equal(t, telemetry.Null(), l.WithFields(telemetry.F("k", "v")))
}
