package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()

	prevLogger, prevLevel := Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	Setup(Options{Service: "inventory-test", Out: &buf})
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestWithContextAddsTraceIDs(t *testing.T) {
	buf := capture(t)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)

	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	Info(ctx).Int("quantity", 10).Msg("Batch entry recorded")

	entry := lastEntry(t, buf)
	assert.Equal(t, "inventory-test", entry["service"])
	assert.Equal(t, "Batch entry recorded", entry["message"])
	assert.Equal(t, traceID.String(), entry["trace_id"])
	assert.Equal(t, spanID.String(), entry["span_id"])
	assert.EqualValues(t, 10, entry["quantity"])
}

func TestSetLevel(t *testing.T) {
	buf := capture(t)
	ctx := context.Background()

	Debug(ctx).Msg("hidden")
	assert.Zero(t, buf.Len())

	SetLevel("DEBUG")
	Debug(ctx).Msg("visible")
	assert.Equal(t, "visible", lastEntry(t, buf)["message"])

	SetLevel("error")
	buf.Reset()
	Warn(ctx).Msg("hidden")
	assert.Zero(t, buf.Len())

	assert.Equal(t, zerolog.InfoLevel, SetLevel("bogus"))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.WarnLevel, SetLevel(" Warn "))
}

func TestSetupOptions(t *testing.T) {
	capture(t)

	var buf bytes.Buffer
	Setup(Options{Service: "inventory-test", Version: "1.2.3", Level: "debug", Out: &buf})
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Debug(context.Background()).Msg("configured")
	entry := lastEntry(t, &buf)
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "configured", entry["message"])
	assert.Nil(t, entry["trace_id"])
}

func TestSetupDevelopmentWritesConsole(t *testing.T) {
	capture(t)

	var buf bytes.Buffer
	Setup(Options{Service: "inventory-test", Development: true, Out: &buf})
	Info(context.Background()).Msg("readable")

	assert.Contains(t, buf.String(), "readable")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}
