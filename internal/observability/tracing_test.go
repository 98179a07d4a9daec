package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"uniwiz/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracingConfigFrom(t *testing.T) {
	cfg := &config.Config{
		Env:                 "staging",
		TracingEnabled:      true,
		TracingExporter:     "otlp",
		OTLPEndpoint:        "collector:4318",
		TracingSamplerRatio: 0.25,
	}
	tc := TracingConfigFrom(cfg, "1.2.3")
	assert.Equal(t, ServiceName, tc.ServiceName)
	assert.Equal(t, "1.2.3", tc.ServiceVersion)
	assert.Equal(t, "staging", tc.Environment)
	assert.True(t, tc.Enabled)
	assert.Equal(t, "collector:4318", tc.OTLPEndpoint)
	assert.Equal(t, 0.25, tc.SamplerRatio)
}

func TestInitTracing(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		shutdown, err := InitTracing(TracingConfig{})
		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	})

	t.Run("unknown exporter", func(t *testing.T) {
		_, err := InitTracing(TracingConfig{Enabled: true, Exporter: "zipkin"})
		assert.Error(t, err)
	})

	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		shutdown, err := InitTracing(TracingConfig{Enabled: true, Exporter: "stdout", SamplerRatio: 1, Writer: &buf})
		require.NoError(t, err)

		_, span := StartServiceSpan(context.Background(), "ChatService", "SendMessage")
		EndSpan(span, nil)

		require.NoError(t, shutdown(context.Background()))
		assert.Contains(t, buf.String(), "ChatService.SendMessage")
	})
}

func TestSamplerFor(t *testing.T) {
	assert.Contains(t, samplerFor(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, samplerFor(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, samplerFor(0.5).Description(), "TraceIDRatioBased")
}

func TestServiceSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := Tracer
	Tracer = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)).Tracer("test")
	t.Cleanup(func() { Tracer = prev })

	_, ok := StartServiceSpan(context.Background(), "ChatService", "GetMessages",
		attribute.Int64("chat.conversation_id", 7))
	EndSpan(ok, nil)

	_, failed := StartServiceSpan(context.Background(), "ChatService", "SendMessage")
	EndSpan(failed, errors.New("boom"))

	spans := rec.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "ChatService.GetMessages", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int64("chat.conversation_id", 7))
	assert.Contains(t, spans[0].Attributes(), attribute.String("service.method", "GetMessages"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
}
