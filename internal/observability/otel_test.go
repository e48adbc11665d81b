package observability

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/dmitrijs2005/nihongo/internal/logging"
)

func discard() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown := InitTracing(context.Background(), discard(), TracingConfig{})
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	shutdown := InitTracing(ctx, discard(), TracingConfig{
		Enabled:     true,
		ServiceName: "nihongo-test",
		Writer:      &buf,
	})

	_, span := otel.Tracer("test").Start(ctx, "register")
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Contains(t, buf.String(), `"Name":"register"`)
	assert.Contains(t, buf.String(), "nihongo-test")
}

func TestSampleRatio(t *testing.T) {
	assert.Equal(t, 1.0, sampleRatio(0))
	assert.Equal(t, 1.0, sampleRatio(3))
	assert.Equal(t, 0.25, sampleRatio(0.25))
}
