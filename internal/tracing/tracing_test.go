package tracing

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestStartTracing(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		// given
		ctx := context.Background()

		// when
		actualCtx, span := StartTracing(ctx, "test", false)

		// then
		require.Nil(t, span)
		require.Equal(t, ctx, actualCtx)
		EndTracing(span, errors.New("ignored"))
	})

	t.Run("enabled", func(t *testing.T) {
		// when
		_, span := StartTracing(context.Background(), "test", true, attribute.String("topic", "accounts"))

		// then
		require.NotNil(t, span)
		EndTracing(span, errors.New("failed"))
	})
}

func TestSampler(t *testing.T) {
	require.Equal(t, sdktrace.AlwaysSample().Description(), sampler(0).Description())
	require.Equal(t, sdktrace.AlwaysSample().Description(), sampler(100).Description())
	require.Equal(t, sdktrace.TraceIDRatioBased(0.25).Description(), sampler(25).Description())
}

func TestEnable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	t.Run("empty address", func(t *testing.T) {
		// when
		_, err := Enable(logger, "geyser-sink", "", 100)

		// then
		require.ErrorIs(t, err, ErrTracingAddressEmpty)
	})
}
