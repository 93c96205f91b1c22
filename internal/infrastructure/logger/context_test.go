package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	assert.Same(t, log, FromContext(WithContext(context.Background(), log)))
}

func TestL(t *testing.T) {
	t.Run("adds request and account ids", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		ctx := WithContext(context.Background(), zap.New(core))
		ctx = WithRequestID(ctx, "req-1")
		ctx = WithAccountID(ctx, "account-1")

		L(ctx).Info("Music added")

		require.Equal(t, 1, recorded.Len())
		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "account-1", fields["account_id"])
		assert.NotContains(t, fields, "trace_id")
	})

	t.Run("adds trace ids of a valid span", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0x01},
			SpanID:     trace.SpanID{0x02},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(WithContext(context.Background(), zap.New(core)), spanCtx)

		L(ctx).Info("Songs loaded")

		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, spanCtx.TraceID().String(), fields["trace_id"])
		assert.Equal(t, spanCtx.SpanID().String(), fields["span_id"])
	})
}
