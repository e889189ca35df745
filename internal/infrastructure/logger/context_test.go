package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWithContextRoundTrip(t *testing.T) {
	base := zap.NewNop()
	ctx := WithContext(context.Background(), base)

	assert.Same(t, base, FromContext(ctx))
}

func TestFromContextReturnsNopWhenMissing(t *testing.T) {
	l := FromContext(context.Background())

	assert.NotNil(t, l)
	assert.NotPanics(t, func() { l.Info("ignored") })
}

func TestWithRequestID(t *testing.T) {
	ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))
}

func TestGetRequestIDReturnsEmptyWhenMissing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
