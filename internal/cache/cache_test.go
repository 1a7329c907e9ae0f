package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestNew_DisabledWithoutURL(t *testing.T) {
	c := New(context.Background(), "", quietLogger())
	assert.False(t, c.Enabled())
}

func TestNew_InvalidURLDisablesCaching(t *testing.T) {
	c := New(context.Background(), "not-a-redis-url", quietLogger())
	assert.False(t, c.Enabled())
}

func TestDisabledCache_IsNoOp(t *testing.T) {
	ctx := context.Background()
	hits := prometheus.NewCounter(prometheus.CounterOpts{Name: "hits"})
	misses := prometheus.NewCounter(prometheus.CounterOpts{Name: "misses"})
	c := (&Cache{}).Instrument(hits, misses)

	require.NoError(t, c.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var dst map[string]int
	found, err := c.GetJSON(ctx, "k", &dst)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dst)

	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())

	// A disabled cache is not a miss; nothing was asked of redis.
	assert.Zero(t, testutil.ToFloat64(hits))
	assert.Zero(t, testutil.ToFloat64(misses))
}
