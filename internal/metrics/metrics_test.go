package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.WebhookEvents.WithLabelValues("RENEWAL", "applied").Inc()
	m.SweepExpired.Add(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.WebhookEvents.WithLabelValues("RENEWAL", "applied")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.SweepExpired))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewTwiceOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop()
		NewNop()
	})
}
