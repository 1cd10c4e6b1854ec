package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/voidfs/blockdiscard/pkg/discard"
)

// The registry is process-global, so disabled and enabled behavior share one
// test to keep the ordering deterministic.
func TestDiscardMetricsLifecycle(t *testing.T) {
	require.False(t, IsEnabled())
	require.Nil(t, NewDiscardMetrics(), "constructors must return nil before InitRegistry")
	require.Nil(t, GetRegistry())

	reg := InitRegistry()
	require.NotNil(t, reg)
	assert.Same(t, reg, InitRegistry(), "InitRegistry is idempotent")
	assert.True(t, IsEnabled())

	m := NewDiscardMetrics()
	require.NotNil(t, m)

	m.ObserveRequest(5*time.Millisecond, nil)
	m.ObserveRequest(2*time.Millisecond, &discard.OpError{Op: discard.OpPunchHole, Err: unix.EINVAL})
	m.AddReclaimedBytes(4096)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]bool{}
	for _, fam := range families {
		byName[fam.GetName()] = true
	}
	assert.True(t, byName["blockdiscard_requests_total"])
	assert.True(t, byName["blockdiscard_request_duration_milliseconds"])
	assert.True(t, byName["blockdiscard_reclaimed_bytes_total"])

	assert.InDelta(t, 4096, counterValue(t, reg, "blockdiscard_reclaimed_bytes_total"), 0.01)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		var total float64
		for _, m := range fam.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}

	t.Fatalf("metric %s not found", name)
	return 0
}
