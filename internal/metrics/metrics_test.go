// SPDX-License-Identifier: MPL-2.0

package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Loaded("fun", 1)
	m.Loaded("fun", 2)
	m.LoadFailed("music")
	m.Removed(1)
	m.Remote("delete", nil)
	m.Remote("delete", errors.New("boom"))
	m.Remote("delete", nil)

	assert.InDelta(t, 2, testutil.ToFloat64(m.CommandsLoaded.WithLabelValues("fun")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LoadFailures.WithLabelValues("music")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RegistryCommands), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.RemoteOperations.WithLabelValues("delete", ResultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RemoteOperations.WithLabelValues("delete", ResultError)), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Loaded("fun", 1)
		m.LoadFailed("fun")
		m.Removed(0)
		m.Remote("register", nil)
	})
}
