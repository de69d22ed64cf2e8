// SPDX-License-Identifier: MPL-2.0

// Package metrics exposes Prometheus collectors for command loading and
// remote catalog operations. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values for remote operations.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the collectors registered by New.
type Metrics struct {
	CommandsLoaded   *prometheus.CounterVec
	LoadFailures     *prometheus.CounterVec
	RegistryCommands prometheus.Gauge
	RemoteOperations *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmdsync_commands_loaded_total",
				Help: "Total number of command modules loaded into the registry",
			},
			[]string{"category"},
		),
		LoadFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmdsync_command_load_failures_total",
				Help: "Total number of command modules that failed to load",
			},
			[]string{"category"},
		),
		RegistryCommands: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cmdsync_registry_commands",
				Help: "Number of commands currently registered",
			},
		),
		RemoteOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cmdsync_remote_operations_total",
				Help: "Total number of remote catalog operations",
			},
			[]string{"op", "result"},
		),
	}
}

// Loaded records a successful load and the new registry size.
func (m *Metrics) Loaded(category string, registrySize int) {
	if m == nil {
		return
	}
	m.CommandsLoaded.WithLabelValues(category).Inc()
	m.RegistryCommands.Set(float64(registrySize))
}

// LoadFailed records a failed load.
func (m *Metrics) LoadFailed(category string) {
	if m == nil {
		return
	}
	m.LoadFailures.WithLabelValues(category).Inc()
}

// Removed records the registry size after an eviction.
func (m *Metrics) Removed(registrySize int) {
	if m == nil {
		return
	}
	m.RegistryCommands.Set(float64(registrySize))
}

// Remote records one remote catalog operation.
func (m *Metrics) Remote(op string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.RemoteOperations.WithLabelValues(op, result).Inc()
}
