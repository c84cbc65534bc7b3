/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0
*/

// Package metrics defines Prometheus metrics for the A1 bridge.
//
// All metrics are registered with Registry, which the daemon serves on its
// metrics endpoint together with the Go and process collectors.
//
// Metric naming follows Prometheus conventions:
//   - a1bridge_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Outcome labels for southbound requests.
const (
	OutcomeSuccess     = "success"
	OutcomeRICError    = "ric_error"
	OutcomeTransport   = "transport_error"
	OutcomeEnvelope    = "envelope_error"
	OutcomeSchemaError = "schema_error"
	OutcomeCanceled    = "canceled"
	OutcomeOther       = "error"
)

// Registry holds every a1bridge collector.
var Registry = prometheus.NewRegistry()

var (
	// RequestsTotal counts A1 operations by ric, operation and outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a1bridge_requests_total",
			Help: "Total A1 operations by RIC, operation and outcome.",
		},
		[]string{"ric", "operation", "outcome"},
	)

	// RequestDurationSeconds is a histogram of A1 operation latency.
	RequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "a1bridge_request_duration_seconds",
			Help:    "Duration of A1 operations in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"ric", "operation"},
	)

	// PoliciesDeletedTotal counts instances removed by delete-all sweeps.
	PoliciesDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a1bridge_policies_deleted_total",
			Help: "Total policy instances removed by delete-all sweeps.",
		},
		[]string{"ric"},
	)

	// RicAvailable is 1 when the last supervision check of a RIC succeeded.
	RicAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "a1bridge_ric_available",
			Help: "Whether the last supervision check of a RIC succeeded.",
		},
		[]string{"ric"},
	)

	// RicPolicyTypes is the number of policy types seen at the last check.
	RicPolicyTypes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "a1bridge_ric_policy_types",
			Help: "Number of policy types reported by a RIC at the last check.",
		},
		[]string{"ric"},
	)

	// RicPolicies is the number of policy instances seen at the last check.
	RicPolicies = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "a1bridge_ric_policies",
			Help: "Number of policy instances reported by a RIC at the last check.",
		},
		[]string{"ric"},
	)

	// SupervisionRunsTotal counts supervision sweeps by status.
	SupervisionRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a1bridge_supervision_runs_total",
			Help: "Total supervision sweeps by status.",
		},
		[]string{"status"},
	)

	// SupervisionLastRunTimestamp is the unix time the last sweep finished.
	SupervisionLastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "a1bridge_supervision_last_run_timestamp_seconds",
			Help: "Unix time at which the last supervision sweep finished.",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestsTotal,
		RequestDurationSeconds,
		PoliciesDeletedTotal,
		RicAvailable,
		RicPolicyTypes,
		RicPolicies,
		SupervisionRunsTotal,
		SupervisionLastRunTimestamp,
	)
}

// RecordRequest records one completed A1 operation.
func RecordRequest(ric, operation, outcome string, duration time.Duration) {
	RequestsTotal.WithLabelValues(ric, operation, outcome).Inc()
	RequestDurationSeconds.WithLabelValues(ric, operation).Observe(duration.Seconds())
}

// RecordPoliciesDeleted adds n removed instances for a RIC.
func RecordPoliciesDeleted(ric string, n int) {
	PoliciesDeletedTotal.WithLabelValues(ric).Add(float64(n))
}

// RecordRicCheck records the result of one supervision check of a RIC.
// Counts are only updated when the check succeeded.
func RecordRicCheck(ric string, ok bool, policyTypes, policies int) {
	if !ok {
		RicAvailable.WithLabelValues(ric).Set(0)
		return
	}
	RicAvailable.WithLabelValues(ric).Set(1)
	RicPolicyTypes.WithLabelValues(ric).Set(float64(policyTypes))
	RicPolicies.WithLabelValues(ric).Set(float64(policies))
}

// RecordSupervisionRun records a finished sweep.
func RecordSupervisionRun(status string, finished time.Time) {
	SupervisionRunsTotal.WithLabelValues(status).Inc()
	SupervisionLastRunTimestamp.Set(float64(finished.Unix()))
}
