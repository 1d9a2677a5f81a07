// Package metrics defines how pipeline runs are observed. A Recorder receives
// stage timings, model sizes and run outcomes; infra/metrics provides a
// Prometheus implementation.
package metrics
