// Package prometheus provides Prometheus collectors for goShield metrics.
//
// [NewPrometheusExporter] accepts a [goShield.Engine] and exposes an [http.Handler]
// that renders all goShield counters and histograms in Prometheus text exposition format.
// Counter names are prefixed goshield_*_total; the single histogram is
// goshield_check_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
