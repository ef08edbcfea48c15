// Package metric holds the client's Prometheus registry.
//
//   - prometheus.go: registry, gateway and session metrics, text rendering
//   - collector.go: session state collector
//
// Nothing is served over HTTP; the "stats" command renders the registry in
// the text exposition format.
package metric
