// Package observe provides observability primitives for drug safety queries.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the observer into the server
// middleware and hand its Metrics to the profile resolver.
package observe
