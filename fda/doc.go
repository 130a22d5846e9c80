// Package fda retrieves adverse-event and recall data from the openFDA
// drug endpoints.
//
// One logical retrieval is two provider calls: adverse events from
// /drug/event.json and ongoing recalls from /drug/enforcement.json. Both
// are gated by a shared token-bucket limiter and bounded by a per-call
// timeout. The event search tries brand-name, generic-name and
// medicinal-product query shapes in order until one returns results.
//
// Raw tallies (reaction counts, serious share, age buckets) are
// aggregated here deterministically; scoring and summarization happen
// downstream.
package fda
