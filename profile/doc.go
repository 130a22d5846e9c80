// Package profile coordinates profile resolution: cache-aside reads
// over the store with single-flight fetch deduplication.
//
// Resolve validates the drug name, serves an unexpired cached profile
// when one exists, and otherwise runs one fetch-and-synthesize pipeline
// per cache key no matter how many callers ask concurrently. The
// pipeline leader runs detached from any single caller's cancellation;
// waiters that give up stop waiting without cancelling the leader.
// Failed pipelines never write to the store.
package profile
