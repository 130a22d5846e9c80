// Package safety turns raw upstream data into drug safety profiles.
//
// The numeric core is deterministic and pure: Score, TopEffects and
// Demographics always produce the same output for the same input. The
// natural-language summary comes from a TextGenerator behind its own
// deadline; when generation fails or no generator is configured, the
// synthesizer degrades to a templated summary and a concern derived
// from the numeric fields. Generation failure never fails a profile.
package safety
