// Package ai implements safety.TextGenerator with OpenAI chat
// completions.
//
// A client built without an API key is disabled: it reports
// Enabled() == false and every call fails with ErrDisabled, which the
// synthesizer turns into its templated fallback. Completions are asked
// for as a JSON object holding the summary and the top concern.
package ai
