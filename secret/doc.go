// Package secret provides a small, dependency-light secret resolution layer.
//
// The service needs two credentials at most (an openFDA API key and an
// OpenAI API key), and deployments supply them in different ways. This
// package supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:OPENAI_API_KEY
//   - File-backed: secretref:file:/run/secrets/openai_api_key
//   - Inline use:  Bearer secretref:env:OPENAI_API_KEY
package secret
