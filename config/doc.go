// Package config loads service configuration from the environment.
//
// Every knob has a default that works for local development; a bare
// process serves the built-in reference set against the public openFDA
// endpoint with AI summaries disabled. Credential fields accept either
// literal values or secret references resolved through the secret
// package ("secretref:env:..." and "secretref:file:...").
package config
