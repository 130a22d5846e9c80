package secret

import (
	"context"
	"fmt"
	"os"
)

// EnvProvider resolves "secretref:env:<VAR>" references from the
// process environment.
type EnvProvider struct{}

// NewEnvProvider creates an environment-backed provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Name implements Provider.
func (*EnvProvider) Name() string { return "env" }

// Resolve returns the value of the named environment variable. An
// unset variable is an error; an empty value is left to the
// resolver's strict mode.
func (*EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("environment variable %q is not set", ref)
	}
	return value, nil
}

// Close implements Provider.
func (*EnvProvider) Close() error { return nil }

var _ Provider = (*EnvProvider)(nil)
