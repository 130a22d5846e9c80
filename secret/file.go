package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileProvider resolves "secretref:file:<path>" references by reading
// the file's contents. Trailing whitespace is trimmed, matching how
// container runtimes mount secret files.
type FileProvider struct{}

// NewFileProvider creates a file-backed provider.
func NewFileProvider() *FileProvider {
	return &FileProvider{}
}

// Name implements Provider.
func (*FileProvider) Name() string { return "file" }

// Resolve reads the secret from the referenced file.
func (*FileProvider) Resolve(_ context.Context, ref string) (string, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read secret file: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// Close implements Provider.
func (*FileProvider) Close() error { return nil }

var _ Provider = (*FileProvider)(nil)
