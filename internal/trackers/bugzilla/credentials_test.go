package bugzilla

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadCredentials(t *testing.T) {
	path := writeCredentials(t, `
- login_info:
    username: user@example.com
    password: hunter2
`)

	creds, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", creds.Username)
	assert.Equal(t, "hunter2", creds.Password)
}

func TestLoadCredentials_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"missing password", "- login_info:\n    username: user@example.com"},
		{"not yaml", "{{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCredentials(writeCredentials(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
