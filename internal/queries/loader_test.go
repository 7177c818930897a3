package queries

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleQuery(t *testing.T) {
	data := []byte(`
- query:
    product: [Fedora]
    status: [NEW, ASSIGNED]
    include_fields: [id, summary, component]
`)

	defs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	assert.Equal(t, []string{"Fedora"}, defs[0].Values("product"))
	assert.Equal(t, []string{"NEW", "ASSIGNED"}, defs[0].Values("status"))
	assert.Equal(t, []string{"id", "summary", "component"}, defs[0].IncludeFields)
	assert.NotContains(t, defs[0].Filters, "include_fields")
}

func TestParse_MultipleQueries(t *testing.T) {
	data := []byte(`
- query:
    product: [Fedora]
    status: [NEW]
- query:
    product: [CentOS]
    reporter: [someone@example.com]
`)

	defs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, []string{"Fedora"}, defs[0].Values("product"))
	assert.Equal(t, []string{"CentOS"}, defs[1].Values("product"))
	assert.Equal(t, []string{"someone@example.com"}, defs[1].Values("reporter"))
}

func TestParse_ScalarValues(t *testing.T) {
	data := []byte(`
- query:
    product: Fedora
    priority: 1
`)

	defs, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, []string{"Fedora"}, defs[0].Values("product"))
	assert.Equal(t, []string{"1"}, defs[0].Values("priority"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"not a sequence", "query: {product: Fedora}"},
		{"missing query key", "- product: [Fedora]"},
		{"no filters", "- query:\n    include_fields: [id]"},
		{"nested value", "- query:\n    product: {name: Fedora}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	content := "- query:\n    status: [NEW]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	defs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, []string{"NEW"}, defs[0].Values("status"))
}
