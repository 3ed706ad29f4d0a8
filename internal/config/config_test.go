package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "stubgen", cfg.Options.Directive)
	assert.Equal(t, "stubgen", cfg.Options.Namespace)
	assert.True(t, cfg.Options.EmitServices)
	assert.True(t, cfg.Options.EmitIndex)

	mapped, ok := cfg.MapType("*time.Time")
	assert.True(t, ok)
	assert.Equal(t, "string", mapped)

	mapped, ok = cfg.MapType("byte")
	assert.True(t, ok)
	assert.Equal(t, "number", mapped)

	_, ok = cfg.MapType("example.com/shop.User")
	assert.False(t, ok)
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "stubgen.yaml",
			content: `typeMappings:
  "*example.com/money.Amount": string
options:
  namespace: billing
  excludeTypes: [Secret]
  ignore:
    broad: ["example.com/vendor/*"]
`,
		},
		{
			name: "json",
			file: "stubgen.json",
			content: `{
  "typeMappings": {"*example.com/money.Amount": "string"},
  "options": {
    "namespace": "billing",
    "excludeTypes": ["Secret"],
    "ignore": {"broad": ["example.com/vendor/*"]}
  }
}`,
		},
		{
			name: "no extension",
			file: "stubgenrc",
			content: `typeMappings: {"*example.com/money.Amount": string}
options: {namespace: billing, excludeTypes: [Secret], ignore: {broad: ["example.com/vendor/*"]}}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()

			require.NoError(t, cfg.LoadFile(writeConfig(t, tt.file, tt.content)))

			assert.Equal(t, "billing", cfg.Options.Namespace)
			assert.Equal(t, "stubgen", cfg.Options.Directive, "absent values keep their defaults")
			assert.Equal(t, "string", cfg.TypeMappings["example.com/money.Amount"])
			mapped, ok := cfg.MapType("bool")
			assert.True(t, ok, "default mappings survive")
			assert.Equal(t, "boolean", mapped)
			assert.False(t, cfg.ShouldIncludeType("example.com/shop.Secret"))
			assert.True(t, cfg.BroadPolicy().Match("example.com/vendor/pkg.Thing"))
			assert.True(t, cfg.BroadPolicy().Match("time.Time"))
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	cfg := New()

	assert.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, cfg.LoadFile(writeConfig(t, "bad.json", "{")))
	assert.Error(t, cfg.LoadFile(writeConfig(t, "bad.yaml", "options: [")))

	assert.Equal(t, "stubgen", cfg.Options.Namespace, "failed loads leave the config unchanged")
}

func TestShouldIncludeType(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		exclude []string
		typ     string
		want    bool
	}{
		{"no lists", nil, nil, "example.com/shop.User", true},
		{"short include", []string{"User"}, nil, "example.com/shop.User", true},
		{"canonical include", []string{"example.com/shop.User"}, nil, "example.com/shop.User", true},
		{"not included", []string{"Order"}, nil, "example.com/shop.User", false},
		{"excluded", nil, []string{"User"}, "example.com/shop.User", false},
		{"exclude wins", []string{"User"}, []string{"example.com/shop.User"}, "example.com/shop.User", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.Options.IncludeTypes = tt.include
			cfg.Options.ExcludeTypes = tt.exclude

			assert.Equal(t, tt.want, cfg.ShouldIncludeType(tt.typ))
		})
	}
}

func TestPolicies(t *testing.T) {
	cfg := New()
	cfg.Options.Ignore.Narrow = []string{"example.com/shop.Base"}

	assert.True(t, cfg.BroadPolicy().Match("github.com/google/uuid.UUID"))
	assert.False(t, cfg.BroadPolicy().Match("example.com/shop.User"))
	assert.True(t, cfg.NarrowPolicy().Match("example.com/shop.Base"))
	assert.True(t, cfg.NarrowPolicy().Match("int64"))
	assert.False(t, cfg.NarrowPolicy().Match("time.Time"))
}
