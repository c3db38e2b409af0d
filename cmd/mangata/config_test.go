package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributeFlag(t *testing.T) {
	tests := []struct {
		in          string
		name, value string
		wantErr     bool
	}{
		{in: "who=world", name: "who", value: "world"},
		{in: "url=http://x?a=b", name: "url", value: "http://x?a=b"},
		{in: "toc", name: "toc", value: ""},
		{in: " sp = x", name: "sp", value: " x"},
		{in: "=value", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, value, err := parseAttributeFlag(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestLoadAttributesFile(t *testing.T) {
	dir := t.TempDir()

	attrs, err := loadAttributesFile(writeFile(t, filepath.Join(dir, "a.toml"), "product = \"Mangata\"\nversion = \"1.0\"\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"product": "Mangata", "version": "1.0"}, attrs)

	attrs, err = loadAttributesFile(writeFile(t, filepath.Join(dir, "a.yml"), "product: Mangata\nversion: \"1.0\"\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"product": "Mangata", "version": "1.0"}, attrs)

	_, err = loadAttributesFile(writeFile(t, filepath.Join(dir, "bad.toml"), "product = [1, 2]\n"))
	assert.Error(t, err)

	_, err = loadAttributesFile(filepath.Join(dir, "a.json"))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = loadAttributesFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestParseOptionsDefaults(t *testing.T) {
	cfg := newConfig()
	opts, err := cfg.parseOptions()
	require.NoError(t, err)
	assert.Empty(t, opts)
}
