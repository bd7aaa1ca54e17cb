package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "petrolc.db", c.Store.Database)
	assert.Equal(t, "text", c.Output.Format)

	level, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[store]
database = "values.db"

[output]
format = "json"

[log]
level = "debug"
`)

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "values.db"), c.Store.Database)
	assert.Equal(t, "json", c.Output.Format)
	assert.Equal(t, path, c.Path)

	level, err := c.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_KeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[output]\nformat = \"json\"\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "petrolc.db"), c.Store.Database)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoad_InMemoryDatabase(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[store]\ndatabase = \":memory:\"\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", c.Store.Database)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[store\n", "parse error"},
		{"unknown key", "[store]\npath = \"x\"\n", "unknown keys"},
		{"bad format", "[output]\nformat = \"xml\"\n", "output.format"},
		{"bad level", "[log]\nlevel = \"loud\"\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	assert.Error(t, err)
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[output]\nformat = \"json\"\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	c, err := FindAndLoad(nested)
	require.NoError(t, err)
	assert.Equal(t, "json", c.Output.Format)
	assert.Equal(t, filepath.Join(root, FileName), c.Path)
}
