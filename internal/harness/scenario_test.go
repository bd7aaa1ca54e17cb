package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: parse
description: minimal scenario
values:
  x: x
routines:
  - name: main
    params: [a]
    steps:
      - {let: b, call: f, args: [a, "'x"]}
    result: b
assertions:
  - type: match
    value: x
    parser: atom
`))
	require.NoError(t, err)
	assert.Equal(t, "parse", s.Name)
	require.Len(t, s.Routines, 1)
	assert.Equal(t, []Step{{Let: "b", Call: "f", Args: []string{"a", "'x"}}}, s.Routines[0].Steps)
	assert.Equal(t, AssertMatch, s.Assertions[0].Type)
	assert.Nil(t, s.Assertions[0].Matches)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: a\ndescription: b\nassertion: []\n", "failed to parse YAML"},
		{"missing name", "description: b\nassertions: [{type: hash_equal, values: [a, b]}]\n", "name is required"},
		{"missing description", "name: a\nassertions: [{type: hash_equal, values: [a, b]}]\n", "description is required"},
		{"no assertions", "name: a\ndescription: b\n", "assertions list is required"},
		{"unknown type", "name: a\ndescription: b\nassertions: [{type: trace_order}]\n", "unknown assertion type"},
		{"unknown parser", "name: a\ndescription: b\nassertions: [{type: match, value: x, parser: sexpr}]\n", "unknown parser"},
		{"form without keyword", "name: a\ndescription: b\nassertions: [{type: match, value: x, parser: form}]\n", "keyword is required"},
		{"one hash value", "name: a\ndescription: b\nassertions: [{type: hash_equal, values: [a]}]\n", "at least two values"},
		{"roundtrip both", "name: a\ndescription: b\nassertions: [{type: store_roundtrip, value: x, routine: y}]\n", "exactly one of value or routine"},
		{"step without call", "name: a\ndescription: b\nroutines: [{name: r, steps: [{let: x}], result: x}]\nassertions: [{type: hash_equal, values: [a, b]}]\n", "call is required"},
		{"routine without result", "name: a\ndescription: b\nroutines: [{name: r}]\nassertions: [{type: hash_equal, values: [a, b]}]\n", "result is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\ndescription: b\nassertions: [{type: hash_equal, values: [a, b]}]\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
