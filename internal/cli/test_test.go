package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: passing
description: a list of atoms
values:
  l: [a, b]
assertions:
  - {type: match, value: l, parser: list, length: 2}
  - {type: store_roundtrip, value: l}
`

const failingScenario = `name: failing
description: wrong length
values:
  l: [a, b]
assertions:
  - {type: match, value: l, parser: list, length: 3}
`

func TestTestCommand_MissingArgs(t *testing.T) {
	_, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_NonExistentDir(t *testing.T) {
	out, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenarios directory not found")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommand_EmptyDirJSON(t *testing.T) {
	out, err := execute(t, "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	var result TestResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, result.Total)
}

func TestTestCommand_Passing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "passing.yaml", passingScenario)

	out, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ passing")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_Failing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "passing.yaml", passingScenario)
	writeFile(t, dir, "failing.yaml", failingScenario)

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "expected 3 elements")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_FailingJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "failing.yaml", failingScenario)

	out, err := execute(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\n")

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "passing.yaml", passingScenario)
	writeFile(t, dir, "failing.yaml", failingScenario)

	out, err := execute(t, "test", dir, "--filter", "pass*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommand_UpdateAndCompareGolden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "passing.yaml", passingScenario)

	_, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)

	goldenPath := filepath.Join(dir, "golden", "passing.golden")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, "scenario: passing\nvalues:\n  l = (a b)\n", string(golden))

	_, err = execute(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("stale\n"), 0o644))
	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b", "golden", "s.golden"), goldenFilePath(filepath.Join("a", "b", "s.yaml")))
}
