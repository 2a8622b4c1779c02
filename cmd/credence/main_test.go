package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/credence/internal/scale"
	"github.com/verte-zerg/credence/internal/scoring"
)

var smallRun = []string{
	"--readers", "20",
	"--reporters", "8",
	"--rounds", "3",
	"--votes-per-round", "3",
	"--seed", "7",
	"--log-level", "error",
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunJSON(t *testing.T) {
	out, _, err := execute(t, append([]string{"run", "--format", "json"}, smallRun...)...)
	require.NoError(t, err)

	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, scoring.PolicyWeighted, res.Policy)
	assert.Len(t, res.Rounds, 3)
	assert.Len(t, res.Readers, 20)
	assert.Len(t, res.Reporters, 8)
	assert.Equal(t, 10, res.Window)
	for id, h := range res.History {
		assert.Len(t, h, 4, "reader %s", id)
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	args := append([]string{"run", "--format", "json"}, smallRun...)
	first, _, err := execute(t, args...)
	require.NoError(t, err)
	second, _, err := execute(t, args...)
	require.NoError(t, err)

	var a, b scoring.Result
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Rounds, b.Rounds)
	assert.Equal(t, a.Readers, b.Readers)
}

func TestRunYAML(t *testing.T) {
	out, _, err := execute(t, append([]string{"run", "--format", "yaml", "--policy", "blend", "--blend-alpha", "0.25"}, smallRun...)...)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "blend(0.25)", doc["policy"])
	assert.Len(t, doc["rounds"], 3)
}

func TestRunText(t *testing.T) {
	out, stderr, err := execute(t, append([]string{"run", "--dump", "--top", "5"}, smallRun...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Weight by Kind")
	assert.Contains(t, out, "Reporters")
	assert.Contains(t, stderr, "Weights (window=10")
}

func TestRunReadsConfigUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[simulation]\nreaders = 5\nreporters = 4\nrounds = 2\npolicy = \"simple\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, _, err := execute(t, "run", "--config", path, "--format", "json", "--readers", "6", "--seed", "3", "--log-level", "error")
	require.NoError(t, err)

	var res scoring.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Readers, 6, "flag must win over config")
	assert.Len(t, res.Reporters, 4)
	assert.Len(t, res.Rounds, 2)
	assert.Equal(t, scoring.PolicySimple, res.Policy)
}

func TestRunRejectsBadInput(t *testing.T) {
	cases := [][]string{
		{"run", "--format", "xml"},
		{"run", "--policy", "median"},
		{"run", "--adversarial", "0.8", "--careless", "0.5"},
		{"run", "--min", "5", "--max", "5"},
		{"run", "--readers", "0"},
	}
	for _, args := range cases {
		_, _, err := execute(t, args...)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

func TestScaleCommands(t *testing.T) {
	out, _, err := execute(t, "scale", "range", "--min", "0", "--max", "3.5")
	require.NoError(t, err)
	assert.Contains(t, out, "0 1 2 3\n")

	out, _, err = execute(t, "scale", "z", "--", "0", "3", "-1")
	require.NoError(t, err)
	assert.Equal(t, "0 -> 5.500\n3 -> 10.000\n-1 -> 4.000\n", out)

	_, _, err = execute(t, "scale", "z", "abc")
	assert.Error(t, err)

	out, _, err = execute(t, "scale", "score", "5.5", "10", "2.5")
	require.NoError(t, err)
	assert.Equal(t, "5.5 -> +0.000\n10 -> +3.000\n2.5 -> -2.000\n", out)

	_, _, err = execute(t, "scale", "score", "11")
	assert.Error(t, err)

	_, _, err = execute(t, "scale", "range", "--max", "1e12")
	assert.ErrorIs(t, err, scale.ErrRangeTooLarge)
}

func TestEnsureConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credence", "config.toml")
	require.NoError(t, ensureConfigFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigTemplate(), string(data))

	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0o644))
	require.NoError(t, ensureConfigFile(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data), "existing config must be kept")
}
