package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/secure-aco/protocols/aco"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRunCmd()
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	file := filepath.Join(t.TempDir(), "result.cbor")
	out, err := execute(t, "--instance", "circle", "--nodes", "6", "--iterations", "2", "--colony", "3",
		"--workers", "1", "--out", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Length:")
	assert.Contains(t, out, "Reveal ledger:")
	assert.Contains(t, out, "Share holders: p1, p2, p3\n")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var result aco.Result
	require.NoError(t, result.UnmarshalBinary(data))
	assert.Len(t, result.Tour, 7)
	assert.Equal(t, 2, result.Iterations)
}

func TestRun_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"--instance", "spiral"},
		{"--provider", "paillier"},
		{"--nodes", "1"},
		{"--rho", "0"},
		{"--provider", "additive", "--parties", "1", "--iterations", "1", "--colony", "1"},
	} {
		_, err := execute(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestGenerate(t *testing.T) {
	for _, kind := range []string{"circle", "grid", "random"} {
		nodes, err := generate(kind, 7, 10, 1)
		require.NoError(t, err)
		assert.Len(t, nodes, 7)
		_, err = aco.NewDistanceMatrix(nodes)
		assert.NoError(t, err)
	}
	a, _ := generate("random", 5, 10, 3)
	b, _ := generate("random", 5, 10, 3)
	assert.Equal(t, a, b)

	assert.Equal(t, []aco.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}, grid(5, 3))
}
