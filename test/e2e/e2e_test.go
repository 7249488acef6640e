package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildBinary compiles the CLI once per test that needs it and
// returns the path to the executable.
func buildBinary(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	bin := filepath.Join(tempDir, "jemit")

	cmd := exec.Command("go", "build", "-o", bin, "../..")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(output))
	return bin
}

// runBinary executes the built CLI. Unless the test passes its own
// -c, an empty config file is supplied so a developer's .jemit.yml
// can never leak into expected output.
func runBinary(t *testing.T, bin, stdin string, args ...string) (string, string, error) {
	t.Helper()
	hasConfig := false
	for _, a := range args {
		if a == "-c" || a == "--config" {
			hasConfig = true
		}
	}
	if !hasConfig {
		path := filepath.Join(t.TempDir(), "jemit.yml")
		require.NoError(t, os.WriteFile(path, []byte{}, 0644))
		args = append([]string{"-c", path}, args...)
	}
	cmd := exec.Command(bin, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestEndToEnd_NormalizesDocument checks that a pretty-printed document
// comes out compact with key order intact.
func TestEndToEnd_NormalizesDocument(t *testing.T) {
	bin := buildBinary(t)

	jsonContent := `{
		"make": "Toyota",
		"model": "Camry",
		"year": 2018,
		"tire_pressure": [40.1, 39.9],
		"owner": {
			"username": "hero123",
			"level": 42,
			"health": 95.5
		}
	}`

	out, stderr, err := runBinary(t, bin, jsonContent)
	require.NoError(t, err, "CLI failed: %s", stderr)
	assert.Equal(t,
		`{"make":"Toyota","model":"Camry","year":2018,"tire_pressure":[40.1,39.9],"owner":{"username":"hero123","level":42,"health":95.5}}`+"\n",
		out)
}

// TestEndToEnd_Deterministic runs the same input twice and expects
// byte-identical output.
func TestEndToEnd_Deterministic(t *testing.T) {
	bin := buildBinary(t)
	jsonContent := `{"b": 1, "a": [1.5, 2.5], "c": {"z": "x", "y": "w"}}`

	first, _, err := runBinary(t, bin, jsonContent)
	require.NoError(t, err)
	second, _, err := runBinary(t, bin, jsonContent)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestEndToEnd_UnicodeModes compares the byte-wise default with the
// codepoint-aware mode.
func TestEndToEnd_UnicodeModes(t *testing.T) {
	bin := buildBinary(t)
	jsonContent := `{"name": "café"}`

	out, _, err := runBinary(t, bin, jsonContent)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"caf\u00c3\u00a9"}`+"\n", out)

	out, _, err = runBinary(t, bin, jsonContent, "--unicode", "runes")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"caf\u00e9"}`+"\n", out)
}

// TestEndToEnd_NonFinitePolicies checks both sentinel substitution and
// the error policy for an overflowing numeric literal.
func TestEndToEnd_NonFinitePolicies(t *testing.T) {
	bin := buildBinary(t)
	jsonContent := `{"health": 1e999}`

	out, _, err := runBinary(t, bin, jsonContent)
	require.NoError(t, err)
	assert.Equal(t, `{"health":-1.0}`+"\n", out)

	_, stderr, err := runBinary(t, bin, jsonContent, "--non-finite", "error")
	assert.Error(t, err)
	assert.Contains(t, stderr, "Encoding error")
}

// TestEndToEnd_SampleFiles runs the checked-in samples through the
// binary.
func TestEndToEnd_SampleFiles(t *testing.T) {
	bin := buildBinary(t)

	tests := []struct {
		input string
		want  string
	}{
		{
			input: "../../testdata/samples/car.json",
			want:  `{"make":"Toyota","model":"Camry","year":2018,"tire_pressure":[40.1,39.9]}`,
		},
		{
			input: "../../testdata/samples/player.json",
			want:  `{"username":"hero123","level":42,"health":95.5,"inventory":["sword","shield","potion"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.input), func(t *testing.T) {
			outFile := filepath.Join(t.TempDir(), "out.json")
			_, stderr, err := runBinary(t, bin, "", "-i", tt.input, "-o", outFile)
			require.NoError(t, err, "CLI failed: %s", stderr)

			got, err := os.ReadFile(outFile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

// TestEndToEnd_EmptyInput checks the no-input failure path.
func TestEndToEnd_EmptyInput(t *testing.T) {
	bin := buildBinary(t)

	emptyFile := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(emptyFile, nil, 0644))

	_, stderr, err := runBinary(t, bin, "", "-i", emptyFile)
	assert.Error(t, err)
	assert.Contains(t, stderr, "Input error")
}
