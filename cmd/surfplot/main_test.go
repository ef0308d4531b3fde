package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/surfplot/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParseSet(t *testing.T) {
	for _, test := range []struct {
		kv   string
		name string
		val  float64
		ok   bool
	}{
		{kv: "a=2", name: "a", val: 2, ok: true},
		{kv: " k = -0.5 ", name: "k", val: -0.5, ok: true},
		{kv: "a", ok: false},
		{kv: "=1", ok: false},
		{kv: "a=two", ok: false},
	} {
		name, val, err := parseSet(test.kv)
		if !test.ok {
			assert.Error(t, err, test.kv)
			continue
		}
		require.NoError(t, err, test.kv)
		assert.Equal(t, test.name, name)
		assert.Equal(t, test.val, val)
	}
}

func TestClassifyCmd(t *testing.T) {
	stdout, _, err := run(t, "x^2 + y^2 = 1\nx^2+y^2-1\n(cos(t), sin(t), k t)\nsin(\n2 pi\n", "classify", "-")
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, rows, 5)
	assert.Contains(t, rows[0], "implicit")
	assert.Contains(t, rows[1], "redundant")
	assert.Contains(t, rows[2], "curve")
	assert.Contains(t, rows[2], "coefficients: k")
	assert.Contains(t, rows[3], "illegal")
	assert.Contains(t, rows[4], "= 6.283185307179586")

	_, _, err = run(t, "", "classify")
	assert.Error(t, err)
}

func TestMeshCmd(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "surfplot.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("resolution = 20\n"), 0o644))
	stl := filepath.Join(dir, "out.stl")
	saved := filepath.Join(dir, "session.yaml")

	out, _, err := run(t, "",
		"mesh", "--preset", "ellipsoid", "--set", "a=2", "--config", cfg,
		"--bounds", "-3,3,-3,3,-3,3", "-o", stl, "--save", saved,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "triangles")

	info, err := os.Stat(stl)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(84))
	assert.Zero(t, (info.Size()-84)%50)

	st, err := session.Load(saved)
	require.NoError(t, err)
	require.Len(t, st.Functions, 1)
	assert.Equal(t, "x^2/a^2 + y^2/b^2 + z^2/c^2 - 1", st.Functions[0].Source)
	require.Len(t, st.Coefficients, 3)
	assert.Equal(t, 2.0, st.Coefficients[0].Value)

	// Remesh from the saved session.
	stl2 := filepath.Join(dir, "again.stl")
	_, _, err = run(t, "", "mesh", "--session", saved, "--config", cfg, "-o", stl2)
	require.NoError(t, err)
	info2, err := os.Stat(stl2)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), info2.Size())

	// Streaming to stdout writes the same bytes, and the preview goes
	// through the float32 buffers.
	png := filepath.Join(dir, "preview.png")
	stdout, stderr, err := run(t, "", "mesh", "--session", saved, "--config", cfg, "-o", "-", "--png", png)
	require.NoError(t, err)
	want, err := os.ReadFile(stl2)
	require.NoError(t, err)
	assert.Equal(t, string(want), stdout)
	assert.Contains(t, stderr, "triangles")
	pngInfo, err := os.Stat(png)
	require.NoError(t, err)
	assert.Greater(t, pngInfo.Size(), int64(0))

	_, _, err = run(t, "", "mesh", "--preset", "torus")
	assert.Error(t, err)
	_, _, err = run(t, "", "mesh", "--preset", "cone", "--set", "q=1", "-o", filepath.Join(dir, "q.stl"))
	assert.Error(t, err)
}

func TestPresetsCmd(t *testing.T) {
	stdout, _, err := run(t, "", "presets")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Hyperboloid of two sheets")
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 8)
}
