package session

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/surfplot/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() scene.State {
	rs := scene.NewRenderState(scene.DefaultRenderConfig())
	dashed := rs
	dashed.DashSpacing = 0.5
	dashed.LineColor = scene.RGB{1, 0, 0}
	dashed.ColorStart = scene.RGB{0.301, 0.2, 0.1}
	dashed.Dotted = true
	return scene.State{
		Bounds: scene.BoundsState{Min: [3]float64{-2, -2, -1.5}, Max: [3]float64{2, 2, 3}},
		Coefficients: []scene.CoefficientState{
			{Name: "a", Value: 2.5, Min: 0, Max: 5},
			{Name: "b", Value: 1, Min: -10, Max: 10},
		},
		Functions: []scene.FunctionState{
			{
				Source: "x^2/a^2 + y^2 - z",
				Bounds: scene.BoundsState{Min: [3]float64{-10, -10, -10}, Max: [3]float64{10, 10, 10}},
				T:      [2]float64{0, 2 * math.Pi},
				U:      [2]float64{0, 2 * math.Pi},
				V:      [2]float64{0, 2 * math.Pi},
				Render: rs,
			},
			{
				Source: "(cos(t), sin(t), b t)",
				Bounds: scene.BoundsState{Min: [3]float64{-1, -1, -1}, Max: [3]float64{1, 1, 1}},
				T:      [2]float64{-1, 4},
				U:      [2]float64{0, 2 * math.Pi},
				V:      [2]float64{0, 2 * math.Pi},
				Render: dashed,
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	want := testState()
	for _, f := range []Format{TOML, YAML, JSON} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, f, want), f)
		got, err := Decode(&buf, f)
		require.NoError(t, err, f)
		assert.Equal(t, want, got, f)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	want := testState()
	for _, name := range []string{"s.toml", "s.yaml", "s.yml", "s.JSON"} {
		filename := filepath.Join(dir, name)
		require.NoError(t, Save(filename, want), name)
		got, err := Load(filename)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	assert.ErrorIs(t, Save(filepath.Join(dir, "s.txt"), want), ErrFormat)
	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestDecodeUnknownField(t *testing.T) {
	for f, text := range map[Format]string{
		TOML: "colour = 'red'\n",
		YAML: "colour: red\n",
		JSON: `{"colour": "red"}`,
	} {
		_, err := Decode(strings.NewReader(text), f)
		assert.Error(t, err, f)
	}
	_, err := Decode(strings.NewReader(""), Format(9))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLoadScene(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "scene.toml")
	require.NoError(t, Save(filename, testState()))

	s, err := scene.New(scene.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, LoadScene(s, filename))
	funcs := s.Functions()
	require.Len(t, funcs, 2)
	assert.Equal(t, "(cos(t), sin(t), b t)", funcs[1].Source())
	assert.Equal(t, 0.5, funcs[1].Render().DashSpacing)
	assert.Equal(t, testState(), s.State())

	out := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, SaveScene(s, out))
	st, err := Load(out)
	require.NoError(t, err)
	assert.Equal(t, testState(), st)
}
