package compile

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/soypat/surfplot/classify"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func mustClassify(t *testing.T, src string) classify.Result {
	t.Helper()
	r, err := classify.Classify(src)
	if err != nil {
		t.Fatalf("Classify(%q): %s", src, err)
	}
	return r
}

func TestField(t *testing.T) {
	prog, err := Compile(mustClassify(t, "x^2 + y^2 + z^2 - r^2"), map[string]float64{"r": 1}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	pos := []r3.Vec{{X: 1}, {X: 2}, {X: 0.5, Y: 0.5, Z: 0.5}}
	dst := make([]float64, len(pos))
	if err := prog.Field.Evaluate(pos, dst); err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 3, -0.25}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-15 {
			t.Errorf("f(%v) = %g, want %g", pos[i], dst[i], want[i])
		}
	}
}

func TestSanitize(t *testing.T) {
	for _, src := range []string{
		"sqrt(x) + y + z", // complex result
		"log(x) + y + z",  // -Inf
		"1/x + y + z",     // +Inf
		"x^(1/3) + y + z", // negative base, fractional power
		"asin(x - 2) + y + z",
	} {
		prog, err := Compile(mustClassify(t, src), nil, Options{})
		if err != nil {
			t.Fatalf("%s: %s", src, err)
		}
		x := -1.0
		if strings.HasPrefix(src, "log") || strings.HasPrefix(src, "1/x") {
			x = 0
		}
		dst := []float64{0}
		if err := prog.Field.Evaluate([]r3.Vec{{X: x}}, dst); err != nil {
			t.Fatal(err)
		}
		if !math.IsNaN(dst[0]) {
			t.Errorf("%s at x=%g = %g, want NaN", src, x, dst[0])
		}
	}
}

func TestMissingCoefficient(t *testing.T) {
	r := mustClassify(t, "x^2/a + y^2/b - z")
	_, err := Compile(r, map[string]float64{"b": 2}, Options{})
	if !errors.Is(err, ErrMissingCoefficient) {
		t.Fatalf("got %v, want ErrMissingCoefficient", err)
	}
	var mce *MissingCoefficientError
	if !errors.As(err, &mce) || len(mce.Names) != 1 || mce.Names[0] != "a" {
		t.Errorf("got %#v, want missing a", err)
	}
}

func TestUndefined(t *testing.T) {
	r := mustClassify(t, "x + y + z/a")
	_, err := Compile(r, map[string]float64{"a": 0}, Options{})
	if !errors.Is(err, ErrUndefined) {
		t.Errorf("got %v, want ErrUndefined", err)
	}
	_, err = Compile(r, map[string]float64{"a": math.Inf(1)}, Options{})
	if !errors.Is(err, ErrUndefined) {
		t.Errorf("got %v, want ErrUndefined for infinite coefficient", err)
	}
}

func TestCurveSurfacePoint(t *testing.T) {
	prog, err := Compile(mustClassify(t, "(a cos(t), a sin(t), t)"), map[string]float64{"a": 2}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	cdst := make([]r3.Vec, 2)
	if err := prog.Curve.Evaluate([]float64{0, math.Pi / 2}, cdst); err != nil {
		t.Fatal(err)
	}
	if cdst[0] != (r3.Vec{X: 2}) || math.Abs(cdst[1].Y-2) > 1e-15 || cdst[1].Z != math.Pi/2 {
		t.Errorf("curve = %v", cdst)
	}

	prog, err = Compile(mustClassify(t, "(u, v, u v)"), nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	sdst := make([]r3.Vec, 2)
	if err := prog.Surface.Evaluate([]r2.Vec{{X: 2, Y: 3}, {X: -1, Y: 0.5}}, sdst); err != nil {
		t.Fatal(err)
	}
	if sdst[0] != (r3.Vec{X: 2, Y: 3, Z: 6}) || sdst[1] != (r3.Vec{X: -1, Y: 0.5, Z: -0.5}) {
		t.Errorf("surface = %v", sdst)
	}

	prog, err = Compile(mustClassify(t, "(1, a, 3)"), map[string]float64{"a": 2}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if prog.Point != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("point = %v", prog.Point)
	}

	// One non-finite component poisons the whole sample.
	prog, err = Compile(mustClassify(t, "(t, log(t), 1)"), nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if err := prog.Curve.Evaluate([]float64{-1}, cdst[:1]); err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(cdst[0].X) {
		t.Errorf("got %v, want NaN sample", cdst[0])
	}
}

func TestDegenerateHasNoEvaluator(t *testing.T) {
	_, err := Compile(mustClassify(t, "x + 1"), nil, Options{})
	if !errors.Is(err, ErrKind) {
		t.Errorf("got %v, want ErrKind", err)
	}
}

func TestPanicReportedOnce(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	f := &Field{
		san: sanitizer{source: "boom", log: log},
		fn:  func([]float64) float64 { panic("boom") },
	}
	dst := []float64{1, 2}
	for i := 0; i < 3; i++ {
		if err := f.Evaluate(make([]r3.Vec, 2), dst); err != nil {
			t.Fatal(err)
		}
		if !math.IsNaN(dst[0]) || !math.IsNaN(dst[1]) {
			t.Fatalf("got %v, want NaN batch", dst)
		}
	}
	if n := strings.Count(buf.String(), "evaluation failed"); n != 1 {
		t.Errorf("panic logged %d times, want 1", n)
	}
}
