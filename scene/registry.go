package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Default value and slider bounds of a new coefficient.
const (
	DefaultCoefficientValue = 1
	DefaultCoefficientMin   = -10
	DefaultCoefficientMax   = 10
)

// ErrUnknownCoefficient is returned when editing a coefficient no Function
// references.
var ErrUnknownCoefficient = errors.New("unknown coefficient")

// Coefficient is a named user parameter shared by every Function that
// references it.
type Coefficient struct {
	Name     string
	Value    float64
	Min, Max float64
	// Refs is the number of Functions referencing the coefficient.
	Refs int
}

// Registry maps coefficient names to their values. A coefficient is
// created with DefaultCoefficientValue on its first reference and removed
// when no Function references it. Registry is not safe for concurrent use;
// Scene serializes access to it.
type Registry struct {
	coeffs map[string]*Coefficient
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{coeffs: make(map[string]*Coefficient)}
}

// Sync recomputes reference counts from the coefficient names of the
// active Functions. It returns the names that were added and removed.
func (r *Registry) Sync(active [][]string) (added, removed []string) {
	refs := make(map[string]int)
	for _, names := range active {
		for _, name := range names {
			refs[name]++
		}
	}
	for name, c := range r.coeffs {
		if refs[name] == 0 {
			removed = append(removed, name)
			delete(r.coeffs, name)
			continue
		}
		c.Refs = refs[name]
	}
	for name, n := range refs {
		if _, ok := r.coeffs[name]; ok {
			continue
		}
		r.coeffs[name] = &Coefficient{
			Name:  name,
			Value: DefaultCoefficientValue,
			Min:   DefaultCoefficientMin,
			Max:   DefaultCoefficientMax,
			Refs:  n,
		}
		added = append(added, name)
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// Get returns the coefficient called name.
func (r *Registry) Get(name string) (Coefficient, bool) {
	c, ok := r.coeffs[name]
	if !ok {
		return Coefficient{}, false
	}
	return *c, true
}

// Set changes the value of a coefficient. The value must lie within the
// coefficient bounds.
func (r *Registry) Set(name string, v float64) error {
	c, ok := r.coeffs[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCoefficient, name)
	}
	if math.IsNaN(v) || v < c.Min || v > c.Max {
		return fmt.Errorf("value %g of %s outside [%g, %g]", v, name, c.Min, c.Max)
	}
	c.Value = v
	return nil
}

// SetBounds changes the bounds of a coefficient, clamping its value into
// them.
func (r *Registry) SetBounds(name string, min, max float64) error {
	c, ok := r.coeffs[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCoefficient, name)
	}
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) || min > max {
		return fmt.Errorf("bad bounds [%g, %g] for %s", min, max, name)
	}
	c.Min, c.Max = min, max
	c.Value = math.Min(max, math.Max(min, c.Value))
	return nil
}

// Snapshot returns the current value of every coefficient.
func (r *Registry) Snapshot() map[string]float64 {
	vals := make(map[string]float64, len(r.coeffs))
	for name, c := range r.coeffs {
		vals[name] = c.Value
	}
	return vals
}

// Coefficients returns every coefficient sorted by name.
func (r *Registry) Coefficients() []Coefficient {
	out := make([]Coefficient, 0, len(r.coeffs))
	for _, c := range r.coeffs {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
