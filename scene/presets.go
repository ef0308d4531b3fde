package scene

import "strings"

// Preset is a named quadric formula in coefficients a, b and c.
type Preset struct {
	Name    string
	Formula string
}

// Presets lists the quadric surfaces offered as starting points.
var Presets = []Preset{
	{Name: "Cylinder", Formula: "x^2/a^2 + y^2/b^2 - 1"},
	{Name: "Parabolic surface", Formula: "x^2/a^2 - z/c"},
	{Name: "Ellipsoid", Formula: "x^2/a^2 + y^2/b^2 + z^2/c^2 - 1"},
	{Name: "Cone", Formula: "x^2/a^2 + y^2/b^2 - z^2/c^2"},
	{Name: "Elliptic paraboloid", Formula: "x^2/a^2 + y^2/b^2 - z/c"},
	{Name: "Hyperbolic paraboloid", Formula: "x^2/a^2 - y^2/b^2 - z/c"},
	{Name: "Hyperboloid of one sheet", Formula: "x^2/a^2 + y^2/b^2 - z^2/c^2 - 1"},
	{Name: "Hyperboloid of two sheets", Formula: "-x^2/a^2 - y^2/b^2 + z^2/c^2 - 1"},
}

// LookupPreset returns the preset called name, ignoring case.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
