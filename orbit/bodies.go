package orbit

import "github.com/edwinsyarief/orrery/scene"

// Body describes how one node of the solar system moves.
//
// Rates are expressed in radians per millisecond of scaled time.
// Radius is the distance from the parent pivot along the X axis, and
// is applied once at layout time; zero leaves the position untouched.
// Scale is the display scale factor, also applied at layout time;
// zero leaves the scale untouched.
type Body struct {
	Name     string
	Parent   string
	Rate     float64
	Radius   float64
	Scale    float64
	Optional bool
}

// Table is the fixed set of bodies driven by an animator.
type Table []Body

// Astronomical reference values used by the real scale table.
const (
	KilometersPerAU     = 149_597_870.7
	EarthMoonKilometers = 384_400.0

	// Display units per astronomical unit when real scale is on.
	UnitsPerAU = 3.0
)

// Display radii, in scene units.
const (
	displayEarthRadius = 3.0
	displayMoonRadius  = 0.6
)

// The reference rates were tuned as fixed per-frame increments at
// 60 frames per second; perFrame converts them to radians per ms.
func perFrame(radians float64) float64 {
	return radians * 60.0 / 1000.0
}

// Default angular rates, in radians per millisecond.
var (
	SunRate        = perFrame(0.002)
	EarthRate      = perFrame(0.02)
	MoonRate       = perFrame(0.01)
	EarthOrbitRate = perFrame(0.005)
	MoonOrbitRate  = perFrame(0.015)
)

// Returns the body table with display-unit distances. The moon
// pivot sits on top of the earth inside the earth pivot, so the
// moon position composes relative to the earth.
func DisplayTable() Table {
	return Table{
		{Name: scene.NameSun, Parent: scene.NameSolarSystem, Rate: SunRate, Scale: 1.0},
		{Name: scene.NameEarthOrbit, Parent: scene.NameSolarSystem, Rate: EarthOrbitRate},
		{Name: scene.NameEarth, Parent: scene.NameEarthOrbit, Rate: EarthRate, Radius: displayEarthRadius, Scale: 0.35},
		{Name: scene.NameMoonOrbit, Parent: scene.NameEarthOrbit, Rate: MoonOrbitRate, Radius: displayEarthRadius},
		{Name: scene.NameMoon, Parent: scene.NameMoonOrbit, Rate: MoonRate, Radius: displayMoonRadius, Scale: 0.12},
	}
}

// Same as [DisplayTable](), but with radii proportional to the
// real astronomical distances (see [UnitsPerAU]).
func RealScaleTable() Table {
	earth := UnitsPerAU
	moon := EarthMoonKilometers / KilometersPerAU * UnitsPerAU
	table := DisplayTable()
	for i := range table {
		switch table[i].Name {
		case scene.NameEarth, scene.NameMoonOrbit:
			table[i].Radius = earth
		case scene.NameMoon:
			table[i].Radius = moon
		}
	}
	return table
}

// Returns the table entry with the given name.
func (self Table) Find(name string) (Body, bool) {
	for _, body := range self {
		if body.Name == name {
			return body, true
		}
	}
	return Body{}, false
}

// Returns the scene bindings needed to drive the table.
func (self Table) Bindings() []scene.Binding {
	bindings := make([]scene.Binding, 0, len(self))
	for _, body := range self {
		bindings = append(bindings, scene.Binding{Name: body.Name, Optional: body.Optional})
	}
	return bindings
}

// Builds a [scene.Tree] with the marker, the solar system root and
// every body of the table, parented as the table declares. Handy for
// hosts that don't bring their own scene graph.
func (self Table) BuildTree() *scene.Tree {
	tree := scene.NewTree()
	tree.Add(scene.NameMarker, "")
	tree.Add(scene.NameSolarSystem, scene.NameMarker)
	for _, body := range self {
		tree.Add(body.Name, body.Parent)
	}
	return tree
}
