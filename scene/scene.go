// This package defines the small slice of a host scene graph that the
// orrery controllers read and write, a typed handle table resolved
// once at startup, and a [Tree] implementation that hosts and tests
// can use when no external scene graph is available.
//
// The scene graph itself (rendering, materials, lighting, 3D math) is
// owned by the host. Controllers only ever touch four properties of a
// node: position, rotation around the vertical axis, scale and
// visibility.
package scene

import "math"

// Canonical node names for the solar system scene.
const (
	NameSun         = "sun"
	NameEarth       = "earth"
	NameMoon        = "moon"
	NameEarthOrbit  = "earthOrbit"
	NameMoonOrbit   = "moonOrbit"
	NameMarker      = "marker"
	NameSolarSystem = "solarSystem"
)

// A three component vector used for positions and scales.
type Vec3 struct {
	X, Y, Z float64
}

// Returns a vector with all three components set to s.
func Uniform(s float64) Vec3 { return Vec3{s, s, s} }

// Returns whether all components are finite numbers.
func (self Vec3) IsFinite() bool {
	return isFinite(self.X) && isFinite(self.Y) && isFinite(self.Z)
}

// The opaque transform handle of a host scene node.
type Node interface {
	Position() Vec3
	SetPosition(Vec3)

	// Rotation around the vertical axis, in radians.
	RotationY() float64
	SetRotationY(radians float64)

	Scale() Vec3
	SetScale(Vec3)

	Visible() bool
	SetVisible(bool)
}

// Graph resolves node names against the host scene graph.
type Graph interface {
	Lookup(name string) (Node, bool)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
