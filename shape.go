package physics2d

// ShapeKind enumerates the geometric primitives a shape can be.
// Manifold generation against these is external (out of scope); this
// module only needs to know enough about a shape to compute its AABB and
// drive chain-segment CCD pruning.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeCapsule
	ShapePolygon
	ShapeSegment
	ShapeChainSegment
)

// Filter is the standard category/mask collision filter.
type Filter struct {
	Category uint32
	Mask     uint32
	GroupIndex int32
}

// ShouldCollide implements the usual category/mask test with a group
// override: a positive group forces collision, a negative group forces
// rejection, zero defers to category/mask.
func (f Filter) ShouldCollide(other Filter) bool {
	if f.GroupIndex == other.GroupIndex && f.GroupIndex != 0 {
		return f.GroupIndex > 0
	}
	return f.Category&other.Mask != 0 && other.Category&f.Mask != 0
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec2
}

// Contains reports whether b is entirely inside a.
func (a AABB) Contains(b AABB) bool {
	return a.Min[0] <= b.Min[0] && a.Min[1] <= b.Min[1] &&
		b.Max[0] <= a.Max[0] && b.Max[1] <= a.Max[1]
}

// Union returns the smallest AABB containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: Vec2{minf(a.Min[0], b.Min[0]), minf(a.Min[1], b.Min[1])},
		Max: Vec2{maxf(a.Max[0], b.Max[0]), maxf(a.Max[1], b.Max[1])},
	}
}

// Extend returns a inflated by margin on every side (a "fat" AABB).
func (a AABB) Extend(margin float32) AABB {
	return AABB{
		Min: Vec2{a.Min[0] - margin, a.Min[1] - margin},
		Max: Vec2{a.Max[0] + margin, a.Max[1] + margin},
	}
}

// Overlaps reports whether a and b intersect.
func (a AABB) Overlaps(b AABB) bool {
	return a.Min[0] <= b.Max[0] && b.Min[0] <= a.Max[0] &&
		a.Min[1] <= b.Max[1] && b.Min[1] <= a.Max[1]
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

const sensorIndexNone = ^uint32(0)

// Shape is the per-shape record holding geometry plus the
// broad-phase/sensor bookkeeping needed by the CCD and sensor engines.
// Of the geometry it stores only segment endpoints and a radius; polygon
// vertices and other full geometry stay with the host.
type Shape struct {
	ID     uint32
	BodyID uint64
	Kind   ShapeKind

	// Segment/chain-segment endpoints, used for the CCD early-out in
	// Unused for other kinds.
	Point1, Point2   Vec2
	GhostPoint1      Vec2
	GhostPoint2      Vec2

	// Radius is populated for ShapeCircle/ShapeCapsule. Real manifold
	// generation is a host concern; this field
	// exists only so the reference contact solver's minimal circle/
	// segment manifold generator (contact_solver.go) has something to
	// work with in tests.
	Radius float32

	Filter Filter

	AABB    AABB
	FatAABB AABB

	ProxyKey uint64

	Generation uint32

	SensorIndex uint32 // sensorIndexNone if this shape is not a sensor

	EnableSensorEvents bool
	EnableContactEvents bool

	EnlargedAABB bool

	NextShapeID uint32 // sibling link, null-equivalent is 0
}

// IsSensor reports whether the shape owns a Sensor record.
func (s *Shape) IsSensor() bool { return s.SensorIndex != sensorIndexNone }
