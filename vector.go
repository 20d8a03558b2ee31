package physics2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is the 2D point/vector type used throughout the solver. mathgl has
// no complex-rotation type for 2D, so Vec2 is the only piece of mgl32
// reused directly here; Rot below is this module's own.
type Vec2 = mgl32.Vec2

// Rot is a unit complex number (cos, sin) representing a 2D rotation.
// Using cos/sin instead of an angle avoids repeated trig and lets
// composition be a single complex multiply.
type Rot struct {
	C, S float32 // cos(angle), sin(angle)
}

// IdentityRot is the zero rotation.
var IdentityRot = Rot{C: 1, S: 0}

// MakeRot builds a Rot from an angle in radians.
func MakeRot(angle float32) Rot {
	s, c := math.Sincos(float64(angle))
	return Rot{C: float32(c), S: float32(s)}
}

// Angle recovers the angle in radians.
func (r Rot) Angle() float32 {
	return float32(math.Atan2(float64(r.S), float64(r.C)))
}

// Mul composes two rotations: result rotates by r then by other.
func (r Rot) Mul(other Rot) Rot {
	return Rot{
		C: r.C*other.C - r.S*other.S,
		S: r.S*other.C + r.C*other.S,
	}
}

// InvMul computes qInv * r, i.e. the rotation from q to r.
func (q Rot) InvMul(r Rot) Rot {
	return Rot{
		C: q.C*r.C + q.S*r.S,
		S: q.C*r.S - q.S*r.C,
	}
}

// RotateVector applies the rotation to a vector.
func (r Rot) RotateVector(v Vec2) Vec2 {
	return Vec2{r.C*v[0] - r.S*v[1], r.S*v[0] + r.C*v[1]}
}

// InvRotateVector applies the inverse rotation to a vector.
func (r Rot) InvRotateVector(v Vec2) Vec2 {
	return Vec2{r.C*v[0] + r.S*v[1], -r.S*v[0] + r.C*v[1]}
}

// NormalizeRot renormalizes a Rot that has drifted off the unit circle
// after repeated incremental multiplication.
func NormalizeRot(r Rot) Rot {
	mag := float32(math.Sqrt(float64(r.C*r.C + r.S*r.S)))
	if mag < 1e-12 {
		return IdentityRot
	}
	inv := 1.0 / mag
	return Rot{C: r.C * inv, S: r.S * inv}
}

// IntegrateRotation advances a rotation by a small angular displacement
// deltaAngle (= h*w). This is a first-order complex-number update
// followed by renormalization, not a full sin/cos recompute, to stay
// cheap on the hot integration path.
func IntegrateRotation(q1 Rot, deltaAngle float32) Rot {
	q2 := Rot{C: q1.C - deltaAngle*q1.S, S: q1.S + deltaAngle*q1.C}
	return NormalizeRot(q2)
}

// Transform is a rigid transform: a world position and a rotation.
type Transform struct {
	P Vec2
	Q Rot
}

// TransformPoint maps a local point into world space.
func (t Transform) TransformPoint(local Vec2) Vec2 {
	return t.Q.RotateVector(local).Add(t.P)
}

// InvTransformPoint maps a world point into the local space of t.
func (t Transform) InvTransformPoint(world Vec2) Vec2 {
	return t.Q.InvRotateVector(world.Sub(t.P))
}

// Sweep describes a body's motion over one step, used by continuous
// collision: it interpolates between the pre-step and post-step
// transforms around a local center of mass.
type Sweep struct {
	LocalCenter Vec2 // center of mass in body-local space
	C1, C2      Vec2 // center of mass, start and end of sweep
	Q1, Q2      Rot  // rotation, start and end of sweep
}

// Lerp linearly interpolates two points.
func Lerp(a, b Vec2, f float32) Vec2 {
	return Vec2{a[0] + f*(b[0]-a[0]), a[1] + f*(b[1]-a[1])}
}

// NLerp normalized-linear-interpolates two rotations: a cheap
// approximation of slerp that is sufficient for CCD's sub-step sweep.
func NLerp(a, b Rot, f float32) Rot {
	omf := 1 - f
	r := Rot{C: omf*a.C + f*b.C, S: omf*a.S + f*b.S}
	return NormalizeRot(r)
}

// Transform evaluates the sweep at fraction f in [0,1] and returns the
// world transform of the body's origin (not its center of mass).
func (s Sweep) Transform(f float32) Transform {
	c := Lerp(s.C1, s.C2, f)
	q := NLerp(s.Q1, s.Q2, f)
	// origin = center - R * localCenter
	origin := c.Sub(q.RotateVector(s.LocalCenter))
	return Transform{P: origin, Q: q}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lenSq(v Vec2) float32 { return v[0]*v[0] + v[1]*v[1] }

func length(v Vec2) float32 { return float32(math.Sqrt(float64(lenSq(v)))) }

func crossVV(a, b Vec2) float32 { return a[0]*b[1] - a[1]*b[0] }

func crossSV(s float32, v Vec2) Vec2 { return Vec2{-s * v[1], s * v[0]} }

func perp(v Vec2) Vec2 { return Vec2{-v[1], v[0]} }
