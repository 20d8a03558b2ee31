package physics2d

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Softness carries the three soft-constraint coefficients derived from a
// hertz/damping-ratio pair once per prepare stage: biasRate feeds the
// Baumgarte-style position correction, massScale and impulseScale blend
// the soft and rigid responses.
type Softness struct {
	BiasRate     float32
	MassScale    float32
	ImpulseScale float32
}

// MakeSoft computes Softness from a hertz/dampingRatio pair and the
// substep h, using the standard soft-constraint derivation. Hertz 0
// returns the rigid setting (MassScale 1, no bias, no impulse scaling);
// for positive hertz the constraint stiffens as hertz rises (MassScale
// approaches 1 and ImpulseScale approaches 0).
func MakeSoft(hertz, dampingRatio, h float32) Softness {
	if hertz == 0 {
		return Softness{MassScale: 1}
	}
	omega := 2 * math.Pi * float64(hertz)
	a1 := 2*float64(dampingRatio) + float64(h)*omega
	a2 := float64(h) * omega * a1
	a3 := 1.0 / (1.0 + a2)
	return Softness{
		BiasRate:     float32(omega / a1),
		MassScale:    float32(a2 * a3),
		ImpulseScale: float32(a3),
	}
}

// ManifoldPoint is one contact point's solver state.
type ManifoldPoint struct {
	AnchorA, AnchorB Vec2 // relative to each body's center of mass
	Separation       float32
	RelativeVelocity float32 // normal approach speed read by the restitution pass; set by the caller, not by PrepareContactsRange

	NormalImpulse    float32
	TangentImpulse   float32
	MaxNormalImpulse float32
}

// ContactSim is a prepared contact constraint living in one
// ConstraintGraph color. Manifold generation (the geometry work that
// produces Normal/Points/Separation) is an external collaborator; this
// module only defines the solver-facing shape of the result.
type ContactSim struct {
	BodyIndexA, BodyIndexB uint32
	ShapeIDA, ShapeIDB     uint32

	Normal      Vec2
	Points      []ManifoldPoint
	Friction    float32
	Restitution float32

	Softness Softness

	EnableContactEvents bool
}

// PrepareContactsRange computes Softness for contacts [startIndex,
// endIndex) in a color. Runs once per step, before substepping begins.
// The static softness is used in place of the dynamic softness when one
// of the two bodies is static.
func PrepareContactsRange(contacts []ContactSim, sims []BodySim, startIndex, endIndex int, h float32, tuning Tuning) {
	dynamicSoft := MakeSoft(tuning.ContactHertz, tuning.ContactDampingRatio, h)
	staticSoft := MakeSoft(tuning.StaticContactHertz, tuning.ContactDampingRatio, h)

	for i := startIndex; i < endIndex; i++ {
		c := &contacts[i]
		bodyA := &sims[c.BodyIndexA]
		bodyB := &sims[c.BodyIndexB]
		if bodyA.Type == BodyStatic || bodyB.Type == BodyStatic {
			c.Softness = staticSoft
		} else {
			c.Softness = dynamicSoft
		}
	}
}

// WarmStartContactsRange applies each point's stored impulse from the
// previous substep before solving.
func WarmStartContactsRange(contacts []ContactSim, sims []BodySim, states []BodyState, startIndex, endIndex int) {
	for i := startIndex; i < endIndex; i++ {
		c := &contacts[i]
		simA, simB := &sims[c.BodyIndexA], &sims[c.BodyIndexB]
		stateA, stateB := &states[c.BodyIndexA], &states[c.BodyIndexB]
		tangent := crossSV(1, c.Normal)

		for _, p := range c.Points {
			impulse := Vec2{
				c.Normal[0]*p.NormalImpulse + tangent[0]*p.TangentImpulse,
				c.Normal[1]*p.NormalImpulse + tangent[1]*p.TangentImpulse,
			}
			applyImpulse(simA, stateA, impulse, p.AnchorA, -1)
			applyImpulse(simB, stateB, impulse, p.AnchorB, 1)
		}
	}
}

// SolveContactsRange runs one velocity-solve iteration over
// [startIndex,endIndex). useBias distinguishes the biased solve pass from
// the bias-free relax pass: the relax pass removes the Baumgarte bias
// term so it does not leak energy into the restitution stage. The
// normal+tangent 2x2 block at each point is solved with gonum's mat
// package.
func SolveContactsRange(contacts []ContactSim, sims []BodySim, states []BodyState, startIndex, endIndex int, invH float32, useBias bool) {
	for i := startIndex; i < endIndex; i++ {
		c := &contacts[i]
		simA, simB := &sims[c.BodyIndexA], &sims[c.BodyIndexB]
		stateA, stateB := &states[c.BodyIndexA], &states[c.BodyIndexB]
		tangent := crossSV(1, c.Normal)

		for pi := range c.Points {
			p := &c.Points[pi]

			vA := velocityAt(simA, stateA, p.AnchorA, -1)
			vB := velocityAt(simB, stateB, p.AnchorB, 1)
			relVel := vB.Sub(vA)

			vn := relVel.Dot(c.Normal)
			vt := relVel.Dot(tangent)

			bias := float32(0)
			massScale := float32(1)
			impulseScale := float32(0)
			if p.Separation > 0 {
				bias = p.Separation * invH
			} else if useBias {
				bias = maxf(c.Softness.BiasRate*p.Separation, -4.0)
				massScale = c.Softness.MassScale
				impulseScale = c.Softness.ImpulseScale
			}

			kNormal := simA.InvMass + simB.InvMass
			kTangent := simA.InvMass + simB.InvMass
			effMass := solve2x2Diagonal(kNormal, kTangent)

			impulseN := -effMass[0]*massScale*(vn+bias) - impulseScale*p.NormalImpulse
			newImpulseN := maxf(p.NormalImpulse+impulseN, 0)
			impulseN = newImpulseN - p.NormalImpulse
			p.NormalImpulse = newImpulseN
			p.MaxNormalImpulse = maxf(p.MaxNormalImpulse, newImpulseN)

			maxFriction := c.Friction * p.NormalImpulse
			impulseT := -effMass[1] * vt
			newImpulseT := clampf(p.TangentImpulse+impulseT, -maxFriction, maxFriction)
			impulseT = newImpulseT - p.TangentImpulse
			p.TangentImpulse = newImpulseT

			impulse := Vec2{c.Normal[0]*impulseN + tangent[0]*impulseT, c.Normal[1]*impulseN + tangent[1]*impulseT}
			applyImpulse(simA, stateA, impulse, p.AnchorA, -1)
			applyImpulse(simB, stateB, impulse, p.AnchorB, 1)
		}
	}
}

// ApplyRestitutionRange applies the restitution pass: only points whose
// captured approach speed exceeded RestitutionThreshold get a
// restitution impulse, and only if the contact's Restitution
// coefficient is nonzero.
func ApplyRestitutionRange(contacts []ContactSim, sims []BodySim, states []BodyState, startIndex, endIndex int, threshold float32) {
	for i := startIndex; i < endIndex; i++ {
		c := &contacts[i]
		if c.Restitution == 0 {
			continue
		}
		simA, simB := &sims[c.BodyIndexA], &sims[c.BodyIndexB]
		stateA, stateB := &states[c.BodyIndexA], &states[c.BodyIndexB]

		for pi := range c.Points {
			p := &c.Points[pi]
			if p.RelativeVelocity > -threshold || p.MaxNormalImpulse == 0 {
				continue
			}
			vA := velocityAt(simA, stateA, p.AnchorA, -1)
			vB := velocityAt(simB, stateB, p.AnchorB, 1)
			vn := vB.Sub(vA).Dot(c.Normal)

			kNormal := simA.InvMass + simB.InvMass
			if kNormal == 0 {
				continue
			}
			impulseN := -(1.0 / kNormal) * (vn + c.Restitution*p.RelativeVelocity)
			newImpulseN := maxf(p.NormalImpulse+impulseN, 0)
			impulseN = newImpulseN - p.NormalImpulse
			p.NormalImpulse = newImpulseN
			p.MaxNormalImpulse = maxf(p.MaxNormalImpulse, newImpulseN)

			impulse := Vec2{c.Normal[0] * impulseN, c.Normal[1] * impulseN}
			applyImpulse(simA, stateA, impulse, p.AnchorA, -1)
			applyImpulse(simB, stateB, impulse, p.AnchorB, 1)
		}
	}
}

// StoreImpulsesRange is a no-op in this module's representation: impulses
// are already stored in-place on ManifoldPoint. It is kept as a named
// stage so the Constraint Driver's stage count stays aligned with the
// prepare/warmStart/solve/relax/restitution sequence; a production host
// persisting ContactSim back to a separate cache would do that copy here.
func StoreImpulsesRange(contacts []ContactSim, startIndex, endIndex int) {}

// solve2x2Diagonal returns the inverse of the diagonal 2x2 effective-mass
// matrix diag(kNormal, kTangent) using gonum. The matrix is diagonal here
// because this module's reference manifold generator only produces
// circle-based contacts (no angular coupling term); a full polygon
// manifold generator would populate off-diagonal terms from (r x n).
func solve2x2Diagonal(kNormal, kTangent float32) [2]float32 {
	m := mat.NewDense(2, 2, []float64{float64(kNormal), 0, 0, float64(kTangent)})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return [2]float32{0, 0}
	}
	return [2]float32{float32(inv.At(0, 0)), float32(inv.At(1, 1))}
}

func applyImpulse(sim *BodySim, state *BodyState, impulse Vec2, anchor Vec2, sign float32) {
	state.LinearVelocity = Vec2{
		state.LinearVelocity[0] + sign*sim.InvMass*impulse[0],
		state.LinearVelocity[1] + sign*sim.InvMass*impulse[1],
	}
	state.AngularVelocity += sign * sim.InvInertia * crossVV(anchor, impulse)
}

// velocityAt returns the velocity of the material point at `anchor`
// (relative to the body's center of mass): v + w x r. sign is unused here
// but kept in the signature to mirror applyImpulse's call shape.
func velocityAt(sim *BodySim, state *BodyState, anchor Vec2, sign float32) Vec2 {
	_ = sim
	wxr := crossSV(state.AngularVelocity, anchor)
	return Vec2{state.LinearVelocity[0] + wxr[0], state.LinearVelocity[1] + wxr[1]}
}

// ReferenceManifold is the minimal circle/segment manifold this module's
// reference solver produces for tests. Real manifold generation is a
// host concern.
type ReferenceManifold struct {
	Normal Vec2 // points from A to B
	Points []ManifoldPoint
}

// GenerateCircleCircleManifold builds a single-point manifold between two
// circle shapes. centerA/centerB are world-space centers.
func GenerateCircleCircleManifold(centerA Vec2, radiusA float32, centerB Vec2, radiusB float32) (ReferenceManifold, bool) {
	d := centerB.Sub(centerA)
	dist := length(d)
	sep := dist - radiusA - radiusB
	if sep > 0 {
		return ReferenceManifold{}, false
	}
	normal := Vec2{0, 1}
	if dist > 1e-9 {
		normal = Vec2{d[0] / dist, d[1] / dist}
	}
	point := Vec2{centerA[0] + normal[0]*radiusA, centerA[1] + normal[1]*radiusA}
	return ReferenceManifold{
		Normal: normal,
		Points: []ManifoldPoint{{AnchorA: point.Sub(centerA), AnchorB: point.Sub(centerB), Separation: sep}},
	}, true
}

// GenerateCircleSegmentManifold builds a single-point manifold between a
// circle and a finite static segment (p1,p2), used for the "box resting
// on the ground" scenario. A circle whose center projects outside the
// segment's endpoints produces no manifold.
func GenerateCircleSegmentManifold(center Vec2, radius float32, p1, p2 Vec2) (ReferenceManifold, bool) {
	edge := p2.Sub(p1)
	edgeLen := length(edge)
	if edgeLen < 1e-9 {
		return ReferenceManifold{}, false
	}
	dir := Vec2{edge[0] / edgeLen, edge[1] / edgeLen}
	normal := Vec2{-dir[1], dir[0]}

	toCenter := center.Sub(p1)
	sep := toCenter.Dot(normal) - radius
	if sep > 0 {
		return ReferenceManifold{}, false
	}
	along := toCenter.Dot(dir)
	if along < 0 || along > edgeLen {
		return ReferenceManifold{}, false
	}
	point := Vec2{center[0] - normal[0]*radius, center[1] - normal[1]*radius}
	return ReferenceManifold{
		Normal: normal,
		Points: []ManifoldPoint{{AnchorA: point.Sub(p1), AnchorB: point.Sub(center), Separation: sep}},
	}, true
}
