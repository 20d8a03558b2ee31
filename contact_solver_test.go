package physics2d

import (
	"math"
	"testing"
)

func TestMakeSoftZeroHertzIsRigid(t *testing.T) {
	s := MakeSoft(0, 10, 1.0/60)
	if s.MassScale != 1 || s.ImpulseScale != 0 || s.BiasRate != 0 {
		t.Fatalf("zero hertz should be a fully rigid constraint, got %+v", s)
	}
}

func TestMakeSoftPositiveHertzProducesDamping(t *testing.T) {
	s := MakeSoft(30, 10, 1.0/60)
	if s.BiasRate <= 0 {
		t.Fatalf("expected positive bias rate, got %f", s.BiasRate)
	}
	if s.MassScale <= 0 || s.MassScale > 1 {
		t.Fatalf("expected massScale in (0,1], got %f", s.MassScale)
	}
}

func TestGenerateCircleCircleManifoldDetectsOverlap(t *testing.T) {
	m, ok := GenerateCircleCircleManifold(Vec2{0, 0}, 1, Vec2{1.5, 0}, 1)
	if !ok {
		t.Fatalf("expected overlapping circles to produce a manifold")
	}
	if len(m.Points) != 1 {
		t.Fatalf("expected one contact point, got %d", len(m.Points))
	}
	if m.Points[0].Separation >= 0 {
		t.Fatalf("expected negative separation for overlapping circles, got %f", m.Points[0].Separation)
	}
}

func TestGenerateCircleCircleManifoldRejectsSeparated(t *testing.T) {
	_, ok := GenerateCircleCircleManifold(Vec2{0, 0}, 1, Vec2{10, 0}, 1)
	if ok {
		t.Fatalf("expected distant circles to produce no manifold")
	}
}

func TestGenerateCircleSegmentManifoldRestsOnGround(t *testing.T) {
	m, ok := GenerateCircleSegmentManifold(Vec2{0, 0.9}, 1, Vec2{-10, 0}, Vec2{10, 0})
	if !ok {
		t.Fatalf("expected circle resting near ground segment to produce a manifold")
	}
	if m.Normal[1] <= 0 {
		t.Fatalf("expected normal pointing up away from ground, got %+v", m.Normal)
	}
}

func TestSolveContactsResolvesPenetration(t *testing.T) {
	tuning := DefaultTuning()
	h := float32(1.0 / 60)

	sims := []BodySim{
		{Type: BodyStatic, InvMass: 0, InvInertia: 0},
		{Type: BodyDynamic, InvMass: 1, InvInertia: 0},
	}
	states := []BodyState{NewBodyState(), NewBodyState()}
	states[1].LinearVelocity = Vec2{0, -1}

	contacts := []ContactSim{{
		BodyIndexA: 0,
		BodyIndexB: 1,
		Normal:     Vec2{0, 1},
		Points:     []ManifoldPoint{{Separation: -0.01}},
		Friction:   0.5,
	}}

	PrepareContactsRange(contacts, sims, 0, 1, h, tuning)
	SolveContactsRange(contacts, sims, states, 0, 1, 1.0/h, true)

	if states[1].LinearVelocity[1] <= -1 {
		t.Fatalf("expected normal impulse to reduce downward velocity, got %f", states[1].LinearVelocity[1])
	}
	if contacts[0].Points[0].NormalImpulse <= 0 {
		t.Fatalf("expected positive accumulated normal impulse, got %f", contacts[0].Points[0].NormalImpulse)
	}
}

func TestApplyRestitutionSkipsBelowThreshold(t *testing.T) {
	sims := []BodySim{{Type: BodyStatic, InvMass: 0}, {Type: BodyDynamic, InvMass: 1}}
	states := []BodyState{NewBodyState(), NewBodyState()}
	contacts := []ContactSim{{
		BodyIndexA:  0,
		BodyIndexB:  1,
		Normal:      Vec2{0, 1},
		Restitution: 0.8,
		Points:      []ManifoldPoint{{RelativeVelocity: -0.01, MaxNormalImpulse: 1}},
	}}

	before := states[1].LinearVelocity[1]
	ApplyRestitutionRange(contacts, sims, states, 0, 1, 1.0)
	if states[1].LinearVelocity[1] != before {
		t.Fatalf("approach speed below threshold should not apply restitution")
	}
}

func TestSolve2x2DiagonalInverts(t *testing.T) {
	inv := solve2x2Diagonal(2, 4)
	if math.Abs(float64(inv[0]-0.5)) > 1e-5 || math.Abs(float64(inv[1]-0.25)) > 1e-5 {
		t.Fatalf("expected (0.5, 0.25), got %+v", inv)
	}
}
