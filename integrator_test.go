package physics2d

import "testing"

func TestIntegrateVelocitiesAppliesGravity(t *testing.T) {
	tuning := DefaultTuning()
	sims := []BodySim{{InvMass: 1, GravityScale: 1, Type: BodyDynamic}}
	states := []BodyState{NewBodyState()}

	IntegrateVelocitiesRange(sims, states, 0, 1, Vec2{0, -10}, 0.1, tuning)

	if states[0].LinearVelocity[1] >= 0 {
		t.Fatalf("expected downward velocity after gravity step, got %f", states[0].LinearVelocity[1])
	}
}

func TestIntegrateVelocitiesIgnoresStaticGravityScale(t *testing.T) {
	tuning := DefaultTuning()
	sims := []BodySim{{InvMass: 0, GravityScale: 1, Type: BodyStatic}}
	states := []BodyState{NewBodyState()}

	IntegrateVelocitiesRange(sims, states, 0, 1, Vec2{0, -10}, 0.1, tuning)

	if states[0].LinearVelocity[1] != 0 {
		t.Fatalf("static body should not accumulate velocity, got %f", states[0].LinearVelocity[1])
	}
}

func TestIntegrateVelocitiesLocksAxes(t *testing.T) {
	tuning := DefaultTuning()
	sims := []BodySim{{InvMass: 1, GravityScale: 1, Type: BodyDynamic, Flags: FlagLockLinearY}}
	states := []BodyState{NewBodyState()}

	IntegrateVelocitiesRange(sims, states, 0, 1, Vec2{0, -10}, 0.1, tuning)

	if states[0].LinearVelocity[1] != 0 {
		t.Fatalf("locked Y axis should stay zero, got %f", states[0].LinearVelocity[1])
	}
}

func TestIntegratePositionsAccumulatesDelta(t *testing.T) {
	sims := []BodySim{{}}
	states := []BodyState{{LinearVelocity: Vec2{1, 0}, DeltaRotation: IdentityRot}}

	IntegratePositionsRange(sims, states, 0, 1, 0.5)

	if states[0].DeltaPosition[0] != 0.5 {
		t.Fatalf("expected deltaPosition.x == 0.5, got %f", states[0].DeltaPosition[0])
	}
}

func TestIntegrateVelocitiesCapsLinearSpeed(t *testing.T) {
	tuning := DefaultTuning()
	sims := []BodySim{{InvMass: 1, Type: BodyDynamic}}
	states := []BodyState{{LinearVelocity: Vec2{tuning.MaxLinearSpeed * 10, 0}}}

	IntegrateVelocitiesRange(sims, states, 0, 1, Vec2{}, 0.01, tuning)

	if length(states[0].LinearVelocity) > tuning.MaxLinearSpeed+1e-3 {
		t.Fatalf("speed should be capped at %f, got %f", tuning.MaxLinearSpeed, length(states[0].LinearVelocity))
	}
	if !sims[0].Flags.Has(FlagIsSpeedCapped) {
		t.Fatalf("expected FlagIsSpeedCapped to be set")
	}
}
