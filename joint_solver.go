package physics2d

// JointSim is a prepared point-to-point joint constraint living in one
// ConstraintGraph color. It gives the Constraint Driver's
// prepareJoints/warmStart/solve/relax stages a second constraint kind
// to fan out over besides contacts.
type JointSim struct {
	BodyIndexA, BodyIndexB uint32
	JointID                uint64

	LocalAnchorA, LocalAnchorB Vec2

	Softness Softness

	Impulse Vec2 // accumulated linear impulse

	ForceThreshold  float32 // joint-event force threshold
	TorqueThreshold float32

	// anchors in world space relative to each body's center of mass,
	// computed at prepare time and reused across substeps
	anchorA, anchorB Vec2
	separation       Vec2 // positional error captured at prepare time
}

// PrepareJointsRange computes each joint's world-space anchors, softness
// and initial separation for joints [startIndex,endIndex). Runs once per
// step, before substepping begins.
func PrepareJointsRange(joints []JointSim, sims []BodySim, startIndex, endIndex int, h float32, tuning Tuning) {
	soft := MakeSoft(tuning.JointHertz, tuning.JointDampingRatio, h)
	for i := startIndex; i < endIndex; i++ {
		j := &joints[i]
		simA := &sims[j.BodyIndexA]
		simB := &sims[j.BodyIndexB]

		j.anchorA = simA.Transform.Q.RotateVector(j.LocalAnchorA.Sub(simA.LocalCenter))
		j.anchorB = simB.Transform.Q.RotateVector(j.LocalAnchorB.Sub(simB.LocalCenter))

		worldA := simA.Center.Add(j.anchorA)
		worldB := simB.Center.Add(j.anchorB)
		j.separation = worldB.Sub(worldA)

		j.Softness = soft
	}
}

// WarmStartJointsRange applies each joint's impulse from the previous
// substep.
func WarmStartJointsRange(joints []JointSim, sims []BodySim, states []BodyState, startIndex, endIndex int) {
	for i := startIndex; i < endIndex; i++ {
		j := &joints[i]
		simA, simB := &sims[j.BodyIndexA], &sims[j.BodyIndexB]
		stateA, stateB := &states[j.BodyIndexA], &states[j.BodyIndexB]
		applyImpulse(simA, stateA, j.Impulse, j.anchorA, -1)
		applyImpulse(simB, stateB, j.Impulse, j.anchorB, 1)
	}
}

// SolveJointsRange solves the point-to-point velocity constraint for
// joints [startIndex,endIndex). useBias mirrors the contact solver's
// relax/solve distinction: the relax pass drops the positional bias
// term.
func SolveJointsRange(joints []JointSim, sims []BodySim, states []BodyState, startIndex, endIndex int, useBias bool) {
	for i := startIndex; i < endIndex; i++ {
		j := &joints[i]
		simA, simB := &sims[j.BodyIndexA], &sims[j.BodyIndexB]
		stateA, stateB := &states[j.BodyIndexA], &states[j.BodyIndexB]

		vA := velocityAt(simA, stateA, j.anchorA, -1)
		vB := velocityAt(simB, stateB, j.anchorB, 1)
		cdot := vB.Sub(vA)

		bias := Vec2{}
		massScale := float32(1)
		impulseScale := float32(0)
		if useBias {
			bias = Vec2{j.Softness.BiasRate * j.separation[0], j.Softness.BiasRate * j.separation[1]}
			massScale = j.Softness.MassScale
			impulseScale = j.Softness.ImpulseScale
		}

		kNormal := simA.InvMass + simB.InvMass
		if kNormal == 0 {
			continue
		}
		invK := 1.0 / kNormal

		impulse := Vec2{
			-massScale*invK*(cdot[0]+bias[0]) - impulseScale*j.Impulse[0],
			-massScale*invK*(cdot[1]+bias[1]) - impulseScale*j.Impulse[1],
		}
		j.Impulse = j.Impulse.Add(impulse)

		applyImpulse(simA, stateA, impulse, j.anchorA, -1)
		applyImpulse(simB, stateB, impulse, j.anchorB, 1)
	}
}

// JointEventsRange reports joints whose force (accumulated impulse times
// invH) reaches ForceThreshold, feeding the JointEvent stream; a zero
// ForceThreshold reports every joint. TorqueThreshold is not consulted:
// this point-to-point joint carries no angular impulse. World.Step calls
// it once per step after the Constraint Driver, not per substep.
func JointEventsRange(joints []JointSim, startIndex, endIndex int, invH float32, out *[]JointEvent) {
	for i := startIndex; i < endIndex; i++ {
		j := &joints[i]
		force := length(j.Impulse) * invH
		if force >= j.ForceThreshold {
			*out = append(*out, JointEvent{JointID: j.JointID})
		}
	}
}
