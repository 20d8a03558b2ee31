package physics2d

import "math"

// IntegrateVelocitiesRange applies gravity, force, torque, and damping to
// bodies [startIndex,endIndex) of sims/states (parallel arrays indexed in
// lockstep), then caps linear and angular speed. gravity is the world
// gravity vector; h is the substep dt.
func IntegrateVelocitiesRange(sims []BodySim, states []BodyState, startIndex, endIndex int, gravity Vec2, h float32, tuning Tuning) {
	for i := startIndex; i < endIndex; i++ {
		sim := &sims[i]
		state := &states[i]

		linearDamping := 1.0 / (1.0 + h*sim.LinearDamping)
		angularDamping := 1.0 / (1.0 + h*sim.AngularDamping)

		gravityScale := sim.GravityScale
		if sim.InvMass == 0 {
			gravityScale = 0
		}

		v := state.LinearVelocity
		linearAccel := Vec2{
			h*sim.InvMass*sim.Force[0] + h*gravityScale*gravity[0],
			h*sim.InvMass*sim.Force[1] + h*gravityScale*gravity[1],
		}
		v = Vec2{linearAccel[0] + linearDamping*v[0], linearAccel[1] + linearDamping*v[1]}

		w := h*sim.InvInertia*sim.Torque + angularDamping*state.AngularVelocity

		maxLinear := tuning.MaxLinearSpeed
		if lenSq(v) > maxLinear*maxLinear {
			scale := maxLinear / length(v)
			v = Vec2{v[0] * scale, v[1] * scale}
			sim.Flags = sim.Flags.Set(FlagIsSpeedCapped)
		}

		maxAngular := tuning.MaxRotation / maxf(h, 1e-9)
		if !sim.Flags.Has(FlagAllowFastRotation) {
			if float32(math.Abs(float64(w))) > maxAngular {
				if w < 0 {
					w = -maxAngular
				} else {
					w = maxAngular
				}
				sim.Flags = sim.Flags.Set(FlagIsSpeedCapped)
			}
		}

		if sim.Flags.Has(FlagLockLinearX) {
			v[0] = 0
		}
		if sim.Flags.Has(FlagLockLinearY) {
			v[1] = 0
		}
		if sim.Flags.Has(FlagLockAngularZ) {
			w = 0
		}

		state.LinearVelocity = v
		state.AngularVelocity = w
	}
}

// IntegratePositionsRange advances the position/rotation deltas for
// bodies [startIndex,endIndex) by h*velocity. Lock flags are re-applied
// before integration so a locked axis never accumulates a delta even if
// something upstream left velocity nonzero.
func IntegratePositionsRange(sims []BodySim, states []BodyState, startIndex, endIndex int, h float32) {
	for i := startIndex; i < endIndex; i++ {
		sim := &sims[i]
		state := &states[i]

		v := state.LinearVelocity
		w := state.AngularVelocity
		if sim.Flags.Has(FlagLockLinearX) {
			v[0] = 0
		}
		if sim.Flags.Has(FlagLockLinearY) {
			v[1] = 0
		}
		if sim.Flags.Has(FlagLockAngularZ) {
			w = 0
		}

		state.DeltaPosition = Vec2{state.DeltaPosition[0] + h*v[0], state.DeltaPosition[1] + h*v[1]}
		state.DeltaRotation = IntegrateRotation(state.DeltaRotation, h*w)
	}
}
