package physics2d

// FinalizeBodiesRange commits one step's solved deltas back onto each
// body's durable transform, tests it for sleep, classifies fast/bullet
// bodies into the continuous-collision queue, and refreshes AABBs.
// bulletQueue and fastQueue are appended to directly (the caller
// pre-sizes/owns them); this function does not itself run in parallel
// slices that could race on the same queue, so for multi-worker use the
// caller should give each block its own queue and concatenate.
func FinalizeBodiesRange(sims []BodySim, states []BodyState, startIndex, endIndex int, dt float32, tuning Tuning, fastQueue, bulletQueue *[]uint32, events *StepEvents) {
	invDt := float32(0)
	if dt > 0 {
		invDt = 1.0 / dt
	}

	for i := startIndex; i < endIndex; i++ {
		sim := &sims[i]
		state := &states[i]

		if sim.Flags.Has(FlagLockLinearX) {
			state.DeltaPosition[0] = 0
			state.LinearVelocity[0] = 0
		}
		if sim.Flags.Has(FlagLockLinearY) {
			state.DeltaPosition[1] = 0
			state.LinearVelocity[1] = 0
		}
		if sim.Flags.Has(FlagLockAngularZ) {
			state.DeltaRotation = IdentityRot
			state.AngularVelocity = 0
		}

		sim.Center = Vec2{sim.Center[0] + state.DeltaPosition[0], sim.Center[1] + state.DeltaPosition[1]}
		sim.Transform.Q = state.DeltaRotation.Mul(sim.Transform.Q)
		sim.Transform.Q = NormalizeRot(sim.Transform.Q)
		sim.Transform.P = sim.Center.Sub(sim.Transform.Q.RotateVector(sim.LocalCenter))

		speed := SleepVelocity(*state, sim, invDt)
		fellAsleep := false
		if sim.Type == BodyDynamic {
			if speed < tuning.SleepThreshold {
				fellAsleep = true
			}
		}

		// isSpeedCapped and hadTimeOfImpact are both durable, finalizer-
		// owned bits; OR them in rather than replace, so a bit already set
		// directly on sim.Flags by the integrator or the previous step's
		// CCD pass never gets clobbered just because this step's hot state
		// didn't also set it.
		sim.Flags |= state.Flags & (FlagIsSpeedCapped | FlagHadTimeOfImpact)

		maxVelocity := length(state.LinearVelocity) + absf(state.AngularVelocity)*sim.MaxExtent
		isFast := tuning.ContinuousEnabled && sim.Type == BodyDynamic && maxVelocity*dt > 0.5*maxf(sim.MinExtent, 1e-6)
		if isFast {
			sim.Flags = sim.Flags.Set(FlagIsFast)
			if sim.Flags.Has(FlagIsBullet) {
				*bulletQueue = append(*bulletQueue, uint32(i))
			} else {
				*fastQueue = append(*fastQueue, uint32(i))
			}
		} else {
			sim.Flags = sim.Flags.Clear(FlagIsFast)
		}

		sim.AABBMin = Vec2{sim.Center[0] - sim.MaxExtent, sim.Center[1] - sim.MaxExtent}
		sim.AABBMax = Vec2{sim.Center[0] + sim.MaxExtent, sim.Center[1] + sim.MaxExtent}

		state.DeltaPosition = Vec2{}
		state.DeltaRotation = IdentityRot

		if events != nil {
			events.BodyMoves = append(events.BodyMoves, BodyMoveEvent{
				Transform:  sim.Transform,
				BodyID:     sim.BodyID,
				FellAsleep: fellAsleep,
			})
		}
	}
}

// EnlargeProxiesRange pushes each body's fat AABB into the broad phase
// when its tight AABB has grown outside it. Shapes, not bodies, own
// broad-phase proxies, so this walks shapes belonging to bodies in
// [startIndex,endIndex).
func EnlargeProxiesRange(shapes []Shape, shapeBody []uint32, sims []BodySim, startIndex, endIndex int, margin float32, bp BroadPhase) {
	for si := range shapes {
		bodyIndex := shapeBody[si]
		if int(bodyIndex) < startIndex || int(bodyIndex) >= endIndex {
			continue
		}
		sh := &shapes[si]
		sim := &sims[bodyIndex]
		tight := AABB{Min: sim.AABBMin, Max: sim.AABBMax}
		if sh.FatAABB.Contains(tight) {
			continue
		}
		sh.FatAABB = tight.Extend(margin)
		sh.EnlargedAABB = true
		sim.EnlargeAABB = true
		sim.Flags = sim.Flags.Set(FlagEnlargeBounds)
		bp.EnlargeProxy(sh.ProxyKey, sh.FatAABB)
	}
}
