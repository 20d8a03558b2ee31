package physics2d

// StepContext carries everything one Step() call needs that is not
// already owned by World: the substep count, gravity, and dt.
type StepContext struct {
	Dt          float32
	SubStepCount int
	Gravity     Vec2
}

// ConstraintDriver runs the per-step solve pipeline: prepare once, then
// substep the integrate/warmStart/solve/integratePositions/relax cycle,
// then a single restitution+store pass.
// It owns no state of its own beyond the TaskRunner it fans work out to;
// everything it touches lives in the World's BodySim/BodyState arrays and
// the ConstraintGraph.
type ConstraintDriver struct {
	Runner TaskRunner
	Tuning Tuning
}

// NewConstraintDriver builds a driver around the given TaskRunner. A nil
// runner is replaced with a single-worker synchronous runner so the
// driver is usable without any concurrency at all.
func NewConstraintDriver(runner TaskRunner, tuning Tuning) *ConstraintDriver {
	if runner == nil {
		runner = NewGoroutineTaskRunner(1)
	}
	return &ConstraintDriver{Runner: runner, Tuning: tuning}
}

// Solve runs one full step's worth of constraint solving: prepare,
// substep SubStepCount times through integrate/warmStart/solve/
// integratePositions/relax, then a single restitution+store pass.
// sims/states are the full body arrays; graph holds the colored
// contacts/joints built by the host (or by a test) before calling Solve.
func (d *ConstraintDriver) Solve(sims []BodySim, states []BodyState, graph *ConstraintGraph, ctx StepContext) {
	h := ctx.Dt / float32(ctx.SubStepCount)
	invH := float32(0)
	if h > 0 {
		invH = 1.0 / h
	}

	activeColors := graph.ActiveColors()

	// Prepare runs once per step, not per substep.
	d.forAllColors(graph, activeColors, func(c *Color) {
		PrepareJointsRange(c.Joints, sims, 0, len(c.Joints), h, d.Tuning)
		PrepareContactsRange(c.Contacts, sims, 0, len(c.Contacts), h, d.Tuning)
	})
	PrepareJointsRange(graph.Overflow.Joints, sims, 0, len(graph.Overflow.Joints), h, d.Tuning)
	PrepareContactsRange(graph.Overflow.Contacts, sims, 0, len(graph.Overflow.Contacts), h, d.Tuning)

	for sub := 0; sub < ctx.SubStepCount; sub++ {
		d.forEachBody(sims, states, func(start, end int) {
			IntegrateVelocitiesRange(sims, states, start, end, ctx.Gravity, h, d.Tuning)
		})

		d.forAllColors(graph, activeColors, func(c *Color) {
			WarmStartJointsRange(c.Joints, sims, states, 0, len(c.Joints))
			WarmStartContactsRange(c.Contacts, sims, states, 0, len(c.Contacts))
		})
		WarmStartJointsRange(graph.Overflow.Joints, sims, states, 0, len(graph.Overflow.Joints))
		WarmStartContactsRange(graph.Overflow.Contacts, sims, states, 0, len(graph.Overflow.Contacts))

		for iter := 0; iter < d.Tuning.Iterations; iter++ {
			d.forAllColors(graph, activeColors, func(c *Color) {
				SolveJointsRange(c.Joints, sims, states, 0, len(c.Joints), true)
				SolveContactsRange(c.Contacts, sims, states, 0, len(c.Contacts), invH, true)
			})
			SolveJointsRange(graph.Overflow.Joints, sims, states, 0, len(graph.Overflow.Joints), true)
			SolveContactsRange(graph.Overflow.Contacts, sims, states, 0, len(graph.Overflow.Contacts), invH, true)
		}

		d.forEachBody(sims, states, func(start, end int) {
			IntegratePositionsRange(sims, states, start, end, h)
		})

		for iter := 0; iter < d.Tuning.RelaxIterations; iter++ {
			d.forAllColors(graph, activeColors, func(c *Color) {
				SolveJointsRange(c.Joints, sims, states, 0, len(c.Joints), false)
				SolveContactsRange(c.Contacts, sims, states, 0, len(c.Contacts), invH, false)
			})
			SolveJointsRange(graph.Overflow.Joints, sims, states, 0, len(graph.Overflow.Joints), false)
			SolveContactsRange(graph.Overflow.Contacts, sims, states, 0, len(graph.Overflow.Contacts), invH, false)
		}
	}

	d.forAllColors(graph, activeColors, func(c *Color) {
		ApplyRestitutionRange(c.Contacts, sims, states, 0, len(c.Contacts), d.Tuning.RestitutionThreshold)
	})
	ApplyRestitutionRange(graph.Overflow.Contacts, sims, states, 0, len(graph.Overflow.Contacts), d.Tuning.RestitutionThreshold)

	d.forAllColors(graph, activeColors, func(c *Color) {
		StoreImpulsesRange(c.Contacts, 0, len(c.Contacts))
	})
}

// forEachBody splits [0,len(sims)) into blocks sized per Tuning
// (BlocksPerWorker, MinBodyBlock) and runs fn over each block using the
// driver's TaskRunner.
func (d *ConstraintDriver) forEachBody(sims []BodySim, states []BodyState, fn func(start, end int)) {
	n := len(sims)
	if n == 0 {
		return
	}
	workerCount := d.Runner.WorkerCount()
	blockSize := d.Tuning.MinBodyBlock
	if blockSize <= 0 {
		blockSize = 32
	}
	target := n / (d.Tuning.BlocksPerWorker * maxInt(workerCount, 1))
	if target > blockSize {
		blockSize = target
	}

	handle := d.Runner.Enqueue(func(start, end, threadIndex int, arg any) {
		fn(start, end)
	}, n, blockSize, nil)
	d.Runner.Finish(handle)
}

// forAllColors runs fn over every active color's constraints. Colors are
// independent by construction (no shared bodies within a color), so they
// could run in parallel; this module runs them sequentially within a
// stage, and the constraints inside each color are also solved one after
// another on the calling goroutine. Only the body-integration stages go
// through forEachBody and the TaskRunner.
func (d *ConstraintDriver) forAllColors(graph *ConstraintGraph, active []int, fn func(c *Color)) {
	for _, idx := range active {
		fn(graph.Colors[idx])
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
