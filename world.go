package physics2d

import "github.com/google/uuid"

// World owns every array the per-step pipeline touches: bodies, shapes,
// sensors, the constraint graph, and the collaborators (broad phase, task
// runner, TOI kernel) the Constraint Driver, Finalizer, CCD pass and
// Sensor Engine need. It is the single entry point a host calls Step on
// once per frame.
type World struct {
	SessionID uuid.UUID

	Sims   []BodySim
	States []BodyState

	Shapes    []Shape
	ShapeBody []uint32 // body index owning each shape, parallel to Shapes

	Sensors       []Sensor
	SensorEnabled []bool

	Graph *ConstraintGraph

	Driver       *ConstraintDriver
	SensorEngine *SensorEngine
	BroadPhase   BroadPhase
	TOI          TOIKernel
	PreSolve     PreSolveFcn

	Tuning Tuning
	Logger Logger

	Events *StepEvents

	fastQueue   []uint32
	bulletQueue []uint32

	bodyAwake []bool
}

// NewWorld builds an empty World with default tuning, a no-op logger, a
// four-worker task runner, and the reference spatial-hash broad phase.
// Hosts that want their own broad phase or task runner should replace
// World.BroadPhase / World.Driver.Runner / World.SensorEngine.Runner
// after construction.
func NewWorld() *World {
	tuning := DefaultTuning()
	runner := NewGoroutineTaskRunner(4)
	return &World{
		SessionID:    uuid.New(),
		Graph:        NewConstraintGraph(),
		Driver:       NewConstraintDriver(runner, tuning),
		SensorEngine: NewSensorEngine(runner),
		BroadPhase:   NewSpatialHashBroadPhase(4.0),
		Tuning:       tuning,
		Logger:       NewNopLogger(),
		Events:       newStepEvents(),
	}
}

// SensorQueryFunc supplies the narrow-phase overlap test a host's shape
// geometry provides; this module has no shape-vs-shape manifold logic of
// its own, so Step takes it as a parameter rather
// than assuming a particular geometry representation.
type SensorQueryFunc func(sensorIndex int, s *Sensor)

// Step runs one full simulation step: Constraint Driver, joint events,
// Body Finalizer, broad-phase proxy enlargement, continuous collision for
// fast/bullet bodies, a second proxy enlargement pass for the shapes the
// continuous pass moved outside their fat AABBs, and the Sensor Engine,
// in that order. query supplies
// sensor overlap candidates (see SensorQueryFunc); it may be nil if the
// world has no sensors configured.
func (w *World) Step(ctx StepContext, query SensorQueryFunc) *StepEvents {
	w.Events.beginStep()

	if ctx.SubStepCount < 1 {
		ctx.SubStepCount = 4
	}

	w.Driver.Solve(w.Sims, w.States, w.Graph, ctx)

	invH := float32(0)
	if ctx.Dt > 0 {
		invH = float32(ctx.SubStepCount) / ctx.Dt
	}
	for _, c := range w.Graph.Colors {
		JointEventsRange(c.Joints, 0, len(c.Joints), invH, &w.Events.Joints)
	}
	JointEventsRange(w.Graph.Overflow.Joints, 0, len(w.Graph.Overflow.Joints), invH, &w.Events.Joints)

	w.fastQueue = w.fastQueue[:0]
	w.bulletQueue = w.bulletQueue[:0]
	FinalizeBodiesRange(w.Sims, w.States, 0, len(w.Sims), ctx.Dt, w.Tuning, &w.fastQueue, &w.bulletQueue, w.Events)

	if w.BroadPhase != nil {
		EnlargeProxiesRange(w.Shapes, w.ShapeBody, w.Sims, 0, len(w.Sims), w.Tuning.AABBMargin, w.BroadPhase)
	}

	if w.TOI != nil && w.BroadPhase != nil {
		cctx := ContinuousContext{BroadPhase: w.BroadPhase, TOI: w.TOI, PreSolve: w.PreSolve}
		bodyShapes := w.shapesByBody()
		for _, bodyIndex := range w.fastQueue {
			SolveContinuousOne(&w.Sims[bodyIndex], bodyShapes[bodyIndex], w.Shapes, w.Sensors, bodyIndex, w.Tuning, cctx, w.Events)
		}
		for _, bodyIndex := range w.bulletQueue {
			SolveContinuousOne(&w.Sims[bodyIndex], bodyShapes[bodyIndex], w.Shapes, w.Sensors, bodyIndex, w.Tuning, cctx, w.Events)
		}
	}

	if query != nil && len(w.Sensors) > 0 {
		w.SensorEngine.RunStep(w.Sensors, w.Shapes, w.SensorEnabled, query)
		w.SensorEngine.EmitEvents(w.Sensors, w.Shapes, w.Events)
	}

	w.applySleep()

	if w.Logger.DebugEnabled() {
		w.Logger.Debugf("step complete: %d bodies, %d contacts, %d sensor begins, %d sensor ends",
			len(w.Sims), w.countActiveContacts(), len(w.Events.SensorBegins), len(w.Events.SensorEnds()))
	}

	return w.Events
}

// shapesByBody groups Shapes indices by owning body index, for the
// continuous pass's need to name a visitor shape for swept sensor hits.
// Rebuilt every step since ShapeBody can change between steps; a host
// with a stable shape set could cache this instead.
func (w *World) shapesByBody() map[uint32][]int {
	out := make(map[uint32][]int, len(w.Sims))
	for i, bodyIndex := range w.ShapeBody {
		out[bodyIndex] = append(out[bodyIndex], i)
	}
	return out
}

// applySleep zeroes velocity for any body the Finalizer flagged as
// FellAsleep this step.
func (w *World) applySleep() {
	if len(w.bodyAwake) != len(w.Sims) {
		w.bodyAwake = make([]bool, len(w.Sims))
		for i := range w.bodyAwake {
			w.bodyAwake[i] = true
		}
	}
	for _, ev := range w.Events.BodyMoves {
		if !ev.FellAsleep {
			continue
		}
		for i := range w.Sims {
			if w.Sims[i].BodyID == ev.BodyID {
				w.States[i].LinearVelocity = Vec2{}
				w.States[i].AngularVelocity = 0
				w.bodyAwake[i] = false
			}
		}
	}
}

func (w *World) countActiveContacts() int {
	n := len(w.Graph.Overflow.Contacts)
	for _, c := range w.Graph.Colors {
		n += len(c.Contacts)
	}
	return n
}
