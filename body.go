package physics2d

// BodyType classifies how a body participates in the simulation.
type BodyType uint8

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

// Handle is the generation-checked {index, world, generation} triple used
// for every cross-entity reference. Index1 is 1-based so
// the zero value is the null sentinel.
type Handle struct {
	Index1     uint32
	World0     uint16
	Generation uint32
}

// IsNull reports whether h is the null sentinel.
func (h Handle) IsNull() bool { return h.Index1 == 0 }

// BodySim is the "cold", finalizer-touched half of a body's simulation
// state. It is large and infrequently
// touched by the inner solver loop, so it lives in its own contiguous
// array, indexed in lockstep with BodyState.
type BodySim struct {
	Transform Transform
	Center    Vec2 // world-space center of mass
	Center0   Vec2 // center of mass snapshot for CCD / sleeping bodies
	Rotation0 Rot   // rotation snapshot for CCD / sleeping bodies

	LocalCenter Vec2 // center of mass in body-local space

	MinExtent float32 // smallest half-extent across the body's shapes
	MaxExtent float32 // largest half-extent across the body's shapes

	InvMass    float32
	InvInertia float32

	LinearDamping  float32
	AngularDamping float32
	GravityScale   float32

	Force  Vec2
	Torque float32

	AABBMin, AABBMax Vec2 // current tight AABB, union of all shape AABBs

	Type  BodyType
	Flags BodyFlags

	BodyID   uint64 // stable external identifier
	IslandID uint32

	EnlargeAABB bool // mirrors FlagEnlargeBounds, read by proxy enlargement pass
}

// BodyState is the "hot" half of a body's simulation state: the fields
// touched every substep by the Constraint Driver's inner loop. Keeping it
// small and separate from BodySim maximizes cache locality during solve.
type BodyState struct {
	LinearVelocity  Vec2
	AngularVelocity float32

	DeltaPosition Vec2 // accumulated position delta this step
	DeltaRotation Rot  // accumulated rotation delta this step

	Flags BodyFlags
}

// NewBodyState returns the zero-velocity, identity-delta initial state.
func NewBodyState() BodyState {
	return BodyState{DeltaRotation: IdentityRot}
}

// SleepVelocity computes the scalar used by the sleep-threshold test: the
// larger of the raw post-solve velocity magnitude and a position/rotation-
// delta based estimate. The delta-based estimate guards against a body
// that was stopped dead by the solver but whose deltaPosition still
// reflects a large motion from warm-starting.
func SleepVelocity(state BodyState, sim *BodySim, invDt float32) float32 {
	v := length(state.LinearVelocity) + absf(state.AngularVelocity)*sim.MaxExtent
	posTerm := length(state.DeltaPosition)
	rotTerm := absf(state.DeltaRotation.S) * sim.MaxExtent
	deltaTerm := 0.5 * invDt * (posTerm + rotTerm)
	if deltaTerm > v {
		return deltaTerm
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
