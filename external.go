package physics2d

// This file defines the collaborator interfaces the solver depends on at
// arm's length: a task runner, a broad phase, and narrow distance/TOI
// kernels. Broad-phase tree construction/refit, manifold generation, and
// a general task framework are all explicitly out of scope here; the
// solver only depends on these narrow seams so a host can supply its own
// production-grade implementations. taskrunner.go and broadphase.go in
// this module ship reference implementations used by tests.

// TaskFn is one parallel-range callback: it processes [startIndex,
// endIndex) on the given worker thread.
type TaskFn func(startIndex, endIndex, threadIndex int, arg any)

// TaskHandle is an opaque handle returned by TaskRunner.Enqueue, passed
// back to Finish to join.
type TaskHandle any

// TaskRunner is the external task system abstraction:
// Enqueue splits [0,count) into parallel ranges of at least minRange
// items and runs task on each range; Finish blocks until every range has
// completed. ThreadIndex passed to task must be within [0, workerCount).
type TaskRunner interface {
	Enqueue(task TaskFn, count, minRange int, arg any) TaskHandle
	Finish(handle TaskHandle)
	WorkerCount() int
}

// QueryCallback is invoked by BroadPhase.Query for each candidate proxy;
// returning false stops the query early.
type QueryCallback func(proxyID uint64, userData any) bool

// TreeKind selects one of the three dynamic broad-phase trees.
type TreeKind uint8

const (
	TreeStatic TreeKind = iota
	TreeKinematic
	TreeDynamic
)

// BroadPhase is the external collaborator the CCD pass and proxy
// enlargement query: three dynamic trees indexed by body type, queried
// by AABB+mask, plus proxy enlargement and deferred-move buffering hooks.
type BroadPhase interface {
	Query(tree TreeKind, aabb AABB, maskBits uint32, cb QueryCallback)
	EnlargeProxy(proxyKey uint64, fatAABB AABB)
	BufferMove(proxyKey uint64)
}

// DistanceInput/DistanceOutput/DistanceCache mirror a production distance
// kernel's surface. Geometry itself is host-owned and opaque to this
// module (Shape.Kind is enough to drive chain-segment pruning; the
// kernel does the real distance math).
type DistanceInput struct {
	ProxyA, ProxyB any
	TransformA, TransformB Transform
	UseRadii bool
}

type DistanceOutput struct {
	PointA, PointB Vec2
	Distance       float32
}

type DistanceCache struct {
	Count uint16
	// opaque simplex cache contents, owned by the kernel implementation
	Data any
}

// TOIInput/TOIOutput mirror the time-of-impact kernel surface.
type TOIInput struct {
	ProxyA, ProxyB any
	SweepA, SweepB Sweep
	MaxFraction    float32
}

// TOIState classifies the result the way a production TOI kernel would:
// a fraction of exactly 0 (already touching or overlapping at the start)
// is distinguished from a genuine in-range hit, since it is treated as
// requiring special handling in SolveContinuousOne rather than as a
// normal accepted hit.
type TOIState uint8

const (
	TOIStateSeparated TOIState = iota
	TOIStateHit
	TOIStateOverlapped
	TOIStateTouchingAtZero
)

type TOIOutput struct {
	State    TOIState
	Fraction float32
	Point    Vec2
	Normal   Vec2
}

// DistanceKernel and TOIKernel are the narrow distance/TOI seams the CCD
// pass depends on.
type DistanceKernel interface {
	ShapeDistance(input DistanceInput, cache *DistanceCache) DistanceOutput
}

type TOIKernel interface {
	TimeOfImpact(input TOIInput) TOIOutput
}

// CustomFilterFcn lets a host veto a candidate pair beyond the standard
// category/mask filter.
type CustomFilterFcn func(shapeA, shapeB uint32, ctx any) bool

// PreSolveFcn lets a host veto a CCD-detected contact point before it is
// accepted. Returning false is a normal outcome, not an error: it simply
// discards the hit.
type PreSolveFcn func(shapeA, shapeB uint32, point, normal Vec2, ctx any) bool
