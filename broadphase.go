package physics2d

import "math"

// SpatialHashBroadPhase is the reference BroadPhase implementation used
// by tests: a 2D, proxy-keyed grid split into three independently
// queryable trees (static/kinematic/dynamic). It stores only opaque
// proxy keys per cell and defers exact overlap testing to the caller
// via the AABB test in Query.
type SpatialHashBroadPhase struct {
	cellSize float32
	trees    [3]map[int64][]proxyEntry
	fatAABBs map[uint64]AABB
}

type proxyEntry struct {
	key  uint64
	aabb AABB
	data any
}

// NewSpatialHashBroadPhase builds a broad phase with the given cell size.
// A cell size comparable to typical fat-AABB extents keeps cells from
// holding too many proxies.
func NewSpatialHashBroadPhase(cellSize float32) *SpatialHashBroadPhase {
	bp := &SpatialHashBroadPhase{cellSize: cellSize, fatAABBs: make(map[uint64]AABB)}
	for i := range bp.trees {
		bp.trees[i] = make(map[int64][]proxyEntry)
	}
	return bp
}

// CreateProxy inserts proxyKey into the given tree's cells spanning
// fatAABB, with userData returned to QueryCallback on a hit.
func (bp *SpatialHashBroadPhase) CreateProxy(tree TreeKind, proxyKey uint64, fatAABB AABB, userData any) {
	bp.fatAABBs[proxyKey] = fatAABB
	bp.insert(tree, proxyKey, fatAABB, userData)
}

func (bp *SpatialHashBroadPhase) insert(tree TreeKind, proxyKey uint64, aabb AABB, userData any) {
	minX, maxX := bp.cellIndex(aabb.Min[0]), bp.cellIndex(aabb.Max[0])
	minY, maxY := bp.cellIndex(aabb.Min[1]), bp.cellIndex(aabb.Max[1])
	cells := bp.trees[tree]
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := bp.hashKey(x, y)
			cells[key] = append(cells[key], proxyEntry{key: proxyKey, aabb: aabb, data: userData})
		}
	}
}

// EnlargeProxy replaces the stored fat AABB for proxyKey and re-hashes
// it into the grid. Since this reference implementation doesn't track
// which tree a proxy belongs to, it searches all three and re-inserts the
// proxy, with its user data, into each tree that held it; a production
// implementation would know the body type up front and only touch one.
func (bp *SpatialHashBroadPhase) EnlargeProxy(proxyKey uint64, fatAABB AABB) {
	bp.fatAABBs[proxyKey] = fatAABB
	for tree := range bp.trees {
		data, ok := bp.hasProxyData(TreeKind(tree), proxyKey)
		if !ok {
			continue
		}
		bp.removeFromTree(TreeKind(tree), proxyKey)
		bp.insert(TreeKind(tree), proxyKey, fatAABB, data)
	}
}

func (bp *SpatialHashBroadPhase) hasProxyData(tree TreeKind, proxyKey uint64) (any, bool) {
	for _, entries := range bp.trees[tree] {
		for _, e := range entries {
			if e.key == proxyKey {
				return e.data, true
			}
		}
	}
	return nil, false
}

func (bp *SpatialHashBroadPhase) removeFromTree(tree TreeKind, proxyKey uint64) {
	cells := bp.trees[tree]
	for k, entries := range cells {
		out := entries[:0]
		for _, e := range entries {
			if e.key != proxyKey {
				out = append(out, e)
			}
		}
		if len(out) == 0 {
			delete(cells, k)
		} else {
			cells[k] = out
		}
	}
}

// BufferMove is a no-op in this reference implementation: EnlargeProxy
// already performs the re-hash eagerly rather than deferring to a flush
// pass. A production tree would batch moves here and flush once per step.
func (bp *SpatialHashBroadPhase) BufferMove(proxyKey uint64) {}

// Query walks every proxy whose cell overlaps aabb's footprint in the
// given tree and calls cb for each candidate whose stored AABB actually
// overlaps aabb, stopping early if cb returns false. maskBits is ignored:
// this reference implementation has no Shape/Filter dependency of its
// own, so any mask filtering is left to cb.
func (bp *SpatialHashBroadPhase) Query(tree TreeKind, aabb AABB, maskBits uint32, cb QueryCallback) {
	minX, maxX := bp.cellIndex(aabb.Min[0]), bp.cellIndex(aabb.Max[0])
	minY, maxY := bp.cellIndex(aabb.Min[1]), bp.cellIndex(aabb.Max[1])
	cells := bp.trees[tree]

	seen := make(map[uint64]struct{})
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			key := bp.hashKey(x, y)
			for _, e := range cells[key] {
				if _, ok := seen[e.key]; ok {
					continue
				}
				seen[e.key] = struct{}{}
				if !e.aabb.Overlaps(aabb) {
					continue
				}
				if !cb(e.key, e.data) {
					return
				}
			}
		}
	}
}

func (bp *SpatialHashBroadPhase) cellIndex(pos float32) int64 {
	return int64(math.Floor(float64(pos / bp.cellSize)))
}

func (bp *SpatialHashBroadPhase) hashKey(x, y int64) int64 {
	const p1 = 73856093
	const p2 = 19349663
	return x*p1 ^ y*p2
}
