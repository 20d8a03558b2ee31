package physics2d

import "sort"

// ContinuousContext bundles the read-only collaborators SolveContinuous
// needs: a broad phase to query candidates against, and a TOI kernel to
// compute the actual time of impact. Manifold and shape-distance math
// are left to those collaborators; this module only sequences the CCD
// pass over a single fast or bullet body.
type ContinuousContext struct {
	BroadPhase BroadPhase
	TOI        TOIKernel
	PreSolve   PreSolveFcn
}

// CoreCircleProxy is the degenerate proxy SolveContinuousOne substitutes
// for the fast body's real shape when it retries a TOIStateTouchingAtZero
// result: a circle of Radius centered on the body's sweep. Hosts whose
// TOIKernel doesn't special-case a touching-at-zero retry can safely
// ignore this type and return TOIStateSeparated for it.
type CoreCircleProxy struct {
	Radius float32
}

// sensorSweepHit records one sensor shape brushed during the sweep query,
// together with the fraction along the sweep at which it was first
// touched. Hits are only committed to the sensor's Hits slice once the
// final solid-body fraction is known, so a sensor touched after the body
// has already come to rest against something solid is discarded.
type sensorSweepHit struct {
	shapeIdx int
	fraction float32
}

// SolveContinuousOne runs the single-body CCD pass for the
// body at bodyIndex: build its sweep from Center0/Rotation0 to the
// finalized Center/Transform.Q, query the broad phase for the box
// spanning box1 (start) to box2 (end), compute TOI against each
// candidate, and advance the body to the earliest accepted fraction.
// Sensor shapes encountered along the sweep (up to
// tuning.MaxContinuousSensorHits of them) never block the sweep; instead
// a Visitor naming the swept body's own first shape in ownShapeIndices is
// queued onto the touched sensor's Hits, to be merged into its overlap
// set by the sensor engine's next DrainHits call, but only if the sensor
// was touched before the body's solid stop fraction. If sensors is nil or
// ownShapeIndices is empty, sensor hits along the sweep are dropped.
// events, if non-nil, receives a ContactHitEvent for the accepted solid
// hit, if any.
func SolveContinuousOne(sim *BodySim, ownShapeIndices []int, allShapes []Shape, sensors []Sensor, bodyIndex uint32, tuning Tuning, ctx ContinuousContext, events *StepEvents) {
	isBullet := sim.Flags.Has(FlagIsBullet)

	sweep := Sweep{
		LocalCenter: sim.LocalCenter,
		C1:          sim.Center0,
		Q1:          sim.Rotation0,
		C2:          sim.Center,
		Q2:          sim.Transform.Q,
	}

	box1 := AABB{Min: sweep.C1, Max: sweep.C1}.Extend(sim.MaxExtent)
	box2 := AABB{Min: sweep.C2, Max: sweep.C2}.Extend(sim.MaxExtent)
	sweptBox := box1.Union(box2)

	core := tuning.CoreFraction * sim.MinExtent

	minFraction := float32(1.0)
	hit := false
	var hitPoint, hitNormal Vec2
	var hitShapeID uint32

	var visitor Visitor
	haveVisitor := len(ownShapeIndices) > 0
	if haveVisitor {
		own := &allShapes[ownShapeIndices[0]]
		visitor = Visitor{ShapeID: own.ID, Generation: own.Generation}
	}
	var sensorHits []sensorSweepHit

	trees := []TreeKind{TreeStatic, TreeKinematic}
	if isBullet {
		trees = append(trees, TreeDynamic)
	}

	for _, tree := range trees {
		ctx.BroadPhase.Query(tree, sweptBox, ^uint32(0), func(proxyID uint64, userData any) bool {
			shapeIdx, ok := userData.(int)
			if !ok || shapeIdx < 0 || shapeIdx >= len(allShapes) {
				return true
			}
			other := &allShapes[shapeIdx]

			if other.IsSensor() {
				if haveVisitor {
					out := ctx.TOI.TimeOfImpact(TOIInput{SweepA: sweep, MaxFraction: 1.0})
					if out.State == TOIStateHit || out.State == TOIStateTouchingAtZero {
						sensorHits = append(sensorHits, sensorSweepHit{shapeIdx: shapeIdx, fraction: out.Fraction})
					}
				}
				return true
			}

			if other.Kind == ShapeChainSegment {
				e := other.Point2.Sub(other.Point1)
				n := perp(e)
				nLen := length(n)
				if nLen > 1e-9 {
					n = Vec2{n[0] / nLen, n[1] / nLen}
					separation1 := n.Dot(sweep.C1.Sub(other.Point1))
					separation2 := n.Dot(sweep.C2.Sub(other.Point1))
					if separation1 < 0 || (separation1-separation2 < core && separation2 > core) {
						return true
					}
				}
			}

			out := ctx.TOI.TimeOfImpact(TOIInput{
				SweepA:      sweep,
				MaxFraction: minFraction,
			})

			if out.State == TOIStateTouchingAtZero {
				// A fraction of exactly zero means the shapes were already
				// touching at the sweep's start rather than a genuine
				// advance into each other. Retry against a small circle at
				// the body's own core radius and only accept the retry if
				// it reports a genuine in-range crossing.
				retry := ctx.TOI.TimeOfImpact(TOIInput{
					ProxyA:      CoreCircleProxy{Radius: core},
					SweepA:      sweep,
					MaxFraction: minFraction,
				})
				if retry.Fraction > 0 && retry.Fraction < 1 {
					out = retry
				} else {
					return true
				}
			} else if out.State != TOIStateHit {
				return true
			}

			if out.Fraction < minFraction {
				if ctx.PreSolve != nil && !ctx.PreSolve(0, other.ID, out.Point, out.Normal, nil) {
					return true
				}
				minFraction = out.Fraction
				hit = true
				hitPoint, hitNormal = out.Point, out.Normal
				hitShapeID = other.ID
			}
			return true
		})
	}

	if haveVisitor && len(sensorHits) > 0 {
		sort.Slice(sensorHits, func(i, j int) bool { return sensorHits[i].fraction < sensorHits[j].fraction })
		emitted := 0
		for _, sh := range sensorHits {
			if sh.fraction >= minFraction {
				continue
			}
			if emitted >= tuning.MaxContinuousSensorHits {
				break
			}
			other := &allShapes[sh.shapeIdx]
			if int(other.SensorIndex) >= len(sensors) {
				continue
			}
			sensors[other.SensorIndex].Hits = append(sensors[other.SensorIndex].Hits, visitor)
			emitted++
		}
	}

	t := sweep.Transform(minFraction)
	sim.Center = Lerp(sweep.C1, sweep.C2, minFraction)
	sim.Transform.Q = NLerp(sweep.Q1, sweep.Q2, minFraction)
	sim.Transform.P = t.P

	sim.Center0 = sim.Center
	sim.Rotation0 = sim.Transform.Q

	sim.AABBMin = Vec2{sim.Center[0] - sim.MaxExtent, sim.Center[1] - sim.MaxExtent}
	sim.AABBMax = Vec2{sim.Center[0] + sim.MaxExtent, sim.Center[1] + sim.MaxExtent}

	if hit {
		sim.Flags = sim.Flags.Set(FlagHadTimeOfImpact)
		if events != nil {
			shapeIDA := uint32(0)
			if haveVisitor {
				shapeIDA = visitor.ShapeID
			}
			events.ContactHits = append(events.ContactHits, ContactHitEvent{
				ShapeIDA: shapeIDA,
				ShapeIDB: hitShapeID,
				Point:    hitPoint,
				Normal:   hitNormal,
			})
		}
	} else {
		sim.Flags = sim.Flags.Clear(FlagHadTimeOfImpact)
	}
}
