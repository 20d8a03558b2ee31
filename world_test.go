package physics2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWorldStepIntegratesFreeFall exercises the full Step pipeline on a
// single dynamic body with no constraints: gravity should pull it down
// every step, and the emitted BodyMoveEvent should reflect the new
// transform.
func TestWorldStepIntegratesFreeFall(t *testing.T) {
	w := NewWorld()
	w.Sims = []BodySim{{
		Type:       BodyDynamic,
		InvMass:    1,
		InvInertia: 1,
		MaxExtent:  0.5,
		MinExtent:  0.5,
		GravityScale: 1,
		Transform:  Transform{Q: IdentityRot},
	}}
	w.States = []BodyState{NewBodyState()}

	ctx := StepContext{Dt: 1.0 / 60, SubStepCount: 4, Gravity: Vec2{0, -10}}

	events := w.Step(ctx, nil)
	require.Len(t, events.BodyMoves, 1)
	assert.Less(t, events.BodyMoves[0].Transform.P[1], float32(0))
}

// TestWorldStepRestingBoxEventuallySleeps runs a resting body (zero
// gravity, zero velocity) until it crosses the sleep threshold and
// confirms the Finalizer reports FellAsleep.
func TestWorldStepRestingBoxEventuallySleeps(t *testing.T) {
	w := NewWorld()
	w.Tuning.SleepThreshold = 0.05
	w.Driver.Tuning = w.Tuning
	w.Sims = []BodySim{{
		Type:       BodyDynamic,
		InvMass:    1,
		InvInertia: 1,
		MaxExtent:  0.5,
		MinExtent:  0.5,
		Transform:  Transform{Q: IdentityRot},
	}}
	w.States = []BodyState{NewBodyState()}

	ctx := StepContext{Dt: 1.0 / 60, SubStepCount: 4, Gravity: Vec2{}}

	var lastEvents *StepEvents
	for i := 0; i < 3; i++ {
		lastEvents = w.Step(ctx, nil)
	}
	require.Len(t, lastEvents.BodyMoves, 1)
	assert.True(t, lastEvents.BodyMoves[0].FellAsleep, "a motionless body under zero gravity should fall asleep")
}

// TestWorldStepSensorOrderingIsDeterministic runs a world with two
// sensor visitors entering on the same step and checks that begin events
// come out in ascending shapeId order regardless of how many workers the
// task runner uses.
func TestWorldStepSensorOrderingIsDeterministic(t *testing.T) {
	runFor := func(workerCount int) []SensorBeginTouchEvent {
		w := NewWorld()
		w.Driver.Runner = NewGoroutineTaskRunner(workerCount)
		w.SensorEngine.Runner = NewGoroutineTaskRunner(workerCount)
		w.Sims = []BodySim{{Type: BodyStatic, Transform: Transform{Q: IdentityRot}}}
		w.States = []BodyState{NewBodyState()}
		w.Sensors = []Sensor{{ShapeID: 100}}
		w.SensorEnabled = []bool{true}

		ctx := StepContext{Dt: 1.0 / 60, SubStepCount: 4}
		events := w.Step(ctx, func(sensorIndex int, s *Sensor) {
			s.Overlaps2 = append(s.Overlaps2, Visitor{ShapeID: 7, Generation: 1}, Visitor{ShapeID: 3, Generation: 1})
		})
		return events.SensorBegins
	}

	w1 := runFor(1)
	w8 := runFor(8)

	require.Equal(t, len(w1), len(w8))
	for i := range w1 {
		assert.Equal(t, w1[i], w8[i], "sensor begin events must match across worker counts")
	}
	require.Len(t, w1, 2)
	assert.Less(t, w1[0].VisitorShapeID, w1[1].VisitorShapeID, "begins must be emitted in ascending shapeId order")
}
