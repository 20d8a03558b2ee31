package physics2d

// SensorEngine runs the per-step sensor overlap pass: rotate/drain/
// query/sort-dedup the sensors in parallel (ranges of at least 16 sensors
// per task, since sensors are independent of each other), then merge-diff serially
// against the previous step's set and emit begin/end events in
// deterministic shapeId order.
type SensorEngine struct {
	Runner TaskRunner
}

// NewSensorEngine builds a SensorEngine around runner. A nil runner gets
// a single-worker synchronous runner, same convention as
// NewConstraintDriver.
func NewSensorEngine(runner TaskRunner) *SensorEngine {
	if runner == nil {
		runner = NewGoroutineTaskRunner(1)
	}
	return &SensorEngine{Runner: runner}
}

// RunStep rotates, drains, queries, and sort-dedups every sensor in
// sensors, using query to populate each sensor's Overlaps2 with the
// shapes currently touching it (an external broad-phase/narrow-phase
// concern; this module only owns the double-buffer bookkeeping and
// diff). Disabled sensors (bodyEnabled false, or EnableSensorEvents
// false on the owning shape) are skipped entirely, leaving their
// Overlaps1 untouched so they don't spuriously emit end events if
// re-enabled later.
func (e *SensorEngine) RunStep(sensors []Sensor, shapes []Shape, enabled []bool, query func(sensorIndex int, s *Sensor)) {
	const minGrain = 16

	handle := e.Runner.Enqueue(func(start, end, threadIndex int, arg any) {
		for i := start; i < end; i++ {
			if !enabled[i] {
				continue
			}
			s := &sensors[i]
			s.Rotate()
			s.DrainHits()
			query(i, s)
			s.EventBit = s.SortAndDedup()
		}
	}, len(sensors), minGrain, nil)
	e.Runner.Finish(handle)
}

// EmitEvents serially walks every sensor whose EventBit was set during
// RunStep and appends begin/end deltas into events, in ascending sensor
// index order, so runs with different worker counts produce
// byte-identical event streams.
func (e *SensorEngine) EmitEvents(sensors []Sensor, shapes []Shape, events *StepEvents) {
	for i := range sensors {
		s := &sensors[i]
		if !s.EventBit {
			continue
		}
		for _, d := range s.Diff() {
			switch d.Kind {
			case TouchBegin:
				events.SensorBegins = append(events.SensorBegins, SensorBeginTouchEvent{
					SensorShapeID:  s.ShapeID,
					VisitorShapeID: d.Visitor.ShapeID,
				})
			case TouchEnd:
				events.pushEnd(SensorEndTouchEvent{
					SensorShapeID:  s.ShapeID,
					VisitorShapeID: d.Visitor.ShapeID,
				})
			}
		}
	}
}
