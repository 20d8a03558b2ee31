package physics2d

import (
	"io"

	"github.com/gocarina/gocsv"
)

// sensorEventRow is the flattened CSV record for one sensor touch event,
// used by StepRecorder to dump a step's event stream for offline
// determinism comparison.
type sensorEventRow struct {
	Step           int    `csv:"step"`
	Kind           string `csv:"kind"`
	SensorShapeID  uint32 `csv:"sensor_shape_id"`
	VisitorShapeID uint32 `csv:"visitor_shape_id"`
}

// StepRecorder accumulates sensor touch events across steps so they can
// be exported as CSV for a determinism/parity test to diff byte-for-byte
// between two worker-count configurations.
type StepRecorder struct {
	rows []sensorEventRow
	step int
}

// NewStepRecorder returns an empty recorder.
func NewStepRecorder() *StepRecorder { return &StepRecorder{} }

// Record appends the begin/end events from one completed step.
func (r *StepRecorder) Record(events *StepEvents) {
	for _, b := range events.SensorBegins {
		r.rows = append(r.rows, sensorEventRow{Step: r.step, Kind: "begin", SensorShapeID: b.SensorShapeID, VisitorShapeID: b.VisitorShapeID})
	}
	for _, e := range events.SensorEnds() {
		r.rows = append(r.rows, sensorEventRow{Step: r.step, Kind: "end", SensorShapeID: e.SensorShapeID, VisitorShapeID: e.VisitorShapeID})
	}
	r.step++
}

// WriteCSV serializes every recorded row to w.
func (r *StepRecorder) WriteCSV(w io.Writer) error {
	return gocsv.Marshal(r.rows, w)
}
