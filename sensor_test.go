package physics2d

import "testing"

func TestSensorDiffEmitsBeginForNewOverlap(t *testing.T) {
	s := &Sensor{Overlaps1: nil, Overlaps2: []Visitor{{ShapeID: 5, Generation: 1}}}
	deltas := s.Diff()
	if len(deltas) != 1 || deltas[0].Kind != TouchBegin || deltas[0].Visitor.ShapeID != 5 {
		t.Fatalf("expected single begin for shape 5, got %+v", deltas)
	}
}

func TestSensorDiffEmitsEndForRemovedOverlap(t *testing.T) {
	s := &Sensor{Overlaps1: []Visitor{{ShapeID: 5, Generation: 1}}, Overlaps2: nil}
	deltas := s.Diff()
	if len(deltas) != 1 || deltas[0].Kind != TouchEnd || deltas[0].Visitor.ShapeID != 5 {
		t.Fatalf("expected single end for shape 5, got %+v", deltas)
	}
}

func TestSensorDiffGenerationRolloverEndsThenBegins(t *testing.T) {
	s := &Sensor{
		Overlaps1: []Visitor{{ShapeID: 5, Generation: 1}},
		Overlaps2: []Visitor{{ShapeID: 5, Generation: 2}},
	}
	deltas := s.Diff()
	if len(deltas) != 2 {
		t.Fatalf("expected end+begin pair, got %+v", deltas)
	}
	if deltas[0].Kind != TouchEnd || deltas[0].Visitor.Generation != 1 {
		t.Fatalf("expected end for old generation first, got %+v", deltas[0])
	}
	if deltas[1].Kind != TouchBegin || deltas[1].Visitor.Generation != 2 {
		t.Fatalf("expected begin for new generation second, got %+v", deltas[1])
	}
}

func TestSensorSortAndDedupRemovesDuplicatesAndSorts(t *testing.T) {
	s := &Sensor{Overlaps2: []Visitor{{ShapeID: 3}, {ShapeID: 1}, {ShapeID: 3}, {ShapeID: 2}}}
	s.SortAndDedup()
	if len(s.Overlaps2) != 3 {
		t.Fatalf("expected 3 unique shapes, got %d: %+v", len(s.Overlaps2), s.Overlaps2)
	}
	for i := 1; i < len(s.Overlaps2); i++ {
		if s.Overlaps2[i-1].ShapeID >= s.Overlaps2[i].ShapeID {
			t.Fatalf("overlaps2 not strictly ascending: %+v", s.Overlaps2)
		}
	}
}

func TestSensorSortAndDedupReportsChange(t *testing.T) {
	s := &Sensor{
		Overlaps1: []Visitor{{ShapeID: 1, Generation: 1}},
		Overlaps2: []Visitor{{ShapeID: 1, Generation: 1}},
	}
	if changed := s.SortAndDedup(); changed {
		t.Fatalf("identical overlap sets should not report a change")
	}

	s.Overlaps2 = []Visitor{{ShapeID: 1, Generation: 1}, {ShapeID: 2, Generation: 1}}
	if changed := s.SortAndDedup(); !changed {
		t.Fatalf("added overlap should report a change")
	}
}

func TestSensorRotateSwapsBuffers(t *testing.T) {
	s := &Sensor{Overlaps2: []Visitor{{ShapeID: 9}}}
	s.Rotate()
	if len(s.Overlaps1) != 1 || s.Overlaps1[0].ShapeID != 9 {
		t.Fatalf("expected previous overlaps2 to become overlaps1, got %+v", s.Overlaps1)
	}
	if len(s.Overlaps2) != 0 {
		t.Fatalf("expected overlaps2 cleared after rotate, got %+v", s.Overlaps2)
	}
}

func TestSensorDrainHitsAppendsAndClears(t *testing.T) {
	s := &Sensor{Hits: []Visitor{{ShapeID: 1}, {ShapeID: 2}}}
	s.DrainHits()
	if len(s.Overlaps2) != 2 {
		t.Fatalf("expected hits drained into overlaps2, got %+v", s.Overlaps2)
	}
	if len(s.Hits) != 0 {
		t.Fatalf("expected Hits cleared after drain")
	}
}
