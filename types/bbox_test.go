package types

import "testing"

func TestParseBBoxes(t *testing.T) {
	// Binary-exact fractions so the percent scaling compares exactly.
	boxes := ParseBBoxes("[[0.25, 0.25, 0.5, 0.75, 0.875]]")
	if len(boxes) != 1 {
		t.Fatalf("Expected 1 box, got %d", len(boxes))
	}
	want := BBox{X0: 25, Y0: 25, Width: 25, Height: 50, Confidence: 0.875}
	if boxes[0] != want {
		t.Errorf("Expected %+v, got %+v", want, boxes[0])
	}
}

func TestParseBBoxesMultipleRows(t *testing.T) {
	boxes := ParseBBoxes("[[0,0,0.5,0.5,0.9],[0.5,0.5,1,1,0.75]]")
	if len(boxes) != 2 {
		t.Fatalf("Expected 2 boxes, got %d", len(boxes))
	}
	if boxes[1].X0 != 50 || boxes[1].Width != 50 {
		t.Errorf("Second box misparsed: %+v", boxes[1])
	}
}

func TestParseBBoxesWithoutConfidence(t *testing.T) {
	boxes := ParseBBoxes("[[0.25,0.25,0.75,0.75]]")
	if len(boxes) != 1 {
		t.Fatalf("Expected 1 box, got %d", len(boxes))
	}
	if boxes[0].Confidence != 0 {
		t.Errorf("Expected zero confidence for a 4-value row, got %v", boxes[0].Confidence)
	}
}

func TestParseBBoxesSkipsShortRows(t *testing.T) {
	boxes := ParseBBoxes("[[0.1,0.2],[0.25,0.25,0.5,0.5,0.9],[]]")
	if len(boxes) != 1 {
		t.Errorf("Expected short rows to be skipped, got %d boxes", len(boxes))
	}
}

func TestParseBBoxesMalformed(t *testing.T) {
	for _, raw := range []string{"", "[]", "not json", `{"x":1}`, "null"} {
		boxes := ParseBBoxes(raw)
		if boxes == nil {
			t.Errorf("ParseBBoxes(%q) returned nil, want empty slice", raw)
			continue
		}
		if len(boxes) != 0 {
			t.Errorf("ParseBBoxes(%q) = %+v, want empty", raw, boxes)
		}
	}
}
