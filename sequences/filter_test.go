package sequences

import (
	"testing"
	"time"

	"go-firewatch/types"
)

func TestPastNDaysToday(t *testing.T) {
	now := time.Date(2026, 8, 23, 15, 0, 0, 0, time.UTC)
	seqs := []types.Sequence{
		{ID: 1, StartedAt: "2026-08-23T08:00:00Z"},
		{ID: 2, StartedAt: "2026-08-22T23:59:00Z"},
		{ID: 3, StartedAt: "2026-08-23T00:00:00Z"},
	}

	kept := PastNDays(seqs, 0, now)
	if len(kept) != 2 {
		t.Fatalf("Expected 2 sequences since midnight, got %d", len(kept))
	}
	if kept[0].ID != 1 || kept[1].ID != 3 {
		t.Errorf("Expected ids 1 and 3, got %d and %d", kept[0].ID, kept[1].ID)
	}
}

func TestPastNDaysWindow(t *testing.T) {
	now := time.Date(2026, 8, 23, 15, 0, 0, 0, time.UTC)
	seqs := []types.Sequence{
		{ID: 1, StartedAt: "2026-08-22T16:00:00Z"}, // inside 1 day
		{ID: 2, StartedAt: "2026-08-22T14:00:00Z"}, // outside 1 day by an hour
		{ID: 3, StartedAt: "2026-08-19T10:00:00Z"}, // inside 5 days
	}

	kept := PastNDays(seqs, 1, now)
	if len(kept) != 1 || kept[0].ID != 1 {
		t.Fatalf("Expected only id 1 inside the 1-day window, got %+v", kept)
	}

	kept = PastNDays(seqs, 5, now)
	if len(kept) != 3 {
		t.Errorf("Expected all 3 inside the 5-day window, got %d", len(kept))
	}
}

func TestPastNDaysDropsUnparseable(t *testing.T) {
	now := time.Date(2026, 8, 23, 15, 0, 0, 0, time.UTC)
	seqs := []types.Sequence{
		{ID: 1, StartedAt: "not a timestamp"},
		{ID: 2, StartedAt: ""},
		{ID: 3, StartedAt: "2026-08-23T08:00:00Z"},
	}

	kept := PastNDays(seqs, 7, now)
	if len(kept) != 1 || kept[0].ID != 3 {
		t.Errorf("Expected only the parseable sequence, got %+v", kept)
	}
}

func TestLatestDetectionPrefersBoxes(t *testing.T) {
	seq := types.Sequence{
		Detections: []types.Detection{
			{ID: 1, Bboxes: "[[0.25,0.25,0.5,0.5,0.9]]"},
			{ID: 2, Bboxes: "[[0.1,0.1,0.2,0.2,0.8]]"},
			{ID: 3, Bboxes: "[]"},
		},
	}

	det, ok := LatestDetection(seq)
	if !ok {
		t.Fatal("Expected a detection")
	}
	if det.ID != 2 {
		t.Errorf("Expected most recent boxed detection 2, got %d", det.ID)
	}
}

func TestLatestDetectionFallsBackToLast(t *testing.T) {
	seq := types.Sequence{
		Detections: []types.Detection{
			{ID: 1, Bboxes: "[]"},
			{ID: 2, Bboxes: ""},
		},
	}

	det, ok := LatestDetection(seq)
	if !ok {
		t.Fatal("Expected a detection")
	}
	if det.ID != 2 {
		t.Errorf("Expected chronologically last detection 2, got %d", det.ID)
	}
}

func TestLatestDetectionEmpty(t *testing.T) {
	if _, ok := LatestDetection(types.Sequence{}); ok {
		t.Error("Expected no detection for an empty sequence")
	}
}
