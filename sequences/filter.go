package sequences

import (
	"time"

	"go-firewatch/types"
)

// PastNDays keeps only sequences that started within the past n days
// relative to now. n=0 keeps sequences started since the beginning of
// today. Sequences with an unparseable start timestamp are dropped.
func PastNDays(seqs []types.Sequence, n int, now time.Time) []types.Sequence {
	var start time.Time
	if n == 0 {
		y, m, d := now.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	} else {
		start = now.AddDate(0, 0, -n)
	}

	kept := make([]types.Sequence, 0, len(seqs))
	for _, s := range seqs {
		t, ok := ParseTime(s.StartedAt)
		if !ok {
			continue
		}
		if !t.Before(start) {
			kept = append(kept, s)
		}
	}
	return kept
}

// LatestDetection picks the detection a dashboard should display for a
// sequence: the most recent one carrying bounding boxes, falling back to
// the chronologically last detection when none has boxes. The boolean is
// false when the sequence has no detections at all.
func LatestDetection(seq types.Sequence) (types.Detection, bool) {
	if len(seq.Detections) == 0 {
		return types.Detection{}, false
	}

	for i := len(seq.Detections) - 1; i >= 0; i-- {
		if len(types.ParseBBoxes(seq.Detections[i].Bboxes)) > 0 {
			return seq.Detections[i], true
		}
	}
	return seq.Detections[len(seq.Detections)-1], true
}
