// Package sequences holds the pure decision logic over sequence snapshots:
// change detection to gate downstream updates, click attribution for event
// selection, and recency filtering. Functions here never error; absence of
// data is data.
package sequences

import (
	"time"

	"go-firewatch/types"
)

// DefaultWatchedFields is the field set HaveChanged compares when the
// caller does not restrict it.
var DefaultWatchedFields = []string{
	"camera_id",
	"azimuth",
	"started_at",
	"last_seen_at",
	"is_wildfire",
}

// HaveChanged reports whether two sequence snapshots differ materially.
// Comparison is keyed by sequence id, never positional, so reordering rows
// in either snapshot cannot produce a spurious change. A change is: one
// snapshot empty and the other not, a sequence added or removed, or any
// watched field differing for a shared id. Timestamps are compared as
// instants, not strings, so formatting differences do not count as changes.
//
// watched restricts the compared fields; nil or empty means
// DefaultWatchedFields. Unknown field names are ignored.
func HaveChanged(current, previous []types.Sequence, watched []string) bool {
	if len(current) == 0 && len(previous) == 0 {
		return false
	}
	if (len(current) == 0) != (len(previous) == 0) {
		return true
	}

	cur := byID(current)
	prev := byID(previous)
	if len(cur) != len(prev) {
		return true
	}
	for id := range cur {
		if _, ok := prev[id]; !ok {
			return true
		}
	}

	if len(watched) == 0 {
		watched = DefaultWatchedFields
	}
	for id, c := range cur {
		p := prev[id]
		for _, field := range watched {
			if fieldDiffers(field, c, p) {
				return true
			}
		}
	}

	return false
}

func byID(seqs []types.Sequence) map[int64]types.Sequence {
	m := make(map[int64]types.Sequence, len(seqs))
	for _, s := range seqs {
		m[s.ID] = s
	}
	return m
}

func fieldDiffers(field string, a, b types.Sequence) bool {
	switch field {
	case "camera_id":
		return a.CameraID != b.CameraID
	case "azimuth":
		return a.Azimuth != b.Azimuth
	case "started_at":
		return !sameInstant(a.StartedAt, b.StartedAt)
	case "last_seen_at":
		return !sameInstant(a.LastSeenAt, b.LastSeenAt)
	case "is_wildfire":
		return !sameTriState(a.IsWildfire, b.IsWildfire)
	}
	return false
}

// sameTriState compares the nullable wildfire label: unlabeled only equals
// unlabeled.
func sameTriState(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// sameInstant compares two timestamp strings by the instant they denote.
// If either fails to parse, fall back to exact string equality.
func sameInstant(a, b string) bool {
	ta, okA := ParseTime(a)
	tb, okB := ParseTime(b)
	if okA && okB {
		return ta.Equal(tb)
	}
	return a == b
}

// ParseTime parses the timestamp layouts the platform emits: RFC3339 with
// or without fractional seconds, and the naive variant without a zone
// (taken as UTC).
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05Z", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
