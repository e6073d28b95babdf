package sequences

// ClickState pairs a candidate event id with the cumulative click count of
// its UI control. Counts are monotonic per control.
type ClickState struct {
	ID     int64
	Clicks int
}

// SelectEvent determines which event the operator just interacted with by
// comparing two observations of the candidate buttons. The selected id is
// the one whose click count strictly increased; only ids present in both
// observations are considered, so the candidate set changing shape between
// calls cannot misattribute a click. With no attributable increase the
// first current candidate wins, and with no candidates at all the previous
// selection is kept.
func SelectEvent(current, previous []ClickState, previousSelection int64) int64 {
	prev := make(map[int64]int, len(previous))
	for _, p := range previous {
		prev[p.ID] = p.Clicks
	}

	for _, c := range current {
		if before, ok := prev[c.ID]; ok && c.Clicks > before {
			return c.ID
		}
	}

	if len(current) > 0 {
		return current[0].ID
	}
	return previousSelection
}
