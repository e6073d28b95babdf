package sequences

import "testing"

func TestSelectEventClickIncrease(t *testing.T) {
	previous := []ClickState{{ID: 1, Clicks: 2}, {ID: 2, Clicks: 0}, {ID: 3, Clicks: 5}}
	current := []ClickState{{ID: 1, Clicks: 2}, {ID: 2, Clicks: 1}, {ID: 3, Clicks: 5}}

	if got := SelectEvent(current, previous, 3); got != 2 {
		t.Errorf("Expected clicked id 2, got %d", got)
	}
}

func TestSelectEventNoIncreaseDefaultsToFirst(t *testing.T) {
	previous := []ClickState{{ID: 4, Clicks: 1}, {ID: 5, Clicks: 1}}
	current := []ClickState{{ID: 4, Clicks: 1}, {ID: 5, Clicks: 1}}

	if got := SelectEvent(current, previous, 5); got != 4 {
		t.Errorf("Expected first candidate 4, got %d", got)
	}
}

func TestSelectEventNewCandidateNotMisattributed(t *testing.T) {
	// Id 9 appears for the first time with a nonzero count; it was never
	// observed before so its count cannot be a click.
	previous := []ClickState{{ID: 1, Clicks: 0}}
	current := []ClickState{{ID: 9, Clicks: 3}, {ID: 1, Clicks: 0}}

	if got := SelectEvent(current, previous, 1); got != 9 {
		// 9 wins, but only as the first current candidate.
		t.Errorf("Expected fallback to first candidate 9, got %d", got)
	}

	// With an actual click elsewhere, the new candidate must not shadow it.
	current = []ClickState{{ID: 9, Clicks: 3}, {ID: 1, Clicks: 1}}
	if got := SelectEvent(current, previous, 1); got != 1 {
		t.Errorf("Expected attributed click on 1, got %d", got)
	}
}

func TestSelectEventEmptyKeepsPrevious(t *testing.T) {
	if got := SelectEvent(nil, []ClickState{{ID: 2, Clicks: 1}}, 7); got != 7 {
		t.Errorf("Expected previous selection 7, got %d", got)
	}
	if got := SelectEvent(nil, nil, 0); got != 0 {
		t.Errorf("Expected zero previous selection to pass through, got %d", got)
	}
}

func TestSelectEventFirstIncreaseWins(t *testing.T) {
	previous := []ClickState{{ID: 1, Clicks: 0}, {ID: 2, Clicks: 0}}
	current := []ClickState{{ID: 1, Clicks: 1}, {ID: 2, Clicks: 1}}

	if got := SelectEvent(current, previous, 0); got != 1 {
		t.Errorf("Expected first increased candidate 1, got %d", got)
	}
}
