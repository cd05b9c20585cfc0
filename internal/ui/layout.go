package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the category and
	// priority columns are hidden.
	LayoutCompactWidth = 90

	// LayoutReceivedWidth is the minimum width to show received timestamps.
	LayoutReceivedWidth = 120
)

// Timing constants.
const (
	// DefaultUIInterval is how often the view re-reads store snapshots.
	DefaultUIInterval = time.Second

	// ActionTimeout bounds a single user-triggered request.
	ActionTimeout = 15 * time.Second
)

// chromeHeight is the number of lines taken by header, status and footer.
const chromeHeight = 5
