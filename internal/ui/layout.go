package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the header drops labels.
	LayoutCompactWidth = 80

	// LayoutSidebarWidth is the minimum width for the farm sidebar.
	LayoutSidebarWidth = 110
)

// Activity panel limits.
const (
	// ActivityLineLimit is how many log lines the activity panel keeps.
	ActivityLineLimit = 500
)

// Timing constants.
const (
	// DefaultUIInterval drives notice expiry, countdowns and log refresh.
	DefaultUIInterval = time.Second

	// NoticeTTL is how long a notice stays in the header.
	NoticeTTL = 5 * time.Second

	// ActionTimeout bounds network-backed actions started from the UI.
	ActionTimeout = 10 * time.Second
)

// Farm canvas nudge steps, in percent of the canvas.
const (
	nudgeStep      = 2.0
	nudgeStepLarge = 10.0
)
