package tui

import "time"

const (
	// revealInterval paces the one-path-per-tick reveal of the fetched
	// listing into the tree.
	revealInterval = 120 * time.Millisecond

	// analysisDelay is the fixed wait before the extension summary is
	// computed from the full listing, independent of reveal progress.
	analysisDelay = 1000 * time.Millisecond

	spinnerInterval = 120 * time.Millisecond

	headerHeight = 3
	footerHeight = 2

	minContentHeight = 3

	modalWidth            = 52
	modalBarWidth         = 18
	modalMaxExtensionRows = 8
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}
