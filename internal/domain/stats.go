package domain

import "time"

// CycleStats holds counters for one fetch→filter→dispatch cycle.
type CycleStats struct {
	SourceID  string
	Fetched   int
	Novel     int
	Delivered int
	Rejected  int
	Errors    int
	Published int
	Duration  time.Duration
}
