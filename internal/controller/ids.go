package controller

import "time"

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// IDGenerator hands out task ids that look like creation timestamps in
// milliseconds but are strictly increasing, even for calls within the same tick.
type IDGenerator struct {
	now  Clock
	last int64
}

// NewIDGenerator creates a generator that never returns an id <= floor.
func NewIDGenerator(now Clock, floor int64) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now, last: floor}
}

// Next returns a fresh id.
func (g *IDGenerator) Next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
