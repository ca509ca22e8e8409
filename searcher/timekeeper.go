package searcher

import (
	"checkers/meta"
	"time"
)

// Timekeeper accumulates the thinking time spent over a whole game. It is
// owned by the caller and may be shared by every agent that draws on the same
// total allowance.
type Timekeeper struct {
	spent time.Duration
	limit time.Duration
}

func NewTimekeeper(limit time.Duration) *Timekeeper {
	if limit <= 0 {
		limit = meta.TotalTimeLimit
	}
	return &Timekeeper{limit: limit}
}

func (t *Timekeeper) Add(elapsed time.Duration) {
	t.spent += elapsed
}

func (t *Timekeeper) Spent() time.Duration { return t.spent }
func (t *Timekeeper) Limit() time.Duration { return t.limit }

// Exhausted reports whether the spent time is past the limit.
func (t *Timekeeper) Exhausted() bool {
	return t.spent > t.limit
}
