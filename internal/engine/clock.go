package engine

import "time"

// Clock supplies the current local time. The rollover state machine is
// driven entirely by comparing stored day-keys against Clock readings,
// so tests can cross day and week boundaries with a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock used outside tests.
var SystemClock Clock = systemClock{}
