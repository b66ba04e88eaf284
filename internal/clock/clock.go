package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock abstracts "now" so lock-state and snapshot decisions are testable.
// Engine code never calls time.Now directly.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystemClock returns the wall clock, normalized to UTC.
func NewSystemClock() Clock { return systemClock{} }

// Module wires the system clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
