package negotiation

import (
	"fmt"
	"time"

	"github.com/abhishek622/slotwise/pkg/model"
)

// Policy bounds the time windows a party may propose. The zero value only
// enforces end > start.
type Policy struct {
	MinDuration   time.Duration
	MaxDuration   time.Duration
	RequireFuture bool
}

func DefaultPolicy() Policy {
	return Policy{
		MinDuration:   15 * time.Minute,
		MaxDuration:   4 * time.Hour,
		RequireFuture: true,
	}
}

func (p Policy) Validate(start, end, now time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", model.ErrInvalidTimeRange)
	}
	if p.RequireFuture && !start.After(now) {
		return fmt.Errorf("%w: interview time must be in the future", model.ErrInvalidTimeRange)
	}
	d := end.Sub(start)
	if p.MinDuration > 0 && d < p.MinDuration {
		return fmt.Errorf("%w: interview must be at least %s long", model.ErrInvalidTimeRange, p.MinDuration)
	}
	if p.MaxDuration > 0 && d > p.MaxDuration {
		return fmt.Errorf("%w: interview cannot be longer than %s", model.ErrInvalidTimeRange, p.MaxDuration)
	}
	return nil
}
