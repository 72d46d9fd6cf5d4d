package notify

import (
	"errors"

	"homeserv/internal/domain"
)

// Fanout delivers every notification to all targets. Delivery is best
// effort: each target is attempted regardless of earlier failures and the
// errors are joined for the caller's log line.
type Fanout struct {
	targets []domain.EventPublisher
}

func NewFanout(targets ...domain.EventPublisher) *Fanout {
	return &Fanout{targets: targets}
}

func (f *Fanout) PublishJSON(eventType string, payload interface{}) error {
	var errs []error
	for _, t := range f.targets {
		if t == nil {
			continue
		}
		if err := t.PublishJSON(eventType, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
