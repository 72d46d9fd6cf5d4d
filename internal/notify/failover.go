package notify

import (
	"sync"
	"sync/atomic"
	"time"

	"homeserv/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverPublisher routes notifications through the primary emitter and
// falls back to the secondary when the primary is down. After a recovery
// window it probes the primary again.
type FailoverPublisher struct {
	primary  domain.EventPublisher
	fallback domain.EventPublisher
	logger   *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
	recovery  time.Duration
}

func NewFailoverPublisher(primary, fallback domain.EventPublisher, logger *zerolog.Logger) *FailoverPublisher {
	return &FailoverPublisher{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		recovery: time.Minute,
	}
}

func (p *FailoverPublisher) PublishJSON(eventType string, payload interface{}) error {
	if !p.isDown.Load() || p.shouldProbe() {
		err := p.primary.PublishJSON(eventType, payload)
		if err == nil {
			p.isDown.Store(false)
			return nil
		}
		p.logger.Error().Err(err).Str("event_type", eventType).
			Msg("primary emitter failed, falling back")
		p.markDown()
	}

	return p.fallback.PublishJSON(eventType, payload)
}

func (p *FailoverPublisher) markDown() {
	p.isDown.Store(true)
	p.mu.Lock()
	p.lastCheck = time.Now()
	p.mu.Unlock()
}

func (p *FailoverPublisher) shouldProbe() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Since(p.lastCheck) > p.recovery
}
