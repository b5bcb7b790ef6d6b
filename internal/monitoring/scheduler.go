package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/isdelr/salesdash-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const purgeTimeout = time.Minute

// Scheduler runs periodic maintenance: expired audit events are purged on a
// cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	eventSvc  services.EventServiceProvider
	retention time.Duration
	now       func() time.Time
}

// NewScheduler creates a new scheduler instance. spec is a standard cron
// expression or descriptor such as "@daily".
func NewScheduler(eventSvc services.EventServiceProvider, retention time.Duration, spec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		eventSvc:  eventSvc,
		retention: retention,
		now:       time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.purgeExpiredEvents); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the cron loop in the background after one immediate purge.
func (s *Scheduler) Run() {
	log.Info().Dur("retention", s.retention).Msg("Starting background scheduler")
	s.purgeExpiredEvents()
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped background scheduler")
}

func (s *Scheduler) purgeExpiredEvents() {
	if s.retention <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	cutoff := s.now().UTC().Add(-s.retention)
	n, err := s.eventSvc.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("Scheduler: failed to purge events")
		return
	}
	if n > 0 {
		msg := fmt.Sprintf("Purged %d events older than %s", n, cutoff.Format(time.RFC3339))
		log.Info().Int64("purged", n).Msg(msg)
		if err := s.eventSvc.CreateEvent(ctx, "system.events.purge", "info", msg, nil); err != nil {
			log.Error().Err(err).Msg("Scheduler: failed to record purge event")
		}
	}
}
