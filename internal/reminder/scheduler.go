package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/chat-realtime/internal/models"
	"github.com/fathima-sithara/chat-realtime/internal/router"
)

// EventSource feeds upcoming scheduled events.
type EventSource interface {
	UpcomingEvents(ctx context.Context, from, until time.Time) ([]models.Event, error)
}

// Resolver looks up the live session for a user, when there is one.
type Resolver interface {
	Resolve(identity string) (string, bool)
}

// Emitter delivers an event to one session, best effort.
type Emitter interface {
	Emit(sessionID, event string, payload any)
}

// Scheduler periodically scans for events coming due and pushes a
// reminder notice to the owner and the recipient, whichever of them is
// online. Offline users simply miss the reminder.
type Scheduler struct {
	source    EventSource
	resolver  Resolver
	emitter   Emitter
	interval  time.Duration
	lookahead time.Duration
	now       func() time.Time
	log       *zap.SugaredLogger
}

func NewScheduler(source EventSource, resolver Resolver, emitter Emitter, interval, lookahead time.Duration, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		source:    source,
		resolver:  resolver,
		emitter:   emitter,
		interval:  interval,
		lookahead: lookahead,
		now:       time.Now,
		log:       log,
	}
}

// Run polls until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	events, err := s.source.UpcomingEvents(ctx, now, now.Add(s.lookahead))
	if err != nil {
		s.log.Errorw("load upcoming events", "err", err)
		return
	}
	for _, ev := range events {
		notice := models.ReminderNotice{
			Message: fmt.Sprintf("You have an upcoming event: %s", ev.Description),
			Time:    ev.DateTime,
		}
		s.notify(ev.UserID, notice)
		s.notify(ev.RecipientID, notice)
	}
}

func (s *Scheduler) notify(identity string, notice models.ReminderNotice) {
	if identity == "" {
		return
	}
	sid, ok := s.resolver.Resolve(identity)
	if !ok {
		return
	}
	s.emitter.Emit(sid, router.EventReminder, notice)
}
