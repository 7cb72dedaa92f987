package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_received_total",
		Help: "Inbound transport events handled, by event name.",
	}, []string{"event"})

	emitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_emits_total",
		Help: "Outbound emissions to resolved sessions, by event name.",
	}, []string{"event"})

	unroutableTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_emits_unroutable_total",
		Help: "Emissions skipped because the target had no live session.",
	})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_rejected_total",
		Help: "Inbound events dropped by payload validation, by event name.",
	}, []string{"event"})
)
