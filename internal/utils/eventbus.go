package utils

import (
	"sync"
)

// Pipeline event names published on the bus. Collaborators (websocket push,
// notification senders) subscribe to these; the core never blocks on them.
const (
	EventMessageIngested    = "message_ingested"
	EventEnrichmentComplete = "enrichment_complete"
	EventEnrichmentFailed   = "enrichment_failed"
)

type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type Handler func(event Event)

type EventBus struct {
	subscribers map[string][]Handler
	events      chan Event
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]Handler),
		events:      make(chan Event, 100),
	}
}

// Publish is non-blocking: when the buffer is full the event is dropped,
// subscribers are advisory listeners and must not stall ingestion.
func (eb *EventBus) Publish(event string, data interface{}) {
	e := Event{Event: event, Data: data}

	eb.mu.RLock()
	handlers := eb.subscribers[event]
	eb.mu.RUnlock()
	for _, h := range handlers {
		h(e)
	}

	select {
	case eb.events <- e:
	default:
	}
}

func (eb *EventBus) Subscribe(event string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[event] = append(eb.subscribers[event], handler)
}

func (eb *EventBus) SubscribeCh() <-chan Event {
	return eb.events
}
