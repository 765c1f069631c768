package event

import (
	"sync"

	"github.com/robgonnella/portprobe/internal/logger"
)

type listener struct {
	id        int
	eventType EventType
	channel   chan Event
	mux       sync.Mutex
	queue     []Event
	removed   bool
	wake      chan struct{}
	drained   chan struct{}
}

func newListener(id int, eventType EventType, channel chan Event) *listener {
	l := &listener{
		id:        id,
		eventType: eventType,
		channel:   channel,
		queue:     []Event{},
		wake:      make(chan struct{}, 1),
		drained:   make(chan struct{}),
	}

	go l.pump()

	return l
}

func (l *listener) push(evt Event) {
	l.mux.Lock()
	l.queue = append(l.queue, evt)
	l.mux.Unlock()
	l.signal()
}

func (l *listener) remove() {
	l.mux.Lock()
	l.removed = true
	l.mux.Unlock()
	l.signal()
}

func (l *listener) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// pump forwards queued events to the listener channel in the order they
// were sent and exits once the listener is removed and the queue is empty
func (l *listener) pump() {
	defer close(l.drained)

	for {
		l.mux.Lock()

		if len(l.queue) == 0 {
			removed := l.removed
			l.mux.Unlock()

			if removed {
				return
			}

			<-l.wake
			continue
		}

		evt := l.queue[0]
		l.queue = l.queue[1:]
		l.mux.Unlock()

		l.channel <- evt
	}
}

// EventManager implements the Manager interface. Each listener has its own
// queue so Send never blocks on a slow listener, and events reach a
// listener in the order they were sent.
type EventManager struct {
	listeners []*listener
	nextID    int
	log       logger.Logger
	mux       sync.RWMutex
}

// NewEventManager returns a new instance of EventManager
func NewEventManager() *EventManager {
	return &EventManager{
		listeners: []*listener{},
		nextID:    1,
		log:       logger.New(),
		mux:       sync.RWMutex{},
	}
}

// RegisterListener registers a channel to receive events of the given type
func (m *EventManager) RegisterListener(eventType EventType, channel chan Event) int {
	m.mux.Lock()
	defer m.mux.Unlock()

	l := newListener(m.nextID, eventType, channel)

	m.listeners = append(m.listeners, l)
	m.nextID++

	return l.id
}

// RemoveListener removes a registered listener. Events sent before removal
// are still delivered and RemoveListener returns once they have all been
// received, so the caller must keep reading the channel until it returns.
func (m *EventManager) RemoveListener(id int) int {
	m.mux.Lock()

	listeners := []*listener{}
	var removed *listener

	for _, l := range m.listeners {
		if l.id == id {
			removed = l
			continue
		}

		listeners = append(listeners, l)
	}

	m.listeners = listeners

	m.mux.Unlock()

	if removed != nil {
		removed.remove()
		<-removed.drained
	}

	return id
}

// Send queues an event for every listener registered for its type
func (m *EventManager) Send(evt Event) {
	m.mux.RLock()
	defer m.mux.RUnlock()

	for _, l := range m.listeners {
		if l.eventType == evt.Type {
			l.push(evt)
		}
	}
}

// ReportFatalError sends a fatal error event
func (m *EventManager) ReportFatalError(err error) {
	m.log.Error().Err(err).Msg("fatal error")

	m.Send(Event{
		Type:    FatalErrorEventType,
		Payload: err,
	})
}

// ReportError sends a non-fatal error event
func (m *EventManager) ReportError(err error) {
	m.log.Warn().Err(err).Msg("error")

	m.Send(Event{
		Type:    ErrorEventType,
		Payload: err,
	})
}
