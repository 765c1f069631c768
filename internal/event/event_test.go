package event_test

import (
	"errors"
	"testing"
	"time"

	"github.com/robgonnella/portprobe/internal/event"
	"github.com/stretchr/testify/assert"
)

func TestEventManager(t *testing.T) {
	t.Run("registers event listener and sends event", func(st *testing.T) {
		eventManager := event.NewEventManager()

		listener := make(chan event.Event)

		eventManager.RegisterListener("test-event", listener)

		eventManager.Send(event.Event{
			Type:    "a-different-type",
			Payload: struct{}{},
		})

		eventManager.Send(event.Event{
			Type:    "test-event",
			Payload: true,
		})

		result := <-listener

		assert.Equal(st, event.EventType("test-event"), result.Type)
		assert.Equal(st, true, result.Payload)
	})

	t.Run("removes event listener", func(st *testing.T) {
		eventManager := event.NewEventManager()

		listener := make(chan event.Event)

		id := eventManager.RegisterListener("test-event", listener)

		removedID := eventManager.RemoveListener(id)

		assert.Equal(st, id, removedID)

		eventManager.Send(event.Event{Type: "test-event"})

		select {
		case <-listener:
			st.Fatal("received event after listener was removed")
		case <-time.After(20 * time.Millisecond):
		}
	})

	t.Run("delivers pending events in order before removal returns", func(st *testing.T) {
		eventManager := event.NewEventManager()

		total := 1000
		listener := make(chan event.Event, total)

		id := eventManager.RegisterListener(event.DiagnosticEventType, listener)

		for i := 0; i < total; i++ {
			eventManager.Send(event.Event{
				Type:    event.DiagnosticEventType,
				Payload: i,
			})
		}

		eventManager.RemoveListener(id)

		assert.Equal(st, total, len(listener))

		for i := 0; i < total; i++ {
			evt := <-listener
			assert.Equal(st, i, evt.Payload)
		}
	})

	t.Run("remove waits for a reader to consume pending events", func(st *testing.T) {
		eventManager := event.NewEventManager()

		listener := make(chan event.Event)
		received := 0
		finished := make(chan struct{})

		id := eventManager.RegisterListener(event.ProbeEventType, listener)

		for i := 0; i < 100; i++ {
			eventManager.Send(event.Event{Type: event.ProbeEventType})
		}

		go func() {
			defer close(finished)

			for range listener {
				received++
			}
		}()

		eventManager.RemoveListener(id)
		close(listener)
		<-finished

		assert.Equal(st, 100, received)
	})

	t.Run("assigns sequential listener ids", func(st *testing.T) {
		eventManager := event.NewEventManager()

		id1 := eventManager.RegisterListener(event.ProbeEventType, make(chan event.Event))
		id2 := eventManager.RegisterListener(event.ReportEventType, make(chan event.Event))

		assert.Equal(st, 1, id1)
		assert.Equal(st, 2, id2)
	})

	t.Run("reports fatal error event", func(st *testing.T) {
		eventManager := event.NewEventManager()

		listener := make(chan event.Event)

		eventManager.RegisterListener(event.FatalErrorEventType, listener)

		eventManager.Send(event.Event{
			Type:    "a-different-type",
			Payload: struct{}{},
		})

		eventManager.ReportFatalError(errors.New("fatal test error"))

		result := <-listener

		assert.Equal(st, event.FatalErrorEventType, result.Type)
	})

	t.Run("reports error event", func(st *testing.T) {
		eventManager := event.NewEventManager()

		listener := make(chan event.Event)

		eventManager.RegisterListener(event.ErrorEventType, listener)

		eventManager.Send(event.Event{
			Type:    "a-different-type",
			Payload: struct{}{},
		})

		testErr := errors.New("test error")

		eventManager.ReportError(testErr)

		result := <-listener

		assert.Equal(st, event.ErrorEventType, result.Type)
		assert.Equal(st, testErr, result.Payload)
	})
}
