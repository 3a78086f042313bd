// Package events is a lifecycle event bus the manager publishes to on
// every create/destroy of a tracked entity, kept separate from the narrow
// Mirror collaborator (pkg/pubsub.Mirror) — the mirror projects entities
// into the OPC UA address space synchronously and can fail a call; this
// bus is best-effort, async, and for observability only.
//
// Adapted from the teacher's pkg/events/events.go: same Broker mechanics
// (buffered fan-out channel, per-subscriber buffered channels, drop-on-full
// delivery), repointed at PubSub lifecycle events instead of cluster
// orchestration events.
package events

import (
	"sync"
	"time"

	"github.com/cuemby/pubsubcore/pkg/log"
)

// Buffer sizes for the broker's internal queue and each subscriber's
// mailbox. Once a subscriber's mailbox holds subscriberBufSize undelivered
// events, further events are dropped for it rather than stalling Publish.
const (
	brokerQueueSize   = 100
	subscriberBufSize = 50
)

// EventType identifies what happened to which kind of entity.
type EventType string

const (
	EventConnectionAdded               EventType = "connection.added"
	EventConnectionRemoved             EventType = "connection.removed"
	EventWriterGroupAdded              EventType = "writer_group.added"
	EventWriterGroupRemoved            EventType = "writer_group.removed"
	EventDataSetWriterAdded            EventType = "dataset_writer.added"
	EventDataSetWriterRemoved          EventType = "dataset_writer.removed"
	EventReaderGroupAdded              EventType = "reader_group.added"
	EventReaderGroupRemoved            EventType = "reader_group.removed"
	EventDataSetReaderAdded            EventType = "dataset_reader.added"
	EventDataSetReaderRemoved          EventType = "dataset_reader.removed"
	EventPublishedDataSetAdded         EventType = "published_dataset.added"
	EventPublishedDataSetRemoved       EventType = "published_dataset.removed"
	EventStandaloneSubscribedAdded     EventType = "standalone_subscribed_dataset.added"
	EventStandaloneSubscribedRemoved   EventType = "standalone_subscribed_dataset.removed"
	EventReservationReclaimed          EventType = "reservation.reclaimed"
	EventReaderTimeoutFired            EventType = "reader.timeout_fired"
)

// Event is one occurrence published to the bus.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Message   string
	Metadata  map[string]string
}

// Subscriber is a channel that receives events.
type Subscriber chan *Event

// Broker fans lifecycle events out to every registered Subscriber. Publish
// hands off to an internal queue goroutine so a caller holding the
// manager's lock never waits on a slow or absent subscriber; a subscriber
// that can't keep up just misses events rather than backing up the bus.
type Broker struct {
	mu        sync.RWMutex
	listeners map[Subscriber]struct{}
	queue     chan *Event
	done      chan struct{}
}

// NewBroker returns an unstarted Broker; call Start to begin delivery.
func NewBroker() *Broker {
	return &Broker{
		listeners: make(map[Subscriber]struct{}),
		queue:     make(chan *Event, brokerQueueSize),
		done:      make(chan struct{}),
	}
}

// Start spins up the delivery goroutine.
func (b *Broker) Start() {
	logger := log.WithComponent("events")
	go func() {
		for {
			select {
			case evt := <-b.queue:
				b.deliver(evt)
			case <-b.done:
				logger.Debug().Msg("event broker stopped")
				return
			}
		}
	}()
}

// Stop halts delivery; pending queued events are dropped.
func (b *Broker) Stop() {
	close(b.done)
}

// Subscribe registers a new listener and returns its mailbox.
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, subscriberBufSize)
	b.listeners[sub] = struct{}{}
	return sub
}

// Unsubscribe removes and closes a listener's mailbox.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners, sub)
	close(sub)
}

// Publish stamps event.Timestamp if unset and queues it for delivery.
// Never blocks beyond the queue's own buffer.
func (b *Broker) Publish(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case b.queue <- event:
	case <-b.done:
	}
}

// deliver fans evt out to every listener's mailbox, dropping it for any
// listener whose mailbox is currently full.
func (b *Broker) deliver(evt *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.listeners {
		select {
		case sub <- evt:
		default:
		}
	}
}

// SubscriberCount returns the number of registered listeners.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
