// Package pubsub implements the PubSubManager root aggregate: the
// Connection/WriterGroup/DataSetWriter/ReaderGroup/DataSetReader object
// graph, the PublishedDataSet and StandaloneSubscribedDataSet registries,
// the transport-scoped ReserveId allocator, and the per-reader
// receive-timeout monitor.
//
// Grounded on the teacher's pkg/manager.Manager: a single struct owning
// every collection behind one lock, with a thin locking wrapper standing
// in for the teacher's Raft-backed Apply entry point (there is no
// distributed-consensus requirement here, so the wrapper is a plain
// sync.RWMutex critical section — see DESIGN.md).
package pubsub

import (
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/eventloop"
	"github.com/cuemby/pubsubcore/pkg/log"
	"github.com/cuemby/pubsubcore/pkg/model"
	"github.com/cuemby/pubsubcore/pkg/session"
	"github.com/cuemby/pubsubcore/pkg/transport"
)

// Manager is the PubSubManager root aggregate. Every field below is
// protected by mu; the withLock/withRLock helpers (lock.go) are the
// only sanctioned way to touch them from outside this package.
type Manager struct {
	mu sync.RWMutex

	transportRegistry *transport.Registry
	eventLoop         *eventloop.EventLoop
	sessions          *session.Registry
	eventBroker       *events.Broker
	mirror            Mirror

	log zerolog.Logger

	nextNodeID uint32

	defaultPublisherID model.PublisherID

	connections                  []*model.Connection
	publishedDataSets            []*model.PublishedDataSet
	standaloneSubscribedDataSets []*model.StandaloneSubscribedDataSet
	reserveIDs                   []*model.ReserveID

	// Per-manager "next free" cursors (§9: moved off process-wide statics
	// so two Managers never share allocator state).
	nextWriterGroupID   uint16
	nextDataSetWriterID uint16
}

// Config supplies a Manager's external collaborators. TransportRegistry,
// EventLoop, and Sessions are required; EventBroker and Mirror are
// optional (a nil Mirror falls back to the internal node-id counter, per
// §4.1).
type Config struct {
	TransportRegistry *transport.Registry
	EventLoop         *eventloop.EventLoop
	Sessions          *session.Registry
	EventBroker       *events.Broker
	Mirror            Mirror
}

// New constructs and initializes a Manager (§4.1 init): seeds
// defaultPublisherId from a fresh random UUID and starts both allocator
// cursors at the bottom of the reserved range. Never fails.
func New(cfg Config) *Manager {
	m := &Manager{
		transportRegistry:   cfg.TransportRegistry,
		eventLoop:           cfg.EventLoop,
		sessions:            cfg.Sessions,
		eventBroker:         cfg.EventBroker,
		mirror:              cfg.Mirror,
		log:                 log.WithComponent("pubsub"),
		connections:         nil,
		publishedDataSets:   nil,
		nextWriterGroupID:   model.ReservedIDRangeLow,
		nextDataSetWriterID: model.ReservedIDRangeLow,
	}
	m.defaultPublisherID = model.PublisherID{
		Kind:   model.PublisherIDUInt64,
		UInt64: randomUint64(),
	}
	return m
}

func randomUint64() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[:8])
}

// Destroy cascades removal of every owned entity, in the order the manager
// contract specifies (§3 Lifecycle): connections (cascading), published
// datasets, topic assigns, reserve ids, standalone subscribed datasets.
// Transport layers, security groups, and key storage are external
// collaborators outside this core's scope. Idempotent on an
// already-empty manager.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, conn := range append([]*model.Connection(nil), m.connections...) {
		m.removeConnectionLocked(conn.ID)
	}
	for _, pds := range append([]*model.PublishedDataSet(nil), m.publishedDataSets...) {
		m.removePublishedDataSetLocked(pds.ID)
	}
	// TopicAssigns are owned by ReaderGroups, already gone via connection
	// cascade above; nothing further to free here.
	m.reserveIDs = nil
	for _, sds := range append([]*model.StandaloneSubscribedDataSet(nil), m.standaloneSubscribedDataSets...) {
		m.removeStandaloneSubscribedDataSetLocked(sds.ID)
	}
}

// generateUniqueNodeIdLocked returns a node identifier unique for this
// manager's lifetime (§4.1). Defers to the mirror when one is present and
// willing to supply an id; otherwise increments the internal counter.
func (m *Manager) generateUniqueNodeIdLocked() uint32 {
	if m.mirror != nil {
		if id, ok := m.mirror.GenerateNodeID(); ok {
			return id
		}
	}
	m.nextNodeID++
	return m.nextNodeID
}

func (m *Manager) publishEvent(evt *events.Event) {
	if m.eventBroker != nil {
		m.eventBroker.Publish(evt)
	}
}
