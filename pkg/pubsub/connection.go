package pubsub

import (
	"context"

	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/model"
	"github.com/cuemby/pubsubcore/pkg/transport"
)

// AddConnection validates the transport profile, deep-copies cfg, opens a
// channel, and links the resulting Connection (§4.2).
func (m *Manager) AddConnection(cfg *model.ConnectionConfig) (uint32, error) {
	return withLock(m, "add_connection", func() (uint32, error) {
		return m.addConnectionLocked(cfg)
	})
}

func (m *Manager) addConnectionLocked(cfg *model.ConnectionConfig) (uint32, error) {
	if cfg == nil {
		return 0, model.NewError(model.StatusInvalidArgument)
	}

	handler, ok := m.transportRegistry.Lookup(cfg.TransportProfileURI)
	if !ok {
		return 0, model.NewError(model.StatusNotFound)
	}

	cloned := cfg.Clone()
	conn := &model.Connection{
		Config: cloned,
	}
	m.connections = append(m.connections, conn)

	ch, err := handler.CreateChannel(context.Background(), cloned)
	if err != nil {
		m.connections = m.connections[:len(m.connections)-1]
		return 0, model.Wrap(model.StatusInternalError, err)
	}

	if isMQTTProfile(cloned.TransportProfileURI) {
		ch.OnPublishReceived = m.handleMQTTPublish
	}

	conn.ChannelHandle = ch
	conn.ID = m.generateUniqueNodeIdLocked()

	m.notifyAddConnection(conn)
	metrics.ConnectionsTotal.Set(float64(len(m.connections)))
	m.publishEvent(&events.Event{Type: events.EventConnectionAdded, Message: cloned.Name})

	return conn.ID, nil
}

func isMQTTProfile(uri string) bool {
	return uri == model.ProfileMQTTUADP || uri == model.ProfileMQTTJSON
}

// handleMQTTPublish is the server-side slot wired into an MQTT channel's
// publish-received callback (§4.2). Dispatching the payload into the
// message pipeline is out of scope for this core; this only logs receipt
// so the wiring itself is exercised.
func (m *Manager) handleMQTTPublish(topic string, payload []byte) {
	m.log.Debug().Str("topic", topic).Int("bytes", len(payload)).Msg("mqtt publish received")
}

// RemoveConnection cascades removal of every WriterGroup and ReaderGroup
// owned by the connection, then unlinks it (§4.2).
func (m *Manager) RemoveConnection(id uint32) error {
	_, err := withLock(m, "remove_connection", func() (struct{}, error) {
		return struct{}{}, m.removeConnectionLocked(id)
	})
	return err
}

func (m *Manager) removeConnectionLocked(id uint32) error {
	idx, conn := m.findConnectionIndexLocked(id)
	if conn == nil {
		return model.NewError(model.StatusNotFound)
	}

	for _, wgID := range writerGroupIDs(conn) {
		m.forceUnfreezeWriterGroupLocked(wgID)
		_ = m.removeWriterGroupLocked(conn.ID, wgID)
	}
	for _, rgID := range readerGroupIDs(conn) {
		m.forceUnfreezeReaderGroupLocked(rgID)
		_ = m.removeReaderGroupLocked(conn.ID, rgID)
	}

	m.notifyRemoveConnection(id)
	m.connections = append(m.connections[:idx], m.connections[idx+1:]...)
	metrics.ConnectionsTotal.Set(float64(len(m.connections)))
	m.publishEvent(&events.Event{Type: events.EventConnectionRemoved})

	return nil
}

func writerGroupIDs(conn *model.Connection) []uint32 {
	ids := make([]uint32, len(conn.WriterGroups))
	for i, wg := range conn.WriterGroups {
		ids[i] = wg.ID
	}
	return ids
}

func readerGroupIDs(conn *model.Connection) []uint32 {
	ids := make([]uint32, len(conn.ReaderGroups))
	for i, rg := range conn.ReaderGroups {
		ids[i] = rg.ID
	}
	return ids
}

// forceUnfreezeWriterGroupLocked disables a WriterGroup ahead of the
// connection-removal cascade, so the frozen-configuration check in
// removeWriterGroupLocked doesn't block the shutdown (§4.2).
func (m *Manager) forceUnfreezeWriterGroupLocked(id uint32) {
	if _, wg := m.findWriterGroupIndexLocked(id); wg != nil {
		wg.State = model.WriterGroupStateDisabled
		wg.DisableCause = model.DisableCauseShutdown
		wg.ConfigurationFrozen = false
	}
}

func (m *Manager) forceUnfreezeReaderGroupLocked(id uint32) {
	if _, rg := m.findReaderGroupIndexLocked(id); rg != nil {
		rg.State = model.WriterGroupStateDisabled
		rg.DisableCause = model.DisableCauseShutdown
		rg.ConfigurationFrozen = false
	}
}

// RegisterConnection is idempotent: a connection already marked registered
// returns success without touching the channel again (§4.2, P7).
func (m *Manager) RegisterConnection(id uint32, readerCfg *model.ReaderGroupConfig) error {
	_, err := withLock(m, "register_connection", func() (struct{}, error) {
		return struct{}{}, m.registerConnectionLocked(id, readerCfg)
	})
	return err
}

func (m *Manager) registerConnectionLocked(id uint32, readerCfg *model.ReaderGroupConfig) error {
	_, conn := m.findConnectionIndexLocked(id)
	if conn == nil {
		return model.NewError(model.StatusNotFound)
	}
	if conn.IsRegistered {
		return nil
	}

	handler, ok := m.transportRegistry.Lookup(conn.Config.TransportProfileURI)
	if !ok {
		conn.IsRegistered = true
		return model.NewError(model.StatusNotFound)
	}

	ch, ok := conn.ChannelHandle.(*transport.Channel)
	if !ok {
		conn.IsRegistered = true
		return model.NewError(model.StatusInternalError)
	}

	err := handler.Register(context.Background(), ch, readerCfg)
	conn.IsRegistered = true
	if err != nil {
		return model.Wrap(model.StatusInternalError, err)
	}
	return nil
}

// FindConnectionById performs the linear scan §4.2 calls for.
func (m *Manager) FindConnectionById(id uint32) *model.Connection {
	return withRLock(m, "find_connection_by_id", func() *model.Connection {
		_, conn := m.findConnectionIndexLocked(id)
		return conn
	})
}

func (m *Manager) findConnectionIndexLocked(id uint32) (int, *model.Connection) {
	for i, c := range m.connections {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}
