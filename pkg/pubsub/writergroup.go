package pubsub

import (
	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/model"
)

// AddWriterGroup links a new WriterGroup under connectionId (§4.8).
func (m *Manager) AddWriterGroup(connectionID uint32, cfg *model.WriterGroupConfig) (uint32, error) {
	return withLock(m, "add_writer_group", func() (uint32, error) {
		return m.addWriterGroupLocked(connectionID, cfg)
	})
}

func (m *Manager) addWriterGroupLocked(connectionID uint32, cfg *model.WriterGroupConfig) (uint32, error) {
	if cfg == nil {
		return 0, model.NewError(model.StatusInvalidArgument)
	}

	_, conn := m.findConnectionIndexLocked(connectionID)
	if conn == nil {
		return 0, model.NewError(model.StatusNotFound)
	}
	if conn.ConfigurationFrozen {
		return 0, model.NewError(model.StatusConfigurationError)
	}

	cloned := cfg.Clone()
	uri := conn.Config.TransportProfileURI

	if cloned.WriterGroupID == 0 {
		cloned.WriterGroupID = m.nextFreeIDLocked(uri, model.ReserveIDWriterGroup)
	} else if m.isEntityIDTakenLocked(uri, model.ReserveIDWriterGroup, cloned.WriterGroupID) {
		return 0, model.NewError(model.StatusInternalError)
	}

	wg := &model.WriterGroup{
		ConnectionID: connectionID,
		Config:       cloned,
		State:        model.WriterGroupStateDisabled,
	}
	wg.ID = m.generateUniqueNodeIdLocked()
	conn.WriterGroups = append(conn.WriterGroups, wg)

	m.notifyAddWriterGroup(wg)
	metrics.WriterGroupsTotal.Set(float64(m.countWriterGroupsLocked()))
	m.publishEvent(&events.Event{Type: events.EventWriterGroupAdded, Message: cloned.Name})

	return wg.ID, nil
}

// RemoveWriterGroup cascades removal of every owned DataSetWriter, then
// unlinks the group (§4.8).
func (m *Manager) RemoveWriterGroup(connectionID, id uint32) error {
	_, err := withLock(m, "remove_writer_group", func() (struct{}, error) {
		return struct{}{}, m.removeWriterGroupLocked(connectionID, id)
	})
	return err
}

func (m *Manager) removeWriterGroupLocked(connectionID, id uint32) error {
	_, conn := m.findConnectionIndexLocked(connectionID)
	if conn == nil {
		return model.NewError(model.StatusNotFound)
	}

	idx, wg := m.findWriterGroupInConnLocked(conn, id)
	if wg == nil {
		return model.NewError(model.StatusNotFound)
	}
	if wg.ConfigurationFrozen {
		return model.NewError(model.StatusConfigurationError)
	}

	ids := make([]uint32, len(wg.DataSetWriters))
	for i, dsw := range wg.DataSetWriters {
		ids[i] = dsw.ID
	}
	for _, dswID := range ids {
		_ = m.removeDataSetWriterLocked(wg.ID, dswID)
	}

	m.notifyRemoveWriterGroup(id)
	conn.WriterGroups = append(conn.WriterGroups[:idx], conn.WriterGroups[idx+1:]...)
	metrics.WriterGroupsTotal.Set(float64(m.countWriterGroupsLocked()))
	m.publishEvent(&events.Event{Type: events.EventWriterGroupRemoved})

	return nil
}

// FindWriterGroupById scans the full connection graph (§4.8 — a writer
// group's parent is discovered by walking connections, not a stored
// pointer).
func (m *Manager) FindWriterGroupById(id uint32) *model.WriterGroup {
	return withRLock(m, "find_writer_group_by_id", func() *model.WriterGroup {
		_, wg := m.findWriterGroupIndexLocked(id)
		return wg
	})
}

func (m *Manager) findWriterGroupIndexLocked(id uint32) (int, *model.WriterGroup) {
	for _, conn := range m.connections {
		if idx, wg := m.findWriterGroupInConnLocked(conn, id); wg != nil {
			return idx, wg
		}
	}
	return -1, nil
}

func (m *Manager) findWriterGroupInConnLocked(conn *model.Connection, id uint32) (int, *model.WriterGroup) {
	for i, wg := range conn.WriterGroups {
		if wg.ID == id {
			return i, wg
		}
	}
	return -1, nil
}

func (m *Manager) countWriterGroupsLocked() int {
	n := 0
	for _, conn := range m.connections {
		n += len(conn.WriterGroups)
	}
	return n
}
