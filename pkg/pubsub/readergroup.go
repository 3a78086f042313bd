package pubsub

import (
	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/model"
)

// AddReaderGroup links a new ReaderGroup under connectionId. Unlike
// WriterGroups, reader groups carry no wire-id collision rule — their
// identity is the manager-assigned node id (§4.8).
func (m *Manager) AddReaderGroup(connectionID uint32, cfg *model.ReaderGroupConfig) (uint32, error) {
	return withLock(m, "add_reader_group", func() (uint32, error) {
		return m.addReaderGroupLocked(connectionID, cfg)
	})
}

func (m *Manager) addReaderGroupLocked(connectionID uint32, cfg *model.ReaderGroupConfig) (uint32, error) {
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

	rg := &model.ReaderGroup{
		ConnectionID: connectionID,
		Config:       cfg.Clone(),
		State:        model.WriterGroupStateDisabled,
	}
	rg.ID = m.generateUniqueNodeIdLocked()
	conn.ReaderGroups = append(conn.ReaderGroups, rg)

	m.notifyAddReaderGroup(rg)
	metrics.ReaderGroupsTotal.Set(float64(m.countReaderGroupsLocked()))
	m.publishEvent(&events.Event{Type: events.EventReaderGroupAdded, Message: rg.Config.Name})

	return rg.ID, nil
}

// RemoveReaderGroup cascades removal of every owned DataSetReader and
// TopicAssign, then unlinks the group (§4.8, §4.9).
func (m *Manager) RemoveReaderGroup(connectionID, id uint32) error {
	_, err := withLock(m, "remove_reader_group", func() (struct{}, error) {
		return struct{}{}, m.removeReaderGroupLocked(connectionID, id)
	})
	return err
}

func (m *Manager) removeReaderGroupLocked(connectionID, id uint32) error {
	_, conn := m.findConnectionIndexLocked(connectionID)
	if conn == nil {
		return model.NewError(model.StatusNotFound)
	}

	idx, rg := m.findReaderGroupInConnLocked(conn, id)
	if rg == nil {
		return model.NewError(model.StatusNotFound)
	}
	if rg.ConfigurationFrozen {
		return model.NewError(model.StatusConfigurationError)
	}

	ids := make([]uint32, len(rg.DataSetReaders))
	for i, dsr := range rg.DataSetReaders {
		ids[i] = dsr.ID
	}
	for _, dsrID := range ids {
		_ = m.removeDataSetReaderLocked(rg.ID, dsrID)
	}
	rg.TopicAssigns = nil

	m.notifyRemoveReaderGroup(id)
	conn.ReaderGroups = append(conn.ReaderGroups[:idx], conn.ReaderGroups[idx+1:]...)
	metrics.ReaderGroupsTotal.Set(float64(m.countReaderGroupsLocked()))
	m.publishEvent(&events.Event{Type: events.EventReaderGroupRemoved})

	return nil
}

// FindReaderGroupById scans the full connection graph (§4.8).
func (m *Manager) FindReaderGroupById(id uint32) *model.ReaderGroup {
	return withRLock(m, "find_reader_group_by_id", func() *model.ReaderGroup {
		_, rg := m.findReaderGroupIndexLocked(id)
		return rg
	})
}

func (m *Manager) findReaderGroupIndexLocked(id uint32) (int, *model.ReaderGroup) {
	for _, conn := range m.connections {
		if idx, rg := m.findReaderGroupInConnLocked(conn, id); rg != nil {
			return idx, rg
		}
	}
	return -1, nil
}

func (m *Manager) findReaderGroupInConnLocked(conn *model.Connection, id uint32) (int, *model.ReaderGroup) {
	for i, rg := range conn.ReaderGroups {
		if rg.ID == id {
			return i, rg
		}
	}
	return -1, nil
}

func (m *Manager) countReaderGroupsLocked() int {
	n := 0
	for _, conn := range m.connections {
		n += len(conn.ReaderGroups)
	}
	return n
}
