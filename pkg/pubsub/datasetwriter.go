package pubsub

import (
	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/model"
)

// AddDataSetWriter links a new DataSetWriter under writerGroupId (§4.8).
// cfg.ConnectedDataSet, if non-nil, must reference a live PublishedDataSet
// (invariant 3).
func (m *Manager) AddDataSetWriter(writerGroupID uint32, cfg *model.DataSetWriterConfig) (uint32, error) {
	return withLock(m, "add_dataset_writer", func() (uint32, error) {
		return m.addDataSetWriterLocked(writerGroupID, cfg)
	})
}

func (m *Manager) addDataSetWriterLocked(writerGroupID uint32, cfg *model.DataSetWriterConfig) (uint32, error) {
	if cfg == nil {
		return 0, model.NewError(model.StatusInvalidArgument)
	}

	conn, wg := m.findConnectionAndWriterGroupLocked(writerGroupID)
	if wg == nil {
		return 0, model.NewError(model.StatusNotFound)
	}
	if wg.ConfigurationFrozen {
		return 0, model.NewError(model.StatusConfigurationError)
	}

	if cfg.ConnectedDataSet != nil {
		if _, pds := m.findPDSIndexLocked(*cfg.ConnectedDataSet); pds == nil {
			return 0, model.NewError(model.StatusInvalidArgument)
		}
	}

	cloned := cfg.Clone()
	uri := conn.Config.TransportProfileURI

	if cloned.DataSetWriterID == 0 {
		cloned.DataSetWriterID = m.nextFreeIDLocked(uri, model.ReserveIDDataSetWriter)
	} else if m.isEntityIDTakenLocked(uri, model.ReserveIDDataSetWriter, cloned.DataSetWriterID) {
		return 0, model.NewError(model.StatusInternalError)
	}

	dsw := &model.DataSetWriter{
		WriterGroupID: wg.ID,
		Config:        cloned,
	}
	dsw.ID = m.generateUniqueNodeIdLocked()
	wg.DataSetWriters = append(wg.DataSetWriters, dsw)

	m.notifyAddDataSetWriter(dsw)
	metrics.DataSetWritersTotal.Set(float64(m.countDataSetWritersLocked()))
	m.publishEvent(&events.Event{Type: events.EventDataSetWriterAdded, Message: cloned.Name})

	return dsw.ID, nil
}

// RemoveDataSetWriter unlinks a DataSetWriter; it owns no children so there
// is no further cascade (§4.8).
func (m *Manager) RemoveDataSetWriter(writerGroupID, id uint32) error {
	_, err := withLock(m, "remove_dataset_writer", func() (struct{}, error) {
		return struct{}{}, m.removeDataSetWriterLocked(writerGroupID, id)
	})
	return err
}

func (m *Manager) removeDataSetWriterLocked(writerGroupID, id uint32) error {
	_, wg := m.findConnectionAndWriterGroupLocked(writerGroupID)
	if wg == nil {
		return model.NewError(model.StatusNotFound)
	}
	if wg.ConfigurationFrozen {
		return model.NewError(model.StatusConfigurationError)
	}

	idx := -1
	for i, dsw := range wg.DataSetWriters {
		if dsw.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.NewError(model.StatusNotFound)
	}

	m.notifyRemoveDataSetWriter(id)
	wg.DataSetWriters = append(wg.DataSetWriters[:idx], wg.DataSetWriters[idx+1:]...)
	metrics.DataSetWritersTotal.Set(float64(m.countDataSetWritersLocked()))
	m.publishEvent(&events.Event{Type: events.EventDataSetWriterRemoved})

	return nil
}

// FindDataSetWriterById scans the full connection graph (§4.8).
func (m *Manager) FindDataSetWriterById(id uint32) *model.DataSetWriter {
	return withRLock(m, "find_dataset_writer_by_id", func() *model.DataSetWriter {
		_, dsw := m.findDataSetWriterIndexLocked(id)
		return dsw
	})
}

func (m *Manager) findConnectionAndWriterGroupLocked(writerGroupID uint32) (*model.Connection, *model.WriterGroup) {
	for _, conn := range m.connections {
		if _, wg := m.findWriterGroupInConnLocked(conn, writerGroupID); wg != nil {
			return conn, wg
		}
	}
	return nil, nil
}

func (m *Manager) findDataSetWriterIndexLocked(id uint32) (int, *model.DataSetWriter) {
	for _, conn := range m.connections {
		for _, wg := range conn.WriterGroups {
			for i, dsw := range wg.DataSetWriters {
				if dsw.ID == id {
					return i, dsw
				}
			}
		}
	}
	return -1, nil
}

func (m *Manager) countDataSetWritersLocked() int {
	n := 0
	for _, conn := range m.connections {
		for _, wg := range conn.WriterGroups {
			n += len(wg.DataSetWriters)
		}
	}
	return n
}
