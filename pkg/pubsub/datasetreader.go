package pubsub

import (
	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/model"
)

// AddDataSetReader links a new DataSetReader under readerGroupId. The
// monitoring callback and timer handle stay unset until createMonitoring/
// startMonitoring are called (§4.6, §4.8).
func (m *Manager) AddDataSetReader(readerGroupID uint32, cfg *model.DataSetReaderConfig) (uint32, error) {
	return withLock(m, "add_dataset_reader", func() (uint32, error) {
		return m.addDataSetReaderLocked(readerGroupID, cfg)
	})
}

func (m *Manager) addDataSetReaderLocked(readerGroupID uint32, cfg *model.DataSetReaderConfig) (uint32, error) {
	if cfg == nil {
		return 0, model.NewError(model.StatusInvalidArgument)
	}

	rg := m.findReaderGroupByIDLocked(readerGroupID)
	if rg == nil {
		return 0, model.NewError(model.StatusNotFound)
	}
	if rg.ConfigurationFrozen {
		return 0, model.NewError(model.StatusConfigurationError)
	}

	dsr := &model.DataSetReader{
		ReaderGroupID: readerGroupID,
		Config:        cfg.Clone(),
		State:         model.WriterGroupStateDisabled,
	}
	dsr.ID = m.generateUniqueNodeIdLocked()
	rg.DataSetReaders = append(rg.DataSetReaders, dsr)

	m.notifyAddDataSetReader(dsr)
	metrics.DataSetReadersTotal.Set(float64(m.countDataSetReadersLocked()))
	m.publishEvent(&events.Event{Type: events.EventDataSetReaderAdded, Message: dsr.Config.Name})

	return dsr.ID, nil
}

// RemoveDataSetReader stops any in-flight monitoring before unlinking, so a
// pending timer fire can't dereference a freed reader (§4.8, §5).
func (m *Manager) RemoveDataSetReader(readerGroupID, id uint32) error {
	_, err := withLock(m, "remove_dataset_reader", func() (struct{}, error) {
		return struct{}{}, m.removeDataSetReaderLocked(readerGroupID, id)
	})
	return err
}

func (m *Manager) removeDataSetReaderLocked(readerGroupID, id uint32) error {
	rg := m.findReaderGroupByIDLocked(readerGroupID)
	if rg == nil {
		return model.NewError(model.StatusNotFound)
	}

	idx := -1
	for i, dsr := range rg.DataSetReaders {
		if dsr.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return model.NewError(model.StatusNotFound)
	}

	dsr := rg.DataSetReaders[idx]
	dsr.ShuttingDown = true
	if dsr.TimerHandle != 0 {
		m.stopMonitoringLocked(dsr)
	}

	m.notifyRemoveDataSetReader(id)
	rg.DataSetReaders = append(rg.DataSetReaders[:idx], rg.DataSetReaders[idx+1:]...)
	metrics.DataSetReadersTotal.Set(float64(m.countDataSetReadersLocked()))
	m.publishEvent(&events.Event{Type: events.EventDataSetReaderRemoved})

	return nil
}

// FindDataSetReaderById scans the full connection graph (§4.8).
func (m *Manager) FindDataSetReaderById(id uint32) *model.DataSetReader {
	return withRLock(m, "find_dataset_reader_by_id", func() *model.DataSetReader {
		_, dsr := m.findDataSetReaderLocked(id)
		return dsr
	})
}

func (m *Manager) findReaderGroupByIDLocked(id uint32) *model.ReaderGroup {
	_, rg := m.findReaderGroupIndexLocked(id)
	return rg
}

func (m *Manager) findDataSetReaderLocked(id uint32) (*model.ReaderGroup, *model.DataSetReader) {
	for _, conn := range m.connections {
		for _, rg := range conn.ReaderGroups {
			for _, dsr := range rg.DataSetReaders {
				if dsr.ID == id {
					return rg, dsr
				}
			}
		}
	}
	return nil, nil
}

func (m *Manager) countDataSetReadersLocked() int {
	n := 0
	for _, conn := range m.connections {
		for _, rg := range conn.ReaderGroups {
			n += len(rg.DataSetReaders)
		}
	}
	return n
}
