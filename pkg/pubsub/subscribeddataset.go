package pubsub

import (
	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/model"
)

// AddStandaloneSubscribedDataSet deep-copies cfg and links a new SDS with
// no bound reader (§4.4).
func (m *Manager) AddStandaloneSubscribedDataSet(cfg *model.StandaloneSubscribedDataSetConfig) (uint32, error) {
	return withLock(m, "add_standalone_subscribed_dataset", func() (uint32, error) {
		return m.addStandaloneSubscribedDataSetLocked(cfg)
	})
}

func (m *Manager) addStandaloneSubscribedDataSetLocked(cfg *model.StandaloneSubscribedDataSetConfig) (uint32, error) {
	if cfg == nil {
		return 0, model.NewError(model.StatusInvalidArgument)
	}

	sds := &model.StandaloneSubscribedDataSet{
		Config:          cfg.Clone(),
		ConnectedReader: nil,
		IsConnected:     false,
	}
	sds.ID = m.generateUniqueNodeIdLocked()
	m.standaloneSubscribedDataSets = append(m.standaloneSubscribedDataSets, sds)

	m.notifyAddStandaloneSubscribedDataSet(sds)
	m.publishEvent(&events.Event{Type: events.EventStandaloneSubscribedAdded, Message: sds.Config.Name})

	return sds.ID, nil
}

// RemoveStandaloneSubscribedDataSet removes every DataSetReader whose id
// equals the SDS's ConnectedReader before unlinking the SDS itself (§4.4,
// invariant 5). Reader ids are collected before any removal so the
// iteration never mutates the collection it's walking (§9 open question).
func (m *Manager) RemoveStandaloneSubscribedDataSet(id uint32) error {
	_, err := withLock(m, "remove_standalone_subscribed_dataset", func() (struct{}, error) {
		return struct{}{}, m.removeStandaloneSubscribedDataSetLocked(id)
	})
	return err
}

func (m *Manager) removeStandaloneSubscribedDataSetLocked(id uint32) error {
	idx, sds := m.findSDSIndexLocked(id)
	if sds == nil {
		return model.NewError(model.StatusNotFound)
	}

	if sds.ConnectedReader != nil {
		readerID := *sds.ConnectedReader
		matchIDs := m.findDataSetReaderIDsByIDLocked(readerID)
		for _, dsrID := range matchIDs {
			if rg, dsr := m.findDataSetReaderLocked(dsrID); dsr != nil {
				_ = m.removeDataSetReaderLocked(rg.ID, dsrID)
			}
		}
	}

	m.notifyRemoveStandaloneSubscribedDataSet(id)
	m.standaloneSubscribedDataSets = append(m.standaloneSubscribedDataSets[:idx], m.standaloneSubscribedDataSets[idx+1:]...)
	m.publishEvent(&events.Event{Type: events.EventStandaloneSubscribedRemoved})

	return nil
}

// findDataSetReaderIDsByIDLocked collects every live reader id equal to
// target — normally at most one, but the registry makes no uniqueness
// promise across reader groups, so this walks the whole graph rather than
// stopping at the first match.
func (m *Manager) findDataSetReaderIDsByIDLocked(target uint32) []uint32 {
	var ids []uint32
	for _, conn := range m.connections {
		for _, rg := range conn.ReaderGroups {
			for _, dsr := range rg.DataSetReaders {
				if dsr.ID == target {
					ids = append(ids, dsr.ID)
				}
			}
		}
	}
	return ids
}

func (m *Manager) findSDSIndexLocked(id uint32) (int, *model.StandaloneSubscribedDataSet) {
	for i, s := range m.standaloneSubscribedDataSets {
		if s.ID == id {
			return i, s
		}
	}
	return -1, nil
}

// FindStandaloneSubscribedDataSetById performs the linear scan (§4.4).
func (m *Manager) FindStandaloneSubscribedDataSetById(id uint32) *model.StandaloneSubscribedDataSet {
	return withRLock(m, "find_sds_by_id", func() *model.StandaloneSubscribedDataSet {
		_, sds := m.findSDSIndexLocked(id)
		return sds
	})
}
