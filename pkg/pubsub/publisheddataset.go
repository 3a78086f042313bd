package pubsub

import (
	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/model"
)

// AddPublishedDataSet validates, deep-copies, and links a new
// PublishedDataSet, returning its id and the derived metadata/version
// (§4.3).
func (m *Manager) AddPublishedDataSet(cfg *model.PublishedDataSetConfig) (uint32, model.DataSetMetaData, error) {
	type result struct {
		id   uint32
		meta model.DataSetMetaData
	}
	r, err := withLock(m, "add_published_dataset", func() (result, error) {
		id, meta, err := m.addPublishedDataSetLocked(cfg)
		return result{id: id, meta: meta}, err
	})
	return r.id, r.meta, err
}

func (m *Manager) addPublishedDataSetLocked(cfg *model.PublishedDataSetConfig) (uint32, model.DataSetMetaData, error) {
	if cfg == nil {
		return 0, model.DataSetMetaData{}, model.NewError(model.StatusInvalidArgument)
	}

	switch cfg.Type {
	case model.DataSetTypePublishedItems:
		// supported
	case model.DataSetTypePublishedEvents:
		return 0, model.DataSetMetaData{}, model.NewError(model.StatusNotSupported)
	default:
		return 0, model.DataSetMetaData{}, model.NewError(model.StatusInternalError)
	}

	if cfg.Name == "" {
		return 0, model.DataSetMetaData{}, model.NewError(model.StatusInvalidArgument)
	}
	if m.findPDSByNameLocked(cfg.Name) != nil {
		return 0, model.DataSetMetaData{}, model.NewError(model.StatusBrowseNameDuplicated)
	}

	cloned := cfg.Clone()
	version := newConfigurationVersion()
	meta := model.DataSetMetaData{
		Name:                 cloned.Name,
		Description:          "",
		DataSetClassID:       nil,
		ConfigurationVersion: version,
		Fields:               cloned.Fields,
	}

	pds := &model.PublishedDataSet{
		Config:   cloned,
		MetaData: meta,
	}
	pds.ID = m.generateUniqueNodeIdLocked()
	m.publishedDataSets = append(m.publishedDataSets, pds)

	m.notifyAddPublishedDataSet(pds)
	metrics.PublishedDataSetsTotal.Set(float64(len(m.publishedDataSets)))
	m.publishEvent(&events.Event{Type: events.EventPublishedDataSetAdded, Message: cloned.Name})

	return pds.ID, meta, nil
}

// RemovePublishedDataSet removes every DataSetWriter that references id,
// then unlinks the dataset itself (§4.3, invariant 4).
func (m *Manager) RemovePublishedDataSet(id uint32) error {
	_, err := withLock(m, "remove_published_dataset", func() (struct{}, error) {
		return struct{}{}, m.removePublishedDataSetLocked(id)
	})
	return err
}

func (m *Manager) removePublishedDataSetLocked(id uint32) error {
	idx, pds := m.findPDSIndexLocked(id)
	if pds == nil {
		return model.NewError(model.StatusNotFound)
	}
	if pds.ConfigurationFrozen {
		return model.NewError(model.StatusConfigurationError)
	}

	for _, conn := range m.connections {
		for _, wg := range conn.WriterGroups {
			for _, dsw := range append([]*model.DataSetWriter(nil), wg.DataSetWriters...) {
				if dsw.Config.ConnectedDataSet != nil && *dsw.Config.ConnectedDataSet == id {
					_ = m.removeDataSetWriterLocked(wg.ID, dsw.ID)
				}
			}
		}
	}

	m.notifyRemovePublishedDataSet(id)
	m.publishedDataSets = append(m.publishedDataSets[:idx], m.publishedDataSets[idx+1:]...)
	metrics.PublishedDataSetsTotal.Set(float64(len(m.publishedDataSets)))
	m.publishEvent(&events.Event{Type: events.EventPublishedDataSetRemoved})

	return nil
}

// FindPDSByName performs the linear scan §4.3 calls for.
func (m *Manager) FindPDSByName(name string) *model.PublishedDataSet {
	return withRLock(m, "find_pds_by_name", func() *model.PublishedDataSet {
		return m.findPDSByNameLocked(name)
	})
}

func (m *Manager) findPDSByNameLocked(name string) *model.PublishedDataSet {
	for _, pds := range m.publishedDataSets {
		if pds.Config != nil && pds.Config.Name == name {
			return pds
		}
	}
	return nil
}

// FindPDSById performs the linear scan §4.3 calls for.
func (m *Manager) FindPDSById(id uint32) *model.PublishedDataSet {
	return withRLock(m, "find_pds_by_id", func() *model.PublishedDataSet {
		_, pds := m.findPDSIndexLocked(id)
		return pds
	})
}

func (m *Manager) findPDSIndexLocked(id uint32) (int, *model.PublishedDataSet) {
	for i, p := range m.publishedDataSets {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}
