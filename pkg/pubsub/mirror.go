package pubsub

import "github.com/cuemby/pubsubcore/pkg/model"

// Mirror is the address-space mirror collaborator (§6): when present, the
// manager notifies it on every create/destroy and may defer node-id
// generation to it. A nil Mirror is a fully supported configuration — the
// manager falls back to its own counter for ids and simply skips
// notification.
//
// Kept deliberately narrow (§9 design note): these are notification hooks,
// not a two-way API, so the core stays testable without a running OPC UA
// server.
type Mirror interface {
	// GenerateNodeID optionally supplies a node id so the returned entity
	// id also designates a real address-space node. ok=false tells the
	// manager to fall back to its internal counter.
	GenerateNodeID() (id uint32, ok bool)

	AddConnectionRepresentation(conn *model.Connection)
	RemoveConnectionRepresentation(id uint32)

	AddWriterGroupRepresentation(wg *model.WriterGroup)
	RemoveWriterGroupRepresentation(id uint32)

	AddDataSetWriterRepresentation(dsw *model.DataSetWriter)
	RemoveDataSetWriterRepresentation(id uint32)

	AddReaderGroupRepresentation(rg *model.ReaderGroup)
	RemoveReaderGroupRepresentation(id uint32)

	AddDataSetReaderRepresentation(dsr *model.DataSetReader)
	RemoveDataSetReaderRepresentation(id uint32)

	AddPublishedDataSetRepresentation(pds *model.PublishedDataSet)
	RemovePublishedDataSetRepresentation(id uint32)

	AddStandaloneSubscribedDataSetRepresentation(sds *model.StandaloneSubscribedDataSet)
	RemoveStandaloneSubscribedDataSetRepresentation(id uint32)
}

func (m *Manager) notifyAddConnection(conn *model.Connection) {
	if m.mirror != nil {
		m.mirror.AddConnectionRepresentation(conn)
	}
}

func (m *Manager) notifyRemoveConnection(id uint32) {
	if m.mirror != nil {
		m.mirror.RemoveConnectionRepresentation(id)
	}
}

func (m *Manager) notifyAddWriterGroup(wg *model.WriterGroup) {
	if m.mirror != nil {
		m.mirror.AddWriterGroupRepresentation(wg)
	}
}

func (m *Manager) notifyRemoveWriterGroup(id uint32) {
	if m.mirror != nil {
		m.mirror.RemoveWriterGroupRepresentation(id)
	}
}

func (m *Manager) notifyAddDataSetWriter(dsw *model.DataSetWriter) {
	if m.mirror != nil {
		m.mirror.AddDataSetWriterRepresentation(dsw)
	}
}

func (m *Manager) notifyRemoveDataSetWriter(id uint32) {
	if m.mirror != nil {
		m.mirror.RemoveDataSetWriterRepresentation(id)
	}
}

func (m *Manager) notifyAddReaderGroup(rg *model.ReaderGroup) {
	if m.mirror != nil {
		m.mirror.AddReaderGroupRepresentation(rg)
	}
}

func (m *Manager) notifyRemoveReaderGroup(id uint32) {
	if m.mirror != nil {
		m.mirror.RemoveReaderGroupRepresentation(id)
	}
}

func (m *Manager) notifyAddDataSetReader(dsr *model.DataSetReader) {
	if m.mirror != nil {
		m.mirror.AddDataSetReaderRepresentation(dsr)
	}
}

func (m *Manager) notifyRemoveDataSetReader(id uint32) {
	if m.mirror != nil {
		m.mirror.RemoveDataSetReaderRepresentation(id)
	}
}

func (m *Manager) notifyAddPublishedDataSet(pds *model.PublishedDataSet) {
	if m.mirror != nil {
		m.mirror.AddPublishedDataSetRepresentation(pds)
	}
}

func (m *Manager) notifyRemovePublishedDataSet(id uint32) {
	if m.mirror != nil {
		m.mirror.RemovePublishedDataSetRepresentation(id)
	}
}

func (m *Manager) notifyAddStandaloneSubscribedDataSet(sds *model.StandaloneSubscribedDataSet) {
	if m.mirror != nil {
		m.mirror.AddStandaloneSubscribedDataSetRepresentation(sds)
	}
}

func (m *Manager) notifyRemoveStandaloneSubscribedDataSet(id uint32) {
	if m.mirror != nil {
		m.mirror.RemoveStandaloneSubscribedDataSetRepresentation(id)
	}
}
