package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pubsubcore/pkg/model"
)

func TestAddDataSetWriterUnknownWriterGroup(t *testing.T) {
	m := newTestManager(t)
	_, err := m.AddDataSetWriter(999, &model.DataSetWriterConfig{Name: "dsw1"})
	assert.Equal(t, model.StatusNotFound, model.StatusOf(err))
}

func TestAddDataSetWriterRejectsOnFrozenWriterGroup(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	wgID, err := m.AddWriterGroup(connID, &model.WriterGroupConfig{Name: "wg1"})
	require.NoError(t, err)

	wg := m.FindWriterGroupById(wgID)
	require.NotNil(t, wg)
	wg.ConfigurationFrozen = true

	_, err = m.AddDataSetWriter(wgID, &model.DataSetWriterConfig{Name: "dsw1"})
	assert.Equal(t, model.StatusConfigurationError, model.StatusOf(err))
}

func TestAddDataSetWriterRejectsDanglingConnectedDataSet(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	wgID, err := m.AddWriterGroup(connID, &model.WriterGroupConfig{Name: "wg1"})
	require.NoError(t, err)

	bogus := uint32(999)
	_, err = m.AddDataSetWriter(wgID, &model.DataSetWriterConfig{Name: "dsw1", ConnectedDataSet: &bogus})
	assert.Equal(t, model.StatusInvalidArgument, model.StatusOf(err))
}

func TestAddDataSetWriterExplicitIDCollision(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	wgID, err := m.AddWriterGroup(connID, &model.WriterGroupConfig{Name: "wg1"})
	require.NoError(t, err)

	_, err = m.AddDataSetWriter(wgID, &model.DataSetWriterConfig{Name: "dsw1", DataSetWriterID: 5})
	require.NoError(t, err)

	_, err = m.AddDataSetWriter(wgID, &model.DataSetWriterConfig{Name: "dsw2", DataSetWriterID: 5})
	assert.Equal(t, model.StatusInternalError, model.StatusOf(err))
}

func TestRemoveDataSetWriterNotFound(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	wgID, err := m.AddWriterGroup(connID, &model.WriterGroupConfig{Name: "wg1"})
	require.NoError(t, err)

	err = m.RemoveDataSetWriter(wgID, 999)
	assert.Equal(t, model.StatusNotFound, model.StatusOf(err))
}

func TestFindDataSetWriterByIdUnknown(t *testing.T) {
	m := newTestManager(t)
	assert.Nil(t, m.FindDataSetWriterById(42))
}
