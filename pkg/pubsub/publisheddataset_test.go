package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pubsubcore/pkg/model"
)

func TestAddPublishedDataSetDuplicateName(t *testing.T) {
	m := newTestManager(t)

	_, _, err := m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "x", Type: model.DataSetTypePublishedItems})
	require.NoError(t, err)

	_, _, err = m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "x", Type: model.DataSetTypePublishedItems})
	assert.Equal(t, model.StatusBrowseNameDuplicated, model.StatusOf(err))
}

func TestAddPublishedDataSetRejectsPublishedEvents(t *testing.T) {
	m := newTestManager(t)
	_, _, err := m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "e", Type: model.DataSetTypePublishedEvents})
	assert.Equal(t, model.StatusNotSupported, model.StatusOf(err))
	assert.Len(t, m.publishedDataSets, 0)
}

func TestAddPublishedDataSetRejectsTemplateVariants(t *testing.T) {
	m := newTestManager(t)
	_, _, err := m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "t", Type: model.DataSetTypePublishedItemsTemplate})
	assert.Equal(t, model.StatusInternalError, model.StatusOf(err))
}

func TestAddPublishedDataSetRejectsEmptyName(t *testing.T) {
	m := newTestManager(t)
	_, _, err := m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "", Type: model.DataSetTypePublishedItems})
	assert.Equal(t, model.StatusInvalidArgument, model.StatusOf(err))
}

func TestAddPublishedDataSetDerivesConfigurationVersion(t *testing.T) {
	m := newTestManager(t)
	_, meta, err := m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "x", Type: model.DataSetTypePublishedItems})
	require.NoError(t, err)
	assert.NotZero(t, meta.ConfigurationVersion.Major)
	assert.NotZero(t, meta.ConfigurationVersion.Minor)
	assert.Equal(t, "x", meta.Name)
	assert.Nil(t, meta.DataSetClassID)
}

func TestRemovePublishedDataSetCascadesWriters(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	wgID, err := m.AddWriterGroup(connID, &model.WriterGroupConfig{Name: "wg1"})
	require.NoError(t, err)
	pdsID, _, err := m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "pds1", Type: model.DataSetTypePublishedItems})
	require.NoError(t, err)
	dswID, err := m.AddDataSetWriter(wgID, &model.DataSetWriterConfig{Name: "dsw1", ConnectedDataSet: &pdsID})
	require.NoError(t, err)

	require.NoError(t, m.RemovePublishedDataSet(pdsID))

	assert.Nil(t, m.FindPDSById(pdsID))
	assert.Nil(t, m.FindDataSetWriterById(dswID))
}

func TestRemovePublishedDataSetNotFound(t *testing.T) {
	m := newTestManager(t)
	err := m.RemovePublishedDataSet(42)
	assert.Equal(t, model.StatusNotFound, model.StatusOf(err))
}

func TestAddAndRemoveRoundTrip(t *testing.T) {
	// Scenario 1 (§8): add-and-remove round trip.
	m := newTestManager(t)

	connID := addTestConnection(t, m, "c1")
	pdsID, _, err := m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "pds1", Type: model.DataSetTypePublishedItems})
	require.NoError(t, err)

	wgID, err := m.AddWriterGroup(connID, &model.WriterGroupConfig{Name: "wg1", PublishingInterval: 0})
	require.NoError(t, err)

	dswID, err := m.AddDataSetWriter(wgID, &model.DataSetWriterConfig{ConnectedDataSet: &pdsID})
	require.NoError(t, err)
	assert.NotZero(t, dswID)

	require.NoError(t, m.RemoveConnection(connID))

	assert.NotNil(t, m.FindPDSById(pdsID))
	assert.Nil(t, m.FindConnectionById(connID))
}
