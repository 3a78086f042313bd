package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pubsubcore/pkg/model"
)

func TestAddStandaloneSubscribedDataSetDeepCopiesConfig(t *testing.T) {
	m := newTestManager(t)
	cfg := &model.StandaloneSubscribedDataSetConfig{Name: "sds1"}
	id, err := m.AddStandaloneSubscribedDataSet(cfg)
	require.NoError(t, err)

	cfg.Name = "mutated"
	sds := m.FindStandaloneSubscribedDataSetById(id)
	require.NotNil(t, sds)
	assert.Equal(t, "sds1", sds.Config.Name)
	assert.False(t, sds.IsConnected)
}

func TestRemoveStandaloneSubscribedDataSetNotFound(t *testing.T) {
	m := newTestManager(t)
	err := m.RemoveStandaloneSubscribedDataSet(999)
	assert.Equal(t, model.StatusNotFound, model.StatusOf(err))
}

func TestRemoveStandaloneSubscribedDataSetWithoutBoundReader(t *testing.T) {
	m := newTestManager(t)
	id, err := m.AddStandaloneSubscribedDataSet(&model.StandaloneSubscribedDataSetConfig{Name: "sds1"})
	require.NoError(t, err)

	require.NoError(t, m.RemoveStandaloneSubscribedDataSet(id))
	assert.Nil(t, m.FindStandaloneSubscribedDataSetById(id))
}

func TestRemoveStandaloneSubscribedDataSetCascadesBoundReader(t *testing.T) {
	// Invariant 5 (§4.4, §9): removing an SDS with a bound reader removes
	// that reader too.
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	rgID, err := m.AddReaderGroup(connID, &model.ReaderGroupConfig{Name: "rg1"})
	require.NoError(t, err)
	dsrID, err := m.AddDataSetReader(rgID, &model.DataSetReaderConfig{Name: "dsr1"})
	require.NoError(t, err)

	sdsID, err := m.AddStandaloneSubscribedDataSet(&model.StandaloneSubscribedDataSetConfig{Name: "sds1"})
	require.NoError(t, err)

	sds := m.FindStandaloneSubscribedDataSetById(sdsID)
	require.NotNil(t, sds)
	sds.ConnectedReader = &dsrID

	require.NoError(t, m.RemoveStandaloneSubscribedDataSet(sdsID))

	assert.Nil(t, m.FindStandaloneSubscribedDataSetById(sdsID))
	assert.Nil(t, m.FindDataSetReaderById(dsrID))
}

func TestFindStandaloneSubscribedDataSetByIdUnknown(t *testing.T) {
	m := newTestManager(t)
	assert.Nil(t, m.FindStandaloneSubscribedDataSetById(42))
}
