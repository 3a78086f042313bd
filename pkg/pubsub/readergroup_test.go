package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pubsubcore/pkg/model"
)

func TestAddReaderGroupUnknownConnection(t *testing.T) {
	m := newTestManager(t)
	_, err := m.AddReaderGroup(999, &model.ReaderGroupConfig{Name: "rg1"})
	assert.Equal(t, model.StatusNotFound, model.StatusOf(err))
}

func TestAddReaderGroupRejectsOnFrozenConnection(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")

	conn := m.FindConnectionById(connID)
	require.NotNil(t, conn)
	conn.ConfigurationFrozen = true

	_, err := m.AddReaderGroup(connID, &model.ReaderGroupConfig{Name: "rg1"})
	assert.Equal(t, model.StatusConfigurationError, model.StatusOf(err))
}

func TestAddReaderGroupNoIDCollisionRule(t *testing.T) {
	// Unlike writer groups, reader groups carry no wire-id collision rule.
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")

	id1, err := m.AddReaderGroup(connID, &model.ReaderGroupConfig{Name: "rg1"})
	require.NoError(t, err)
	id2, err := m.AddReaderGroup(connID, &model.ReaderGroupConfig{Name: "rg2"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestRemoveReaderGroupCascadesReadersAndTopicAssigns(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	rgID, err := m.AddReaderGroup(connID, &model.ReaderGroupConfig{Name: "rg1"})
	require.NoError(t, err)
	dsrID, err := m.AddDataSetReader(rgID, &model.DataSetReaderConfig{Name: "dsr1"})
	require.NoError(t, err)
	require.NoError(t, m.AddTopicAssign(rgID, "topic/a"))

	require.NoError(t, m.RemoveReaderGroup(connID, rgID))

	assert.Nil(t, m.FindReaderGroupById(rgID))
	assert.Nil(t, m.FindDataSetReaderById(dsrID))
}

func TestRemoveReaderGroupRejectsOnFrozenGroup(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	rgID, err := m.AddReaderGroup(connID, &model.ReaderGroupConfig{Name: "rg1"})
	require.NoError(t, err)

	rg := m.FindReaderGroupById(rgID)
	require.NotNil(t, rg)
	rg.ConfigurationFrozen = true

	err = m.RemoveReaderGroup(connID, rgID)
	assert.Equal(t, model.StatusConfigurationError, model.StatusOf(err))
}

func TestRemoveReaderGroupNotFound(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	err := m.RemoveReaderGroup(connID, 999)
	assert.Equal(t, model.StatusNotFound, model.StatusOf(err))
}

func TestFindReaderGroupByIdUnknown(t *testing.T) {
	m := newTestManager(t)
	assert.Nil(t, m.FindReaderGroupById(42))
}
