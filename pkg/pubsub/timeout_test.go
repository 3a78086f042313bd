package pubsub

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pubsubcore/pkg/model"
)

func addTestReader(t *testing.T, m *Manager, connID uint32, timeout time.Duration) uint32 {
	t.Helper()
	rgID, err := m.AddReaderGroup(connID, &model.ReaderGroupConfig{Name: "rg1"})
	require.NoError(t, err)
	dsrID, err := m.AddDataSetReader(rgID, &model.DataSetReaderConfig{Name: "dsr1", MessageReceiveTimeout: timeout})
	require.NoError(t, err)
	return dsrID
}

func TestCreateMonitoringUnsupportedCombination(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	dsrID := addTestReader(t, m, connID, 50*time.Millisecond)

	err := m.CreateMonitoring(dsrID, MonitoredComponent(99), AttributeMessageReceiveTimeout, func(uint32) {})
	assert.Equal(t, model.StatusNotSupported, model.StatusOf(err))
}

func TestReceiveTimeoutFiresExactlyOnce(t *testing.T) {
	// P6 / Scenario 6 (§8): receive timeout fires once.
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	dsrID := addTestReader(t, m, connID, 50*time.Millisecond)

	var calls int32
	require.NoError(t, m.CreateMonitoring(dsrID, ComponentDataSetReader, AttributeMessageReceiveTimeout, func(readerID uint32) {
		atomic.AddInt32(&calls, 1)
	}))
	require.NoError(t, m.StartMonitoring(dsrID))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "callback must fire at most once per arming")

	reader := m.FindDataSetReaderById(dsrID)
	require.NotNil(t, reader)
	assert.Zero(t, reader.TimerHandle)
}

func TestStopMonitoringPreventsFire(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	dsrID := addTestReader(t, m, connID, 20*time.Millisecond)

	var calls int32
	require.NoError(t, m.CreateMonitoring(dsrID, ComponentDataSetReader, AttributeMessageReceiveTimeout, func(uint32) {
		atomic.AddInt32(&calls, 1)
	}))
	require.NoError(t, m.StartMonitoring(dsrID))
	require.NoError(t, m.StopMonitoring(dsrID))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	reader := m.FindDataSetReaderById(dsrID)
	require.NotNil(t, reader)
	assert.Equal(t, model.MonitoringUnarmed, reader.MonitoringState)
}

func TestStartMonitoringRearmsFromAnyState(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	dsrID := addTestReader(t, m, connID, time.Hour)

	require.NoError(t, m.StartMonitoring(dsrID))
	first := m.FindDataSetReaderById(dsrID).TimerHandle
	require.NotZero(t, first)

	require.NoError(t, m.StartMonitoring(dsrID))
	second := m.FindDataSetReaderById(dsrID).TimerHandle
	require.NotZero(t, second)
	assert.NotEqual(t, first, second, "re-arming should replace the previous timer handle")
}

func TestRemoveDataSetReaderStopsInFlightMonitoring(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	dsrID := addTestReader(t, m, connID, time.Hour)

	require.NoError(t, m.StartMonitoring(dsrID))
	reader := m.FindDataSetReaderById(dsrID)
	rgID := reader.ReaderGroupID

	require.NoError(t, m.RemoveDataSetReader(rgID, dsrID))
	assert.Nil(t, m.FindDataSetReaderById(dsrID))
}

func TestUpdateMonitoringIntervalOnUnarmedReaderIsNoop(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	dsrID := addTestReader(t, m, connID, time.Hour)

	assert.NoError(t, m.UpdateMonitoringInterval(dsrID))
}
