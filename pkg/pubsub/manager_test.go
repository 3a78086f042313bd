package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pubsubcore/pkg/eventloop"
	"github.com/cuemby/pubsubcore/pkg/model"
	"github.com/cuemby/pubsubcore/pkg/session"
	"github.com/cuemby/pubsubcore/pkg/transport"
)

// fakeChannelHandler is a transport.ProfileHandler double used throughout
// this package's tests. It succeeds unless createErr or registerErr is set,
// and counts Register calls.
type fakeChannelHandler struct {
	createErr     error
	registerErr   error
	registerCalls int
}

func (f *fakeChannelHandler) CreateChannel(ctx context.Context, cfg *model.ConnectionConfig) (*transport.Channel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &transport.Channel{Handle: "fake-socket"}, nil
}

func (f *fakeChannelHandler) Register(ctx context.Context, ch *transport.Channel, readerSettings *model.ReaderGroupConfig) error {
	f.registerCalls++
	return f.registerErr
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	reg := transport.NewRegistry()
	reg.Register(model.ProfileUDPUADP, &fakeChannelHandler{})
	reg.Register(model.ProfileMQTTUADP, &fakeChannelHandler{})
	reg.Register(model.ProfileMQTTJSON, &fakeChannelHandler{})

	sessions := session.NewRegistry()
	sessions.SetAdminSession("admin")

	return New(Config{
		TransportRegistry: reg,
		EventLoop:         eventloop.New(),
		Sessions:          sessions,
	})
}

func addTestConnection(t *testing.T, m *Manager, name string) uint32 {
	t.Helper()
	id, err := m.AddConnection(&model.ConnectionConfig{
		Name:                name,
		TransportProfileURI: model.ProfileUDPUADP,
		Address:             model.Address{URL: "239.0.0.1:4840"},
	})
	require.NoError(t, err)
	return id
}

func TestNewSeedsDefaultPublisherID(t *testing.T) {
	m := newTestManager(t)
	assert.Equal(t, model.PublisherIDUInt64, m.defaultPublisherID.Kind)
}

func TestGenerateUniqueNodeIdsAreUnique(t *testing.T) {
	m := newTestManager(t)
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[uint32]bool)
	for i := 0; i < 100; i++ {
		id := m.generateUniqueNodeIdLocked()
		assert.False(t, seen[id], "duplicate node id %d", id)
		seen[id] = true
	}
}

func TestDestroyIsIdempotentOnEmptyManager(t *testing.T) {
	m := newTestManager(t)
	assert.NotPanics(t, func() {
		m.Destroy()
		m.Destroy()
	})
}

func TestDestroyRemovesEverything(t *testing.T) {
	m := newTestManager(t)
	connID := addTestConnection(t, m, "c1")
	pdsID, _, err := m.AddPublishedDataSet(&model.PublishedDataSetConfig{Name: "pds1", Type: model.DataSetTypePublishedItems})
	require.NoError(t, err)
	_, err = m.AddWriterGroup(connID, &model.WriterGroupConfig{Name: "wg1"})
	require.NoError(t, err)
	sdsID, err := m.AddStandaloneSubscribedDataSet(&model.StandaloneSubscribedDataSetConfig{Name: "sds1"})
	require.NoError(t, err)

	m.Destroy()

	assert.Nil(t, m.FindConnectionById(connID))
	assert.Nil(t, m.FindPDSById(pdsID))
	assert.Nil(t, m.FindStandaloneSubscribedDataSetById(sdsID))
}
