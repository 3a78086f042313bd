package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/pubsubcore/pkg/model"
)

type fakeHandler struct {
	createErr error
	channel   *Channel
}

func (f *fakeHandler) CreateChannel(ctx context.Context, cfg *model.ConnectionConfig) (*Channel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.channel, nil
}

func (f *fakeHandler) Register(ctx context.Context, ch *Channel, readerSettings *model.ReaderGroupConfig) error {
	return nil
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup(model.ProfileUDPUADP)
	assert.False(t, ok, "empty registry should have no handlers")

	h := &fakeHandler{channel: &Channel{Handle: "socket"}}
	r.Register(model.ProfileUDPUADP, h)

	got, ok := r.Lookup(model.ProfileUDPUADP)
	require.True(t, ok)
	assert.Same(t, ProfileHandler(h), got)
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry()
	r.Register(model.ProfileMQTTUADP, &fakeHandler{})
	r.Unregister(model.ProfileMQTTUADP)

	_, ok := r.Lookup(model.ProfileMQTTUADP)
	assert.False(t, ok)
}

func TestRegistryReplacesExistingBinding(t *testing.T) {
	r := NewRegistry()
	first := &fakeHandler{channel: &Channel{Handle: "first"}}
	second := &fakeHandler{channel: &Channel{Handle: "second"}}

	r.Register(model.ProfileMQTTJSON, first)
	r.Register(model.ProfileMQTTJSON, second)

	got, ok := r.Lookup(model.ProfileMQTTJSON)
	require.True(t, ok)
	ch, err := got.CreateChannel(context.Background(), &model.ConnectionConfig{})
	require.NoError(t, err)
	assert.Equal(t, "second", ch.Handle)
}
