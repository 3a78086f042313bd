package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLiveEmptySessionID(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.IsLive(""))
}

func TestIsLiveAdminSession(t *testing.T) {
	r := NewRegistry()
	r.SetAdminSession("admin-1")
	assert.True(t, r.IsLive("admin-1"))
	assert.False(t, r.IsLive("admin-2"))
}

func TestActivateAndDeactivate(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.IsLive("sess-1"))

	r.Activate("sess-1")
	assert.True(t, r.IsLive("sess-1"))
	assert.Contains(t, r.ActiveSessionIDs(), "sess-1")

	r.Deactivate("sess-1")
	assert.False(t, r.IsLive("sess-1"))
	assert.NotContains(t, r.ActiveSessionIDs(), "sess-1")
}

func TestDeactivateUnknownSessionIsNoop(t *testing.T) {
	r := NewRegistry()
	assert.NotPanics(t, func() {
		r.Deactivate("never-activated")
	})
}

func TestAdminSessionIDDefaultsEmpty(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, "", r.AdminSessionID())
}
