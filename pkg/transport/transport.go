// Package transport defines the contract the manager uses to open and
// register transport channels, and a registry keyed by transport-profile
// URI (§6). Concrete handlers live in pkg/transport/udp and
// pkg/transport/mqtt; this package only carries the interface and the
// lookup table.
package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/cuemby/pubsubcore/pkg/model"
)

// Channel is the opaque handle a ProfileHandler hands back from
// CreateChannel. Handle carries whatever the concrete handler needs to
// operate the channel later (a *net.UDPConn, an mqtt.Client, ...); the core
// never inspects it. OnPublishReceived is the MQTT special case (§4.2): for
// MQTT-family transports the manager wires its own dispatch function into
// this slot after the channel is created.
type Channel struct {
	Handle            any
	OnPublishReceived func(topic string, payload []byte)
}

// ProfileHandler is one entry of the transport-profile-URI table (§6).
type ProfileHandler interface {
	// CreateChannel opens a channel for the given connection config. An
	// error here causes the caller to roll back the partially-inserted
	// connection (§4.2).
	CreateChannel(ctx context.Context, cfg *model.ConnectionConfig) (*Channel, error)

	// Register performs the channel's one-time registration step,
	// optionally carrying reader-group transport settings (neither bundled
	// handler reads them). Idempotency is the caller's
	// responsibility (§4.2 notes registerConnection itself is idempotent).
	Register(ctx context.Context, ch *Channel, readerSettings *model.ReaderGroupConfig) error
}

// Registry is the table matched by transport-profile URI.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]ProfileHandler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]ProfileHandler)}
}

// Register binds a handler to a transport-profile URI, replacing any
// previous binding.
func (r *Registry) Register(profileURI string, handler ProfileHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[profileURI] = handler
}

// Unregister removes a binding, if present.
func (r *Registry) Unregister(profileURI string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, profileURI)
}

// Lookup returns the handler bound to profileURI, if any.
func (r *Registry) Lookup(profileURI string) (ProfileHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[profileURI]
	return h, ok
}

// ErrNotRegistered is wrapped into a model.Error with model.StatusNotFound
// by callers that need the closed status set; kept here as a plain
// sentinel so transport handlers can use fmt.Errorf("...: %w", ...) the
// way the teacher's pkg/manager does.
var ErrNotRegistered = fmt.Errorf("transport profile not registered")
