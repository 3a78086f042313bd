// Package udp implements the transport.ProfileHandler for the
// pubsub-udp-uadp transport profile using stdlib UDP sockets. It backs the
// CLI's manager with a real channel-creation and registration path, and
// does not implement OPC UA UADP wire semantics
// (explicitly out of scope — see SPEC_FULL.md §6).
package udp

import (
	"context"
	"fmt"
	"net"

	"github.com/cuemby/pubsubcore/pkg/log"
	"github.com/cuemby/pubsubcore/pkg/model"
	"github.com/cuemby/pubsubcore/pkg/transport"
)

var logger = log.WithComponent("transport-udp")

// ProfileHandler opens one UDP socket per channel, bound to the
// connection's configured address.
type ProfileHandler struct{}

// New returns a ready-to-register UDP handler.
func New() *ProfileHandler {
	return &ProfileHandler{}
}

// CreateChannel resolves cfg.Address.URL as a UDP endpoint and opens a
// socket bound to it. The config's NetworkIface is not used.
func (h *ProfileHandler) CreateChannel(ctx context.Context, cfg *model.ConnectionConfig) (*transport.Channel, error) {
	if cfg == nil || cfg.Address.URL == "" {
		return nil, fmt.Errorf("udp: connection config has no address")
	}

	addr, err := net.ResolveUDPAddr("udp", cfg.Address.URL)
	if err != nil {
		return nil, fmt.Errorf("udp: resolve %q: %w", cfg.Address.URL, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("udp: listen %s: %w", addr, err)
	}

	logger.Debug().Str("address", addr.String()).Msg("udp channel opened")
	return &transport.Channel{Handle: conn}, nil
}

// Register is a no-op for UDP-UADP: there is no subscription handshake at
// this layer, only at the message-encoding layer (out of scope).
func (h *ProfileHandler) Register(ctx context.Context, ch *transport.Channel, readerSettings *model.ReaderGroupConfig) error {
	if ch == nil || ch.Handle == nil {
		return fmt.Errorf("udp: register called on nil channel")
	}
	if _, ok := ch.Handle.(*net.UDPConn); !ok {
		return fmt.Errorf("udp: channel handle is not a *net.UDPConn")
	}
	return nil
}

// Close releases the channel's socket. Not part of the ProfileHandler
// contract (the core never closes channels itself, per §1's scope note
// that channel lifetime beyond create/register is an external concern),
// but kept for callers (tests, CLI) that want to clean up.
func Close(ch *transport.Channel) error {
	if ch == nil {
		return nil
	}
	conn, ok := ch.Handle.(*net.UDPConn)
	if !ok {
		return nil
	}
	return conn.Close()
}
