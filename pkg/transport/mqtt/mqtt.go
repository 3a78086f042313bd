// Package mqtt implements the transport.ProfileHandler for the two
// MQTT-family transport profiles (pubsub-mqtt-uadp, pubsub-mqtt-json)
// using an MQTT v3.1.1 client. The teacher repo carries no message-broker
// dependency, so this handler is grounded on the MQTT ingest pipeline found
// elsewhere in the example pack rather than on the teacher itself (see
// DESIGN.md).
package mqtt

import (
	"context"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/cuemby/pubsubcore/pkg/log"
	"github.com/cuemby/pubsubcore/pkg/model"
	"github.com/cuemby/pubsubcore/pkg/transport"
)

// ProfileHandler opens one MQTT client connection per channel. Topic
// subscriptions are made through Subscribe/Unsubscribe (§4.9's TopicAssign
// is the manager-side half of this; the handler only does the wire
// subscribe/unsubscribe). Register itself subscribes to nothing.
type ProfileHandler struct {
	log         zerolog.Logger
	connectWait time.Duration
}

// New returns an MQTT handler. connectWait bounds how long CreateChannel
// waits for the initial broker connection; zero uses a 5s default.
func New(connectWait time.Duration) *ProfileHandler {
	if connectWait <= 0 {
		connectWait = 5 * time.Second
	}
	return &ProfileHandler{
		log:         log.WithComponent("transport-mqtt"),
		connectWait: connectWait,
	}
}

// CreateChannel dials the broker named by cfg.Address.URL (e.g.
// "tcp://broker:1883") and returns a channel wrapping the client. The
// OnPublishReceived slot is left nil here — the manager wires it in after
// CreateChannel returns, per §4.2's "for MQTT-family transports, wires the
// server pointer into the channel's publish-received callback slot".
func (h *ProfileHandler) CreateChannel(ctx context.Context, cfg *model.ConnectionConfig) (*transport.Channel, error) {
	if cfg == nil || cfg.Address.URL == "" {
		return nil, fmt.Errorf("mqtt: connection config has no broker address")
	}

	ch := &transport.Channel{}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Address.URL).
		SetClientID(clientID(cfg)).
		SetAutoReconnect(true).
		SetConnectTimeout(h.connectWait).
		SetDefaultPublishHandler(func(client paho.Client, msg paho.Message) {
			if ch.OnPublishReceived != nil {
				ch.OnPublishReceived(msg.Topic(), msg.Payload())
			}
		})

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(h.connectWait) {
		return nil, fmt.Errorf("mqtt: connect to %s timed out after %s", cfg.Address.URL, h.connectWait)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", cfg.Address.URL, err)
	}

	h.log.Debug().Str("broker", cfg.Address.URL).Str("client_id", clientID(cfg)).Msg("mqtt channel opened")

	ch.Handle = client
	return ch, nil
}

// Register checks that the channel wraps a connected paho.Client and
// returns success. It makes no subscriptions: readerSettings is accepted but
// not read, and topics are bound separately through Subscribe.
func (h *ProfileHandler) Register(ctx context.Context, ch *transport.Channel, readerSettings *model.ReaderGroupConfig) error {
	if ch == nil || ch.Handle == nil {
		return fmt.Errorf("mqtt: register called on nil channel")
	}
	client, ok := ch.Handle.(paho.Client)
	if !ok {
		return fmt.Errorf("mqtt: channel handle is not a paho.Client")
	}
	if !client.IsConnected() {
		return fmt.Errorf("mqtt: channel is not connected")
	}
	if readerSettings == nil {
		return nil
	}
	return nil
}

// Subscribe binds the channel's client to an MQTT topic. Exposed
// separately from Register because TopicAssign bindings are typically
// added after a ReaderGroup is registered (§4.9), not only at register
// time.
func (h *ProfileHandler) Subscribe(ch *transport.Channel, topic string) error {
	client, ok := ch.Handle.(paho.Client)
	if !ok {
		return fmt.Errorf("mqtt: channel handle is not a paho.Client")
	}
	token := client.Subscribe(topic, 0, nil)
	token.Wait()
	return token.Error()
}

// Unsubscribe unbinds a previously subscribed topic.
func (h *ProfileHandler) Unsubscribe(ch *transport.Channel, topic string) error {
	client, ok := ch.Handle.(paho.Client)
	if !ok {
		return fmt.Errorf("mqtt: channel handle is not a paho.Client")
	}
	token := client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

func clientID(cfg *model.ConnectionConfig) string {
	if cfg.Name != "" {
		return "pubsubcore-" + cfg.Name
	}
	return "pubsubcore"
}
