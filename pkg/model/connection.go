package model

// Recognized transport-profile URIs (§6).
const (
	ProfileMQTTUADP = "http://opcfoundation.org/UA-Profile/Transport/pubsub-mqtt-uadp"
	ProfileMQTTJSON = "http://opcfoundation.org/UA-Profile/Transport/pubsub-mqtt-json"
	ProfileUDPUADP  = "http://opcfoundation.org/UA-Profile/Transport/pubsub-udp-uadp"
)

// Address holds a connection's network location.
type Address struct {
	URL           string
	NetworkIface  string
}

// ConnectionConfig is the caller-supplied description of a Connection; the
// manager deep-copies it on add, so ownership transfers per §4.2.
type ConnectionConfig struct {
	Name                string
	TransportProfileURI string
	Address             Address
	PublisherID         PublisherID
	Enabled             bool
	Properties          map[string]string
}

// Clone returns a deep copy of the config, matching addConnection's
// "deep-copies the config (ownership transfers to the manager)" contract.
func (c *ConnectionConfig) Clone() *ConnectionConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.PublisherID = c.PublisherID.Clone()
	if c.Properties != nil {
		clone.Properties = make(map[string]string, len(c.Properties))
		for k, v := range c.Properties {
			clone.Properties[k] = v
		}
	}
	return &clone
}

// Connection is a transport binding owning writer and reader groups.
type Connection struct {
	ID                  uint32
	Config              *ConnectionConfig
	IsRegistered        bool
	ChannelHandle       any
	ConfigurationFrozen bool

	WriterGroups []*WriterGroup
	ReaderGroups []*ReaderGroup
}

// TopicAssign binds a ReaderGroup to an MQTT-family topic string (§4.9).
type TopicAssign struct {
	ReaderGroupID uint32
	Topic         string
}
