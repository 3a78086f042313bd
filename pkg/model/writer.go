package model

import "time"

// Encoding is the wire encoding a WriterGroup uses.
type Encoding int

const (
	EncodingUADP Encoding = iota
	EncodingJSON
)

// WriterGroupState mirrors the OPC UA PubSubState enumeration, narrowed to
// the values this core transitions through.
type WriterGroupState int

const (
	WriterGroupStateDisabled WriterGroupState = iota
	WriterGroupStatePaused
	WriterGroupStateOperational
	WriterGroupStateError
)

// DisableCause records why a WriterGroup or ReaderGroup was disabled.
type DisableCause int

const (
	DisableCauseNone DisableCause = iota
	DisableCauseShutdown
)

// WriterGroupConfig is the caller-supplied description of a WriterGroup.
// WriterGroupID of zero means "assign one automatically" (§4.8).
type WriterGroupConfig struct {
	Name              string
	WriterGroupID     uint16
	PublishingInterval time.Duration
	KeepAliveTime     time.Duration
	Priority          uint8
	Encoding          Encoding
	MessageSettings   map[string]string
}

// Clone returns a deep copy of the config.
func (c *WriterGroupConfig) Clone() *WriterGroupConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.MessageSettings != nil {
		clone.MessageSettings = make(map[string]string, len(c.MessageSettings))
		for k, v := range c.MessageSettings {
			clone.MessageSettings[k] = v
		}
	}
	return &clone
}

// WriterGroup is a scheduling/encoding envelope owning DataSetWriters.
type WriterGroup struct {
	ID                  uint32
	ConnectionID        uint32
	Config              *WriterGroupConfig
	State               WriterGroupState
	DisableCause        DisableCause
	ConfigurationFrozen bool

	DataSetWriters []*DataSetWriter
}

// FieldContentMask controls which fields a DataSetWriter includes in a
// network message; only the bit positions this core cares about are named.
type FieldContentMask uint32

const (
	FieldContentNone    FieldContentMask = 0
	FieldContentRawData FieldContentMask = 1 << 0
)

// DataSetWriterConfig is the caller-supplied description of a DataSetWriter.
// ConnectedDataSet of nil means heartbeat mode (§3 invariant 3).
// DataSetWriterID of zero means "assign one automatically" (§4.8).
type DataSetWriterConfig struct {
	Name             string
	DataSetWriterID  uint16
	KeyFrameCount    uint32
	FieldContentMask FieldContentMask
	MessageSettings  map[string]string
	ConnectedDataSet *uint32
}

// Clone returns a deep copy of the config.
func (c *DataSetWriterConfig) Clone() *DataSetWriterConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.MessageSettings != nil {
		clone.MessageSettings = make(map[string]string, len(c.MessageSettings))
		for k, v := range c.MessageSettings {
			clone.MessageSettings[k] = v
		}
	}
	if c.ConnectedDataSet != nil {
		id := *c.ConnectedDataSet
		clone.ConnectedDataSet = &id
	}
	return &clone
}

// DataSetWriter is the per-dataset endpoint that emits network messages.
type DataSetWriter struct {
	ID            uint32
	WriterGroupID uint32
	Config        *DataSetWriterConfig
	State         WriterGroupState
}
