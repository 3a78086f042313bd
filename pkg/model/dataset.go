package model

// DataSetType discriminates the PublishedDataSet variants the OPC UA spec
// defines; only PublishedItems is implemented (§3, §4.3).
type DataSetType int

const (
	DataSetTypePublishedItems DataSetType = iota
	DataSetTypePublishedEvents
	DataSetTypePublishedItemsTemplate
	DataSetTypePublishedEventsTemplate
)

// ConfigurationVersion is the (major, minor) pair peers use to detect
// dataset-schema drift (§4.7). Both halves derive from the same formula and
// may coincide on fast machines — see SPEC_FULL.md §9.
type ConfigurationVersion struct {
	Major uint32
	Minor uint32
}

// Field is one entry of a PublishedDataSet's ordered field list.
type Field struct {
	Name       string
	DataType   string
	ArrayDims  []uint32
	ValueRank  int32
}

// Clone returns a deep copy of the field.
func (f Field) Clone() Field {
	clone := f
	if f.ArrayDims != nil {
		clone.ArrayDims = append([]uint32(nil), f.ArrayDims...)
	}
	return clone
}

// DataSetMetaData describes a dataset's schema.
type DataSetMetaData struct {
	Name                 string
	Description          string
	DataSetClassID       *string
	ConfigurationVersion ConfigurationVersion
	Fields               []Field
}

// Clone returns a deep copy of the metadata.
func (m DataSetMetaData) Clone() DataSetMetaData {
	clone := m
	if m.DataSetClassID != nil {
		id := *m.DataSetClassID
		clone.DataSetClassID = &id
	}
	if m.Fields != nil {
		clone.Fields = make([]Field, len(m.Fields))
		for i, f := range m.Fields {
			clone.Fields[i] = f.Clone()
		}
	}
	return clone
}

// PublishedDataSetConfig is the caller-supplied description of a
// PublishedDataSet; only DataSetTypePublishedItems is accepted (§4.3).
type PublishedDataSetConfig struct {
	Name   string
	Type   DataSetType
	Fields []Field
}

// Clone returns a deep copy of the config.
func (c *PublishedDataSetConfig) Clone() *PublishedDataSetConfig {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Fields != nil {
		clone.Fields = make([]Field, len(c.Fields))
		for i, f := range c.Fields {
			clone.Fields[i] = f.Clone()
		}
	}
	return &clone
}

// PublishedDataSet is a named, versioned collection of fields a publisher
// offers; names are unique within the manager (§3 invariant 1).
type PublishedDataSet struct {
	ID                  uint32
	Config              *PublishedDataSetConfig
	MetaData            DataSetMetaData
	ConfigurationFrozen bool
}

// StandaloneSubscribedDataSetConfig is the caller-supplied description of an
// SDS.
type StandaloneSubscribedDataSetConfig struct {
	Name              string
	MetaData          DataSetMetaData
	SubscribedDataSet SubscribedDataSetSettings
}

// Clone returns a deep copy of the config.
func (c *StandaloneSubscribedDataSetConfig) Clone() *StandaloneSubscribedDataSetConfig {
	if c == nil {
		return nil
	}
	clone := *c
	clone.MetaData = c.MetaData.Clone()
	clone.SubscribedDataSet = c.SubscribedDataSet.Clone()
	return &clone
}

// StandaloneSubscribedDataSet is a named target for a dataset on the
// subscriber side, optionally bound to a reader (§3).
type StandaloneSubscribedDataSet struct {
	ID            uint32
	Config        *StandaloneSubscribedDataSetConfig
	ConnectedReader *uint32
	IsConnected   bool
}
