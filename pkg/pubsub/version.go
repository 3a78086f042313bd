package pubsub

import (
	"time"

	"github.com/cuemby/pubsubcore/pkg/model"
)

// configurationVersionEpoch is 2000-01-01T00:00:00Z, the OPC UA epoch used
// by configuration-version timestamps (§4.7). The spec also expresses this
// as 125911584000000000 in 100ns ticks since the .NET/Windows epoch; this
// core works in seconds, so it anchors directly to the UTC calendar date
// instead of converting tick counts.
var configurationVersionEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// PubSubConfigurationVersionTimeDifference returns the low 32 bits of the
// number of seconds elapsed since the OPC UA epoch. Implementers on both
// sides of a PubSub connection must use this same epoch and truncation so
// configuration versions compare equal when they should.
func PubSubConfigurationVersionTimeDifference() uint32 {
	seconds := time.Since(configurationVersionEpoch).Seconds()
	return uint32(uint64(seconds))
}

// newConfigurationVersion derives a (major, minor) pair from two
// independent clock reads. §9 notes this can coincide on fast machines —
// that collision is specified behavior, not a bug, and must be preserved.
func newConfigurationVersion() model.ConfigurationVersion {
	return model.ConfigurationVersion{
		Major: PubSubConfigurationVersionTimeDifference(),
		Minor: PubSubConfigurationVersionTimeDifference(),
	}
}
