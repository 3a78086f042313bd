package metrics

import "time"

// Snapshot is a point-in-time count of every manager collection, taken
// under the manager's read lock.
type Snapshot struct {
	Connections        int
	WriterGroups       int
	DataSetWriters     int
	ReaderGroups       int
	DataSetReaders     int
	PublishedDataSets  int
}

// StatsSource is implemented by *pubsub.Manager. Defined here, rather than
// taking a *pubsub.Manager directly, to avoid a cycle: pubsub already
// imports this package for its inline gauge updates.
type StatsSource interface {
	MetricsSnapshot() Snapshot
}

// Collector periodically re-derives the gauges from the manager's live
// state. The inline Set calls scattered through pkg/pubsub keep the
// gauges current between ticks; this is the resync that catches anything
// those calls missed.
type Collector struct {
	source StatsSource
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector.
func NewCollector(source StatsSource) *Collector {
	return &Collector{
		source: source,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	snap := c.source.MetricsSnapshot()

	ConnectionsTotal.Set(float64(snap.Connections))
	WriterGroupsTotal.Set(float64(snap.WriterGroups))
	DataSetWritersTotal.Set(float64(snap.DataSetWriters))
	ReaderGroupsTotal.Set(float64(snap.ReaderGroups))
	DataSetReadersTotal.Set(float64(snap.DataSetReaders))
	PublishedDataSetsTotal.Set(float64(snap.PublishedDataSets))
}
