package pubsub

import "github.com/cuemby/pubsubcore/pkg/metrics"

// MetricsSnapshot satisfies metrics.StatsSource: a point-in-time count of
// every collection, for the periodic metrics.Collector resync.
func (m *Manager) MetricsSnapshot() metrics.Snapshot {
	return withRLock(m, "metrics_snapshot", func() metrics.Snapshot {
		return metrics.Snapshot{
			Connections:       len(m.connections),
			WriterGroups:      m.countWriterGroupsLocked(),
			DataSetWriters:    m.countDataSetWritersLocked(),
			ReaderGroups:      m.countReaderGroupsLocked(),
			DataSetReaders:    m.countDataSetReadersLocked(),
			PublishedDataSets: len(m.publishedDataSets),
		}
	})
}
