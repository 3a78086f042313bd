package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testGaugeValue(g prometheus.Gauge) float64 {
	return testutil.ToFloat64(g)
}

type fakeStatsSource struct {
	snap Snapshot
}

func (f *fakeStatsSource) MetricsSnapshot() Snapshot {
	return f.snap
}

func TestCollectorUpdatesGaugesOnStart(t *testing.T) {
	source := &fakeStatsSource{snap: Snapshot{
		Connections:       2,
		WriterGroups:      3,
		DataSetWriters:    4,
		ReaderGroups:      1,
		DataSetReaders:    5,
		PublishedDataSets: 6,
	}}
	c := NewCollector(source)
	c.Start()
	defer c.Stop()

	require := func(name string, got, want float64) {
		if got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	// collect() runs synchronously once before the ticker loop begins, but
	// Start spawns the goroutine, so give it a moment to run.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if testGaugeValue(ConnectionsTotal) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	require("connections", testGaugeValue(ConnectionsTotal), 2)
	require("writer_groups", testGaugeValue(WriterGroupsTotal), 3)
	require("dataset_writers", testGaugeValue(DataSetWritersTotal), 4)
	require("reader_groups", testGaugeValue(ReaderGroupsTotal), 1)
	require("dataset_readers", testGaugeValue(DataSetReadersTotal), 5)
	require("published_datasets", testGaugeValue(PublishedDataSetsTotal), 6)
}
