package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConnectionsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pubsubcore_connections_total",
			Help: "Total number of live connections",
		},
	)

	WriterGroupsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pubsubcore_writer_groups_total",
			Help: "Total number of live writer groups",
		},
	)

	DataSetWritersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pubsubcore_dataset_writers_total",
			Help: "Total number of live dataset writers",
		},
	)

	ReaderGroupsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pubsubcore_reader_groups_total",
			Help: "Total number of live reader groups",
		},
	)

	DataSetReadersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pubsubcore_dataset_readers_total",
			Help: "Total number of live dataset readers",
		},
	)

	PublishedDataSetsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pubsubcore_published_datasets_total",
			Help: "Total number of published datasets",
		},
	)

	ReservationsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pubsubcore_reservations_active",
			Help: "Active ReserveId entries by transport profile and kind",
		},
		[]string{"profile", "kind"},
	)

	ReservationsReclaimedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pubsubcore_reservations_reclaimed_total",
			Help: "Total number of ReserveId entries reclaimed from expired sessions",
		},
	)

	ReaderTimeoutFiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pubsubcore_reader_timeout_fired_total",
			Help: "Total number of receive-timeout callbacks fired",
		},
	)

	ManagerOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pubsubcore_manager_operation_duration_seconds",
			Help:    "Time spent inside a manager operation, under the serializing lock",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(ConnectionsTotal)
	prometheus.MustRegister(WriterGroupsTotal)
	prometheus.MustRegister(DataSetWritersTotal)
	prometheus.MustRegister(ReaderGroupsTotal)
	prometheus.MustRegister(DataSetReadersTotal)
	prometheus.MustRegister(PublishedDataSetsTotal)
	prometheus.MustRegister(ReservationsActive)
	prometheus.MustRegister(ReservationsReclaimedTotal)
	prometheus.MustRegister(ReaderTimeoutFiredTotal)
	prometheus.MustRegister(ManagerOperationDuration)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
