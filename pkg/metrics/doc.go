/*
Package metrics exposes Prometheus instrumentation for the PubSub core.

Gauges track the live size of each manager collection (connections,
writer groups, dataset writers, reader groups, dataset readers,
published datasets) plus active ReserveId entries broken down by
transport profile and kind. Counters track events that matter for
capacity planning and debugging: reclaimed reservations and fired
receive-timeout callbacks. A histogram records the wall-clock time
spent inside manager operations while the serializing lock is held,
which is the number operators care about under contention.

Collector (see collector.go) samples the manager's collections on a
fixed interval and updates the gauges; the counters are incremented
inline by the components that observe the events.
*/
package metrics
