package pubsub

import (
	"time"

	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/eventloop"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/model"
)

// MonitoredComponent is the kind of entity createMonitoring attaches to.
// Only DataSetReader is supported by this core (§4.6).
type MonitoredComponent int

const (
	ComponentDataSetReader MonitoredComponent = iota
)

// MonitoredAttribute is what's being monitored. Only MessageReceiveTimeout
// is supported.
type MonitoredAttribute int

const (
	AttributeMessageReceiveTimeout MonitoredAttribute = iota
)

// CreateMonitoring records callback on the reader for later arming. The
// only supported combination is (DataSetReader, MessageReceiveTimeout);
// anything else fails with BadNotSupported (§4.6).
func (m *Manager) CreateMonitoring(readerID uint32, component MonitoredComponent, attribute MonitoredAttribute, callback model.TimeoutCallback) error {
	_, err := withLock(m, "create_monitoring", func() (struct{}, error) {
		return struct{}{}, m.createMonitoringLocked(readerID, component, attribute, callback)
	})
	return err
}

func (m *Manager) createMonitoringLocked(readerID uint32, component MonitoredComponent, attribute MonitoredAttribute, callback model.TimeoutCallback) error {
	if component != ComponentDataSetReader || attribute != AttributeMessageReceiveTimeout {
		return model.NewError(model.StatusNotSupported)
	}

	_, dsr := m.findDataSetReaderLocked(readerID)
	if dsr == nil {
		return model.NewError(model.StatusNotFound)
	}

	dsr.TimeoutCallback = callback
	return nil
}

// StartMonitoring arms a one-shot receive-timeout timer at the reader's
// configured MessageReceiveTimeout (§4.6). Re-arming is permitted from any
// state: an already-armed reader's existing timer is stopped first.
func (m *Manager) StartMonitoring(readerID uint32) error {
	_, err := withLock(m, "start_monitoring", func() (struct{}, error) {
		return struct{}{}, m.startMonitoringLocked(readerID)
	})
	return err
}

func (m *Manager) startMonitoringLocked(readerID uint32) error {
	_, dsr := m.findDataSetReaderLocked(readerID)
	if dsr == nil {
		return model.NewError(model.StatusNotFound)
	}

	if dsr.TimerHandle != 0 {
		m.stopMonitoringLocked(dsr)
	}

	interval := dsr.Config.MessageReceiveTimeout
	handle := m.eventLoop.AddCyclicCallback(func() {
		m.fireReaderTimeout(readerID)
	}, interval, time.Time{}, eventloop.CycleMissResumeWithCurrentTime)

	dsr.TimerHandle = handle
	dsr.MonitoringState = model.MonitoringArmed
	return nil
}

// fireReaderTimeout is the event loop's trampoline (§4.6): zero the
// reader's timer handle, remove the cyclic callback, then invoke the
// recorded callback exactly once. Runs on the event loop's own goroutine,
// so it reacquires the manager lock before touching reader state, and tolerates the reader
// having been removed or re-armed in the meantime (§5).
func (m *Manager) fireReaderTimeout(readerID uint32) {
	m.mu.Lock()
	_, dsr := m.findDataSetReaderLocked(readerID)
	var handle uint64
	var callback model.TimeoutCallback
	fire := dsr != nil && !dsr.ShuttingDown && dsr.TimerHandle != 0
	if fire {
		handle = dsr.TimerHandle
		callback = dsr.TimeoutCallback
		dsr.MonitoringState = model.MonitoringFired
		dsr.TimerHandle = 0
	}
	m.mu.Unlock()

	if !fire {
		return
	}

	m.eventLoop.RemoveCyclicCallback(handle)
	metrics.ReaderTimeoutFiredTotal.Inc()
	m.publishEvent(&events.Event{Type: events.EventReaderTimeoutFired})

	if callback != nil {
		callback(readerID)
	}

	m.mu.Lock()
	if _, dsr := m.findDataSetReaderLocked(readerID); dsr != nil && dsr.MonitoringState == model.MonitoringFired {
		dsr.MonitoringState = model.MonitoringUnarmed
	}
	m.mu.Unlock()
}

// StopMonitoring cancels an armed timer by handle (§4.6).
func (m *Manager) StopMonitoring(readerID uint32) error {
	_, err := withLock(m, "stop_monitoring", func() (struct{}, error) {
		_, dsr := m.findDataSetReaderLocked(readerID)
		if dsr == nil {
			return struct{}{}, model.NewError(model.StatusNotFound)
		}
		m.stopMonitoringLocked(dsr)
		return struct{}{}, nil
	})
	return err
}

func (m *Manager) stopMonitoringLocked(dsr *model.DataSetReader) {
	if dsr.TimerHandle != 0 {
		m.eventLoop.RemoveCyclicCallback(dsr.TimerHandle)
		dsr.TimerHandle = 0
	}
	dsr.MonitoringState = model.MonitoringUnarmed
}

// UpdateMonitoringInterval re-arms an existing cyclic callback at the
// reader's current MessageReceiveTimeout (§4.6).
func (m *Manager) UpdateMonitoringInterval(readerID uint32) error {
	_, err := withLock(m, "update_monitoring_interval", func() (struct{}, error) {
		return struct{}{}, m.updateMonitoringIntervalLocked(readerID)
	})
	return err
}

func (m *Manager) updateMonitoringIntervalLocked(readerID uint32) error {
	_, dsr := m.findDataSetReaderLocked(readerID)
	if dsr == nil {
		return model.NewError(model.StatusNotFound)
	}
	if dsr.TimerHandle == 0 {
		return nil
	}
	m.eventLoop.ModifyCyclicCallback(dsr.TimerHandle, dsr.Config.MessageReceiveTimeout, time.Time{})
	return nil
}

// DeleteMonitoring is informational only — stopMonitoring already released
// the timer (§4.6).
func (m *Manager) DeleteMonitoring(readerID uint32) error {
	return withRLock(m, "delete_monitoring", func() error {
		_, dsr := m.findDataSetReaderLocked(readerID)
		if dsr == nil {
			return model.NewError(model.StatusNotFound)
		}
		return nil
	})
}
