package pubsub

import (
	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/model"
)

// ReserveIds pre-allocates numWG writer-group ids and numDSW dataset-writer
// ids for sessionId, scoped to transportProfileURI (§4.5). Runs the
// liveness sweep first.
func (m *Manager) ReserveIds(sessionID string, numWG, numDSW int, transportProfileURI string) ([]uint16, []uint16, error) {
	type result struct {
		wg  []uint16
		dsw []uint16
	}
	r, err := withLock(m, "reserve_ids", func() (result, error) {
		wg, dsw, err := m.reserveIdsLocked(sessionID, numWG, numDSW, transportProfileURI)
		return result{wg: wg, dsw: dsw}, err
	})
	return r.wg, r.dsw, err
}

func (m *Manager) reserveIdsLocked(sessionID string, numWG, numDSW int, transportProfileURI string) ([]uint16, []uint16, error) {
	m.freeIdsLocked()

	if !isRecognizedProfile(transportProfileURI) {
		return nil, nil, model.NewError(model.StatusInvalidArgument)
	}

	wgIDs := make([]uint16, 0, numWG)
	for i := 0; i < numWG; i++ {
		id := m.createIdLocked(sessionID, transportProfileURI, model.ReserveIDWriterGroup)
		wgIDs = append(wgIDs, id)
	}

	dswIDs := make([]uint16, 0, numDSW)
	for i := 0; i < numDSW; i++ {
		id := m.createIdLocked(sessionID, transportProfileURI, model.ReserveIDDataSetWriter)
		dswIDs = append(dswIDs, id)
	}

	m.reportReservationMetrics()

	return wgIDs, dswIDs, nil
}

func isRecognizedProfile(uri string) bool {
	switch uri {
	case model.ProfileMQTTUADP, model.ProfileMQTTJSON, model.ProfileUDPUADP:
		return true
	default:
		return false
	}
}

// createIdLocked implements §4.5's createId: search up to one full range
// sweep starting at the per-kind cursor, wrapping at the top of the
// reserved range back to the bottom. On success the cursor advances past
// the found id and a new ReserveID is appended (with its own copy of uri).
// On exhaustion, returns 0.
func (m *Manager) createIdLocked(sessionID, uri string, kind model.ReserveIDKind) uint16 {
	cursor := m.cursorFor(kind)

	for i := 0; i < int(model.ReservedIDRangeHigh-model.ReservedIDRangeLow)+1; i++ {
		candidate := cursor
		if m.isIDFreeLocked(uri, kind, candidate) {
			m.setCursor(kind, nextCursor(candidate))
			m.reserveIDs = append(m.reserveIDs, &model.ReserveID{
				ID:                  candidate,
				TransportProfileURI: uri,
				Kind:                kind,
				SessionID:           sessionID,
			})
			return candidate
		}
		cursor = nextCursor(cursor)
	}

	m.log.Error().Str("profile", uri).Int("kind", int(kind)).Msg("reserve allocator exhausted")
	return 0
}

func nextCursor(id uint16) uint16 {
	if id >= model.ReservedIDRangeHigh {
		return model.ReservedIDRangeLow
	}
	next := id + 1
	if next < model.ReservedIDRangeLow {
		return model.ReservedIDRangeLow
	}
	return next
}

func (m *Manager) cursorFor(kind model.ReserveIDKind) uint16 {
	if kind == model.ReserveIDWriterGroup {
		return m.nextWriterGroupID
	}
	return m.nextDataSetWriterID
}

func (m *Manager) setCursor(kind model.ReserveIDKind, value uint16) {
	if kind == model.ReserveIDWriterGroup {
		m.nextWriterGroupID = value
	} else {
		m.nextDataSetWriterID = value
	}
}

// isIDFreeLocked reports whether candidate is unused by any live
// reservation or live entity of kind, scoped to uri. Used by the
// auto-assign path (nextFreeIDLocked) and the reserve allocator itself,
// where a candidate must avoid every outstanding reservation too.
func (m *Manager) isIDFreeLocked(uri string, kind model.ReserveIDKind, candidate uint16) bool {
	for _, r := range m.reserveIDs {
		if r.TransportProfileURI == uri && r.Kind == kind && r.ID == candidate {
			return false
		}
	}
	return !m.isEntityIDTakenLocked(uri, kind, candidate)
}

// isEntityIDTakenLocked reports whether candidate is already used by a live
// WriterGroup/DataSetWriter scoped to uri. Unlike isIDFreeLocked, it does
// not treat an outstanding ReserveId as a collision: a session's own
// reservation must not block that same session from using the id it was
// handed (§4.8, §8 scenario 4).
func (m *Manager) isEntityIDTakenLocked(uri string, kind model.ReserveIDKind, candidate uint16) bool {
	for _, conn := range m.connections {
		if conn.Config.TransportProfileURI != uri {
			continue
		}
		switch kind {
		case model.ReserveIDWriterGroup:
			for _, wg := range conn.WriterGroups {
				if wg.Config.WriterGroupID == candidate {
					return true
				}
			}
		case model.ReserveIDDataSetWriter:
			for _, wg := range conn.WriterGroups {
				for _, dsw := range wg.DataSetWriters {
					if dsw.Config.DataSetWriterID == candidate {
						return true
					}
				}
			}
		}
	}
	return false
}

// nextFreeIDLocked finds a free id the same way createIdLocked does, but
// does not append a ReserveID entry — used by addWriterGroup/
// addDataSetWriter to resolve a caller-supplied id of 0 (§4.8, §9).
func (m *Manager) nextFreeIDLocked(uri string, kind model.ReserveIDKind) uint16 {
	cursor := m.cursorFor(kind)
	for i := 0; i < int(model.ReservedIDRangeHigh-model.ReservedIDRangeLow)+1; i++ {
		candidate := cursor
		if m.isIDFreeLocked(uri, kind, candidate) {
			m.setCursor(kind, nextCursor(candidate))
			return candidate
		}
		cursor = nextCursor(cursor)
	}
	m.log.Error().Str("profile", uri).Int("kind", int(kind)).Msg("id allocator exhausted")
	return 0
}

// FreeIds runs the liveness sweep standalone (§4.5).
func (m *Manager) FreeIds() {
	_, _ = withLock(m, "free_ids", func() (struct{}, error) {
		m.freeIdsLocked()
		return struct{}{}, nil
	})
}

// freeIdsLocked removes every ReserveID entry whose owning session is
// neither the admin session nor present in the active-session list (§4.5
// step 1, P4).
func (m *Manager) freeIdsLocked() {
	if m.sessions == nil {
		return
	}

	live := m.reserveIDs[:0:0]
	reclaimed := 0
	for _, r := range m.reserveIDs {
		if m.sessions.IsLive(r.SessionID) {
			live = append(live, r)
		} else {
			reclaimed++
		}
	}
	m.reserveIDs = live

	if reclaimed > 0 {
		metrics.ReservationsReclaimedTotal.Add(float64(reclaimed))
		m.publishEvent(&events.Event{Type: events.EventReservationReclaimed})
	}
	m.reportReservationMetrics()
}

var recognizedProfiles = []string{model.ProfileMQTTUADP, model.ProfileMQTTJSON, model.ProfileUDPUADP}

// reportReservationMetrics always sets every (profile, kind) combination,
// including zero, so a combo that drops to zero doesn't leave the gauge
// stuck at its last nonzero value.
func (m *Manager) reportReservationMetrics() {
	counts := make(map[[2]string]int)
	for _, r := range m.reserveIDs {
		key := [2]string{r.TransportProfileURI, kindLabel(r.Kind)}
		counts[key]++
	}
	for _, profile := range recognizedProfiles {
		for _, kind := range []model.ReserveIDKind{model.ReserveIDWriterGroup, model.ReserveIDDataSetWriter} {
			key := [2]string{profile, kindLabel(kind)}
			metrics.ReservationsActive.WithLabelValues(key[0], key[1]).Set(float64(counts[key]))
		}
	}
}

func kindLabel(kind model.ReserveIDKind) string {
	if kind == model.ReserveIDWriterGroup {
		return "writer_group"
	}
	return "dataset_writer"
}
