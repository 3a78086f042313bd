package pubsub

import "github.com/cuemby/pubsubcore/pkg/model"

// AddTopicAssign binds readerGroupId to an MQTT-family topic string. At
// most one TopicAssign per (readerGroupId, topic) pair; re-assigning the
// same pair is a no-op (§4.9).
func (m *Manager) AddTopicAssign(readerGroupID uint32, topic string) error {
	_, err := withLock(m, "add_topic_assign", func() (struct{}, error) {
		return struct{}{}, m.addTopicAssignLocked(readerGroupID, topic)
	})
	return err
}

func (m *Manager) addTopicAssignLocked(readerGroupID uint32, topic string) error {
	rg := m.findReaderGroupByIDLocked(readerGroupID)
	if rg == nil {
		return model.NewError(model.StatusNotFound)
	}
	for _, ta := range rg.TopicAssigns {
		if ta.Topic == topic {
			return nil
		}
	}
	rg.TopicAssigns = append(rg.TopicAssigns, model.TopicAssign{ReaderGroupID: readerGroupID, Topic: topic})
	return nil
}

// RemoveTopicAssign removes a binding if present (§4.9).
func (m *Manager) RemoveTopicAssign(readerGroupID uint32, topic string) error {
	_, err := withLock(m, "remove_topic_assign", func() (struct{}, error) {
		return struct{}{}, m.removeTopicAssignLocked(readerGroupID, topic)
	})
	return err
}

func (m *Manager) removeTopicAssignLocked(readerGroupID uint32, topic string) error {
	rg := m.findReaderGroupByIDLocked(readerGroupID)
	if rg == nil {
		return model.NewError(model.StatusNotFound)
	}
	for i, ta := range rg.TopicAssigns {
		if ta.Topic == topic {
			rg.TopicAssigns = append(rg.TopicAssigns[:i], rg.TopicAssigns[i+1:]...)
			return nil
		}
	}
	return model.NewError(model.StatusNotFound)
}
