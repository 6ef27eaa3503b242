package style

import "github.com/couchcryptid/flowline-styler/internal/domain"

// Subscribe registers a listener for change events. Sends never block: a
// subscriber whose buffer is full misses the event. The returned cancel
// function unregisters the listener and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan domain.ChangeEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan domain.ChangeEvent, buffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of registered listeners.
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

func (s *Store) publish(e domain.ChangeEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
			if s.onDrop != nil {
				s.onDrop()
			}
		}
	}
}
