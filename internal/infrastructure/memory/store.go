// Package memory is an in-process implementation of the storage ports. It
// backs tests and the DATABASE_URL=memory mode.
package memory

import (
	"sort"
	"sync"

	"sportmeet/internal/domain/entities"
)

// Store holds all rows. Repositories created from the same Store share data.
type Store struct {
	mu           sync.RWMutex
	users        map[string]entities.User
	pushTokens   map[string]entities.PushToken // by user id + device token
	events       map[string]entities.Event
	participants map[string]entities.Participant
	messages     []entities.ChatMessage
	noShows      map[string]entities.NoShow // by event id + user id

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		users:        map[string]entities.User{},
		pushTokens:   map[string]entities.PushToken{},
		events:       map[string]entities.Event{},
		participants: map[string]entities.Participant{},
		noShows:      map[string]entities.NoShow{},
		locks:        map[string]*sync.Mutex{},
	}
}

// eventLock returns the mutex serializing roster writes of one event.
func (s *Store) eventLock(eventID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[eventID] = l
	}
	return l
}

// The helpers below expect s.mu to be held.

func (s *Store) withNames(p entities.Participant) entities.Participant {
	if u, ok := s.users[p.UserID]; ok {
		p.UserName = u.Name
	}
	return p
}

func (s *Store) withOrganizer(e entities.Event) entities.Event {
	if u, ok := s.users[e.OrganizerID]; ok {
		e.OrganizerName = u.Name
	}
	return e
}

func (s *Store) rowsOf(eventID string) []entities.Participant {
	var out []entities.Participant
	for _, p := range s.participants {
		if p.EventID == eventID {
			out = append(out, s.withNames(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortEvents(events []entities.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.TimeStart != b.TimeStart {
			return a.TimeStart < b.TimeStart
		}
		return a.ID < b.ID
	})
}
