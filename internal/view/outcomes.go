package view

import "sync"

const maxStoredOutcomes = 32

// outcomeStore keeps recent update outcomes by ID, so the page re-rendered
// after an update shows that client's result and nobody else's.
type outcomeStore struct {
	mu      sync.Mutex
	order   []string
	entries map[string]*storedOutcome
}

type storedOutcome struct {
	outcome   UpdateOutcome
	delivered bool
}

func newOutcomeStore() *outcomeStore {
	return &outcomeStore{entries: make(map[string]*storedOutcome)}
}

// put records o, evicting the oldest outcome once the store is full.
func (s *outcomeStore) put(o UpdateOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[o.ID] = &storedOutcome{outcome: o}
	s.order = append(s.order, o.ID)
	for len(s.order) > maxStoredOutcomes {
		delete(s.entries, s.order[0])
		s.order = s.order[1:]
	}
}

// take returns the outcome stored under id. Notifications are handed out
// on the first take only; the description stays for reloads of the page.
func (s *outcomeStore) take(id string) (UpdateOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[id]
	if !ok {
		return UpdateOutcome{}, false
	}
	out := stored.outcome
	if stored.delivered {
		out.Notifications = nil
	}
	stored.delivered = true
	return out, true
}

// description returns the description stored under id, or "".
func (s *outcomeStore) description(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.entries[id]; ok {
		return stored.outcome.Description
	}
	return ""
}
