package profile

// Store exposes tutor profile retrieval for the pipeline and HTTP handlers.
type Store interface {
	List() []TutorProfile
	FindByID(id string) (TutorProfile, bool)
}

// MemoryStore implements Store with an in-memory slice, suitable for a
// fixed roster loaded at startup.
type MemoryStore struct {
	items []TutorProfile
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied profiles.
func NewMemoryStore(items []TutorProfile) *MemoryStore {
	return &MemoryStore{items: append([]TutorProfile(nil), items...)}
}

// List returns the predefined profile list.
func (s *MemoryStore) List() []TutorProfile {
	return append([]TutorProfile(nil), s.items...)
}

// FindByID looks up a profile by identifier.
func (s *MemoryStore) FindByID(id string) (TutorProfile, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return TutorProfile{}, false
}
