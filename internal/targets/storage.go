package targets

// Set holds the active targets of one session. It is not safe for
// concurrent use; the owning session serializes every call.
type Set struct {
	targets []Target
	nextID  int
}

func NewSet() *Set {
	return &Set{
		targets: make([]Target, 0, 16),
		nextID:  1,
	}
}

// Add assigns the next ID to t and stores it.
func (s *Set) Add(t Target) Target {
	t.ID = s.nextID
	s.nextID++
	s.targets = append(s.targets, t)
	return t
}

// RemoveFirst deletes the first target matching fn and returns it.
func (s *Set) RemoveFirst(fn func(Target) bool) (Target, bool) {
	for i, t := range s.targets {
		if fn(t) {
			s.targets = append(s.targets[:i], s.targets[i+1:]...)
			return t, true
		}
	}
	return Target{}, false
}

// RemoveIf deletes every target matching fn and returns how many were dropped.
func (s *Set) RemoveIf(fn func(Target) bool) int {
	kept := s.targets[:0]
	removed := 0
	for _, t := range s.targets {
		if fn(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	clear(s.targets[len(kept):])
	s.targets = kept
	return removed
}

// Update replaces every target with fn's result.
func (s *Set) Update(fn func(Target) Target) {
	for i := range s.targets {
		s.targets[i] = fn(s.targets[i])
	}
}

// List returns a copy of the active targets.
func (s *Set) List() []Target {
	out := make([]Target, len(s.targets))
	copy(out, s.targets)
	return out
}

func (s *Set) Len() int {
	return len(s.targets)
}

// Clear drops all targets. IDs keep counting so a cleared set never reuses
// an ID seen by a renderer.
func (s *Set) Clear() {
	s.targets = s.targets[:0]
}
