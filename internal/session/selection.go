package session

// Selection is the ordered, duplicate-free set of absolute file paths the
// user has picked. Insertion order is preserved for display; final output
// order is decided later by the tree renderer.
type Selection struct {
	paths []string
	seen  map[string]bool
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{seen: make(map[string]bool)}
}

// Add appends path unless it is already present. It reports whether the
// path was added.
func (s *Selection) Add(path string) bool {
	if s.seen[path] {
		return false
	}
	s.seen[path] = true
	s.paths = append(s.paths, path)
	return true
}

// Remove deletes path and reports whether it was present.
func (s *Selection) Remove(path string) bool {
	if !s.seen[path] {
		return false
	}
	delete(s.seen, path)
	for i, p := range s.paths {
		if p == path {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes everything.
func (s *Selection) Clear() {
	s.paths = nil
	s.seen = make(map[string]bool)
}

// Contains reports whether path is selected.
func (s *Selection) Contains(path string) bool {
	return s.seen[path]
}

// Len returns the number of selected paths.
func (s *Selection) Len() int {
	return len(s.paths)
}

// Paths returns the selected paths in insertion order. The caller must not
// mutate the returned slice.
func (s *Selection) Paths() []string {
	return s.paths
}
