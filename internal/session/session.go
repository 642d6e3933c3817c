// Package session drives the interactive selection loop: a current
// directory, an ordered selection set, and a command interpreter that maps
// one line of user input to exactly one state transition.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"

	"github.com/hayeah/repopick/internal/index"
	"github.com/hayeah/repopick/internal/listing"
)

// State is the session's lifecycle position.
type State int

const (
	// Browsing accepts navigation and selection commands.
	Browsing State = iota
	// ListingSelected is a transient overlay showing the selection set.
	ListingSelected
	// ShowingHelp is a transient overlay showing the command reference.
	ShowingHelp
	// Done ends the session with the selection intact.
	Done
	// Aborted ends the session discarding the selection.
	Aborted
)

var rangeRe = regexp.MustCompile(`^(\d+)-(\d+)$`)

// Session holds the mutable navigation state for one interactive run over
// an immutable index snapshot.
type Session struct {
	ix     *index.Index
	lister *listing.Lister

	root       string // absolute repository root
	cwd        string // absolute, always under root
	state      State
	sel        *Selection
	pendingErr string
}

// New creates a session rooted at the index's repository root.
func New(ix *index.Index) *Session {
	return &Session{
		ix:     ix,
		lister: listing.New(ix),
		root:   ix.Root(),
		cwd:    ix.Root(),
		state:  Browsing,
		sel:    NewSelection(),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Cwd returns the absolute current directory.
func (s *Session) Cwd() string { return s.cwd }

// Root returns the absolute repository root.
func (s *Session) Root() string { return s.root }

// Selected returns the selected absolute paths in insertion order.
func (s *Session) Selected() []string { return s.sel.Paths() }

// IsSelected reports whether the absolute path is in the selection.
func (s *Session) IsSelected(abs string) bool { return s.sel.Contains(abs) }

// SelectedRel returns the selection as slash-separated paths relative to the
// repository root, still in insertion order.
func (s *Session) SelectedRel() []string {
	out := make([]string, 0, s.sel.Len())
	for _, p := range s.sel.Paths() {
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			continue
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

// TakeError returns the pending error message and clears it. The message is
// meant to be displayed exactly once.
func (s *Session) TakeError() string {
	msg := s.pendingErr
	s.pendingErr = ""
	return msg
}

// Listing computes this turn's view of the current directory. Display
// indices are positions in the returned slice and are only valid until the
// next command executes.
func (s *Session) Listing() []listing.Item {
	return s.lister.List(s.relCwd())
}

// Acknowledge returns from a transient overlay to browsing. It has no
// effect in any other state.
func (s *Session) Acknowledge() {
	if s.state == ShowingHelp || s.state == ListingSelected {
		s.state = Browsing
	}
}

// Execute interprets one line of input against a freshly computed listing.
// Every command changes at most one of current directory, selection,
// pending error, or state; malformed batch commands select nothing.
func (s *Session) Execute(input string) {
	if s.state != Browsing {
		return
	}

	in := strings.TrimSpace(input)
	items := s.Listing()

	switch {
	case in == "" || in == "done" || in == "d":
		s.state = Done
	case in == "help" || in == "h" || in == "?":
		s.state = ShowingHelp
	case in == "list" || in == "l":
		s.state = ListingSelected
	case in == "quit" || in == "q" || in == "exit":
		s.sel.Clear()
		s.state = Aborted
	case in == "..":
		s.moveUp()
	case in == "r" || in == "/":
		s.cwd = s.root
	case in == "*":
		s.selectListedFiles(items)
	case in == "**":
		s.selectRecursive()
	case strings.HasPrefix(in, "g "):
		s.selectGlob(items, strings.TrimSpace(in[2:]))
	case strings.HasPrefix(in, "u ") || in == "u":
		s.unselect(items, strings.TrimSpace(strings.TrimPrefix(in, "u")))
	case isIndex(in):
		n, _ := strconv.Atoi(in)
		s.pickIndex(items, n)
	case rangeRe.MatchString(in):
		s.pickRange(items, in)
	case isIndexList(in):
		s.pickIndexList(items, in)
	default:
		s.resolvePath(in)
	}
}

// relCwd returns the current directory relative to the root, "" at the root.
func (s *Session) relCwd() string {
	rel, err := filepath.Rel(s.root, s.cwd)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (s *Session) moveUp() {
	if s.cwd == s.root {
		s.pendingErr = "already at repository root"
		return
	}
	s.cwd = filepath.Dir(s.cwd)
}

// selectListedFiles selects every file item in the listing that is not yet
// selected; directories are skipped silently.
func (s *Session) selectListedFiles(items []listing.Item) {
	for _, it := range items {
		if it.Dir {
			continue
		}
		s.sel.Add(filepath.Join(s.cwd, it.Name))
	}
}

// selectRecursive selects every tracked file under the current directory,
// regardless of whether it appears in the listing.
func (s *Session) selectRecursive() {
	for _, rel := range s.ix.FilesUnder(s.relCwd()) {
		s.sel.Add(filepath.Join(s.root, filepath.FromSlash(rel)))
	}
}

// selectGlob selects tracked files under the current directory whose path
// relative to it matches pattern.
func (s *Session) selectGlob(items []listing.Item, pattern string) {
	if pattern == "" {
		s.pendingErr = "usage: g <pattern>"
		return
	}
	if !doublestar.ValidatePattern(pattern) {
		s.pendingErr = fmt.Sprintf("invalid glob pattern %q", pattern)
		return
	}

	prefix := ""
	if rel := s.relCwd(); rel != "" {
		prefix = rel + "/"
	}
	matched := 0
	for _, rel := range s.ix.FilesUnder(s.relCwd()) {
		ok, err := doublestar.Match(pattern, strings.TrimPrefix(rel, prefix))
		if err != nil || !ok {
			continue
		}
		s.sel.Add(filepath.Join(s.root, filepath.FromSlash(rel)))
		matched++
	}
	if matched == 0 {
		s.pendingErr = fmt.Sprintf("no files match %q", pattern)
	}
}

// pickIndex descends into a directory item or selects a file item.
func (s *Session) pickIndex(items []listing.Item, n int) {
	if n < 0 || n >= len(items) {
		s.pendingErr = fmt.Sprintf("index %d out of range (0-%d)", n, len(items)-1)
		return
	}
	it := items[n]
	if it.Dir {
		s.cwd = filepath.Join(s.cwd, it.Name)
		return
	}
	path := filepath.Join(s.cwd, it.Name)
	if !s.sel.Add(path) {
		s.pendingErr = fmt.Sprintf("%s is already selected", it.Name)
	}
}

// pickRange selects every file item with index in [lo, hi]. Invalid bounds
// select nothing; directories in range are skipped without error.
func (s *Session) pickRange(items []listing.Item, in string) {
	m := rangeRe.FindStringSubmatch(in)
	lo, _ := strconv.Atoi(m[1])
	hi, _ := strconv.Atoi(m[2])
	if lo > hi || hi >= len(items) {
		s.pendingErr = fmt.Sprintf("invalid range %s for %d items", in, len(items))
		return
	}
	for i := lo; i <= hi; i++ {
		if items[i].Dir {
			continue
		}
		s.sel.Add(filepath.Join(s.cwd, items[i].Name))
	}
}

// pickIndexList selects every listed index that resolves to a file. Indices
// that miss or resolve to directories produce per-item notes but do not
// abort the rest.
func (s *Session) pickIndexList(items []listing.Item, in string) {
	var notes []string
	for _, tok := range strings.Split(in, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			notes = append(notes, fmt.Sprintf("%q is not an index", strings.TrimSpace(tok)))
			continue
		}
		if n < 0 || n >= len(items) {
			notes = append(notes, fmt.Sprintf("index %d out of range", n))
			continue
		}
		if items[n].Dir {
			notes = append(notes, fmt.Sprintf("index %d is a directory", n))
			continue
		}
		s.sel.Add(filepath.Join(s.cwd, items[n].Name))
	}
	if len(notes) > 0 {
		s.pendingErr = strings.Join(notes, "; ")
	}
}

// unselect removes one selection by display index, by path, or clears the
// whole set with "*".
func (s *Session) unselect(items []listing.Item, arg string) {
	switch {
	case arg == "":
		s.pendingErr = "usage: u <index>, u <path>, or u *"
	case arg == "*":
		s.sel.Clear()
	case isIndex(arg):
		n, _ := strconv.Atoi(arg)
		if n < 0 || n >= len(items) {
			s.pendingErr = fmt.Sprintf("index %d out of range (0-%d)", n, len(items)-1)
			return
		}
		path := filepath.Join(s.cwd, items[n].Name)
		if !s.sel.Remove(path) {
			s.pendingErr = fmt.Sprintf("%s is not selected", items[n].Name)
		}
	default:
		abs, err := s.resolveAbs(arg)
		if err != nil {
			s.pendingErr = err.Error()
			return
		}
		if !s.sel.Remove(abs) {
			s.pendingErr = fmt.Sprintf("%s is not selected", arg)
		}
	}
}

// resolvePath treats input as a filesystem path: navigate into directories,
// select files, otherwise report a miss with close tracked paths suggested.
func (s *Session) resolvePath(in string) {
	abs, err := s.resolveAbs(in)
	if err != nil {
		s.pendingErr = err.Error()
		return
	}

	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		s.pendingErr = fmt.Sprintf("%s is outside the repository", in)
		return
	}
	if rel == "." {
		s.cwd = s.root
		return
	}

	slashRel := filepath.ToSlash(rel)
	switch {
	case s.ix.IsDir(slashRel):
		s.cwd = abs
	case s.ix.Contains(slashRel):
		if !s.sel.Add(abs) {
			s.pendingErr = fmt.Sprintf("%s is already selected", slashRel)
		}
	default:
		s.pendingErr = s.pathNotFound(slashRel)
	}
}

// resolveAbs expands "~" and resolves relative input against the current
// directory.
func (s *Session) resolveAbs(in string) (string, error) {
	path := in
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand %q: %w", in, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cwd, path)
	}
	return filepath.Clean(path), nil
}

// pathNotFound builds the miss message, with up to three fuzzy-matched
// tracked paths as suggestions.
func (s *Session) pathNotFound(query string) string {
	var paths []string
	for _, e := range s.ix.Files() {
		paths = append(paths, e.Path)
	}

	matches := fuzzy.Find(query, paths)
	if len(matches) == 0 {
		return fmt.Sprintf("path not found: %s", query)
	}
	n := len(matches)
	if n > 3 {
		n = 3
	}
	var hints []string
	for _, m := range matches[:n] {
		hints = append(hints, paths[m.Index])
	}
	return fmt.Sprintf("path not found: %s (did you mean %s?)", query, strings.Join(hints, ", "))
}

func isIndex(in string) bool {
	if in == "" {
		return false
	}
	for _, r := range in {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isIndexList reports whether in is a comma-separated list of indices.
func isIndexList(in string) bool {
	if !strings.Contains(in, ",") {
		return false
	}
	for _, tok := range strings.Split(in, ",") {
		if !isIndex(strings.TrimSpace(tok)) {
			return false
		}
	}
	return true
}
