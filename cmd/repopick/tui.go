package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hayeah/repopick/internal/listing"
	"github.com/hayeah/repopick/internal/session"
)

var (
	pathStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Bold(true).
			Padding(0, 1)

	dirStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

const helpText = `Commands:
  <enter> / done / d   finish and copy the selection
  help / h / ?         show this help
  list / l             show what is selected so far
  quit / q / exit      abort, discarding the selection
  ..                   go to the parent directory
  r / /                go to the repository root
  N                    descend into directory N, or select file N
  N-M                  select every file with index in [N, M]
  N,M,...              select the listed file indices
  *                    select every file in this listing
  **                   select every file under this directory, recursively
  g <pattern>          select files matching a glob (e.g. g **/*.go)
  u N | u <path> | u * unselect by index, by path, or everything
  <path>               navigate to a directory or select a file by path`

// model is the Bubble Tea shell around the selection session. All state
// transitions happen inside the session; the model only renders and feeds
// it input lines.
type model struct {
	sess    *session.Session
	input   textinput.Model
	errLine string
}

func newModel(sess *session.Session) model {
	ti := textinput.New()
	ti.Placeholder = "index, range, path, or command (? for help)"
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Focus()

	return model{sess: sess, input: ti}
}

// Init is the first function called by Bubble Tea.
func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Update feeds complete input lines to the session and quits once it
// reaches a terminal state.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.sess.Acknowledge()
			m.sess.Execute("quit")
			return m, tea.Quit

		case "enter":
			// Overlays are acknowledged by any enter press.
			if st := m.sess.State(); st == session.ShowingHelp || st == session.ListingSelected {
				m.sess.Acknowledge()
				return m, nil
			}

			m.sess.Execute(m.input.Value())
			m.input.SetValue("")
			m.errLine = m.sess.TakeError()

			if st := m.sess.State(); st == session.Done || st == session.Aborted {
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the current directory listing, or one of the transient
// overlays.
func (m model) View() string {
	switch m.sess.State() {
	case session.Done, session.Aborted:
		return ""
	case session.ShowingHelp:
		return helpText + "\n\n(press enter to continue)\n"
	case session.ListingSelected:
		return m.selectedView()
	}
	return m.browseView()
}

func (m model) browseView() string {
	var b strings.Builder

	rel, _ := filepath.Rel(m.sess.Root(), m.sess.Cwd())
	header := filepath.Base(m.sess.Root())
	if rel != "." {
		header += "/" + filepath.ToSlash(rel)
	}
	b.WriteString(pathStyle.Render(header))
	b.WriteString("\n\n")

	items := m.sess.Listing()
	if len(items) == 0 {
		b.WriteString(previewStyle.Render(listing.EmptyDirPreview))
		b.WriteString("\n")
	}
	for i, it := range items {
		b.WriteString(m.renderItem(i, it))
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	if m.errLine != "" {
		b.WriteString(errorStyle.Render("! " + m.errLine))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

func (m model) renderItem(i int, it listing.Item) string {
	var b strings.Builder

	name := it.Name
	style := fileStyle
	if it.Dir {
		name += "/"
		style = dirStyle
	}

	mark := "  "
	if !it.Dir && m.sess.IsSelected(filepath.Join(m.sess.Cwd(), it.Name)) {
		mark = selectedStyle.Render("* ")
	}

	b.WriteString(fmt.Sprintf("%3d) %s%s  %s\n",
		i, mark, style.Render(name), timeStyle.Render(humanize.Time(it.ModTime))))

	for _, line := range it.Preview {
		b.WriteString(previewStyle.Render("         " + line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) statusLine() string {
	selected := m.sess.SelectedRel()
	if len(selected) == 0 {
		return "Selected: none\n"
	}

	shown := selected
	if len(shown) > 3 {
		shown = shown[:3]
	}
	line := fmt.Sprintf("Selected (%d): %s", len(selected), strings.Join(shown, ", "))
	if len(selected) > 3 {
		line += fmt.Sprintf(", … (+%d more)", len(selected)-3)
	}
	return line + "\n"
}

func (m model) selectedView() string {
	var b strings.Builder
	selected := m.sess.SelectedRel()

	b.WriteString(fmt.Sprintf("Selected files (%d):\n\n", len(selected)))
	if len(selected) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, p := range selected {
		b.WriteString("  " + p + "\n")
	}
	b.WriteString("\n(press enter to continue)\n")
	return b.String()
}
