package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/notegraph/notegraph/pkg/model"
	"github.com/notegraph/notegraph/pkg/render"
)

// previewLines is how much note content the panel shows
const previewLines = 3

// DetailsModel is the side panel for the selected note and its outgoing
// connections
type DetailsModel struct {
	note         model.Note
	hasNote      bool
	connections  []model.Note
	selectedItem int
	scrollOffset int
	width        int
	height       int
	theme        Theme
}

// NewDetailsModel creates an empty panel
func NewDetailsModel(theme Theme) DetailsModel {
	return DetailsModel{theme: theme}
}

// SetNote shows note and its resolved connections. The highlighted
// connection is kept when it is still listed.
func (m *DetailsModel) SetNote(note model.Note, connections []model.Note) {
	prev := m.SelectedConnectionID()
	sameNote := m.hasNote && m.note.ID == note.ID

	m.note = note
	m.hasNote = true
	m.connections = connections

	if !sameNote {
		m.selectedItem = 0
		m.scrollOffset = 0
	} else {
		m.selectedItem = 0
		for i, c := range connections {
			if c.ID == prev {
				m.selectedItem = i
			}
		}
	}
	if m.selectedItem >= len(connections) {
		m.selectedItem = max(len(connections)-1, 0)
	}
	m.ensureVisible()
}

// Clear empties the panel
func (m *DetailsModel) Clear() {
	*m = DetailsModel{theme: m.theme, width: m.width, height: m.height}
}

// HasNote reports whether a note is shown
func (m *DetailsModel) HasNote() bool { return m.hasNote }

// SetSize updates the view dimensions
func (m *DetailsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves the connection highlight up
func (m *DetailsModel) MoveUp() {
	if m.selectedItem > 0 {
		m.selectedItem--
	}
	m.ensureVisible()
}

// MoveDown moves the connection highlight down
func (m *DetailsModel) MoveDown() {
	if m.selectedItem < len(m.connections)-1 {
		m.selectedItem++
	}
	m.ensureVisible()
}

// SelectedConnectionID returns the highlighted connection, or ""
func (m *DetailsModel) SelectedConnectionID() string {
	if m.selectedItem < 0 || m.selectedItem >= len(m.connections) {
		return ""
	}
	return m.connections[m.selectedItem].ID
}

// headerLines counts the lines above the connection list
func (m *DetailsModel) headerLines() int {
	n := 4 // title, category, blank, connections header
	if len(m.note.Tags) > 0 {
		n++
	}
	if m.note.Content != "" {
		n += min(len(strings.Split(m.note.Content, "\n")), previewLines) + 1
	}
	return n
}

// ensureVisible adjusts scroll to keep the highlighted connection visible
func (m *DetailsModel) ensureVisible() {
	lineNum := m.headerLines() + m.selectedItem

	visibleLines := m.height - 2 // account for the footer
	if visibleLines < 5 {
		visibleLines = 5
	}

	if lineNum < m.scrollOffset {
		m.scrollOffset = lineNum
	} else if lineNum >= m.scrollOffset+visibleLines {
		m.scrollOffset = lineNum - visibleLines + 1
	}
}

// Render renders the panel
func (m *DetailsModel) Render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	t := m.theme
	inner := m.width - 2
	var lines []string

	if !m.hasNote {
		emptyStyle := t.Renderer.NewStyle().
			Foreground(t.Secondary).
			Italic(true).
			Padding(1, 1)
		return emptyStyle.Width(m.width).Render("Click a note to see its details.")
	}

	titleStyle := t.Renderer.NewStyle().
		Bold(true).
		Foreground(t.Primary)
	title := m.note.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	lines = append(lines, titleStyle.Render(truncate(title, inner, "…")))

	dot := t.Renderer.NewStyle().Foreground(lipgloss.Color(render.CategoryHex(m.note.Category))).Render("●")
	category := m.note.Category
	if category == "" {
		category = "(none)"
	}
	lines = append(lines, dot+" "+truncate(category, inner-2, "…"))

	if len(m.note.Tags) > 0 {
		tagStyle := t.Renderer.NewStyle().Foreground(t.Secondary)
		tags := "#" + strings.Join(m.note.Tags, " #")
		lines = append(lines, tagStyle.Render(truncate(tags, inner, "…")))
	}

	if m.note.Content != "" {
		contentStyle := t.Renderer.NewStyle().Foreground(t.Secondary)
		content := strings.Split(m.note.Content, "\n")
		for i, line := range content {
			if i == previewLines {
				break
			}
			if i == previewLines-1 && len(content) > previewLines {
				line += " …"
			}
			lines = append(lines, contentStyle.Render(truncate(line, inner, "…")))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "")
	headerStyle := t.Renderer.NewStyle().
		Bold(true).
		Foreground(t.Secondary)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("CONNECTIONS (%d)", len(m.connections))))

	if len(m.connections) == 0 {
		lines = append(lines, t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render("  none"))
	}
	for i, c := range m.connections {
		isSelected := i == m.selectedItem

		var item strings.Builder
		if isSelected {
			item.WriteString("▸ ")
		} else {
			item.WriteString("  ")
		}
		if i < len(m.connections)-1 {
			item.WriteString("├─ ")
		} else {
			item.WriteString("└─ ")
		}

		maxTitleLen := inner - lipgloss.Width(item.String())
		if maxTitleLen < 5 {
			maxTitleLen = 5
		}
		item.WriteString(truncate(c.Title, maxTitleLen, "…"))

		lineStyle := t.Renderer.NewStyle()
		if isSelected {
			lineStyle = lineStyle.Background(t.Highlight).Bold(true)
		}
		lines = append(lines, lineStyle.Width(inner).Render(item.String()))
	}

	// Apply scroll offset
	visibleLines := m.height - 2
	if visibleLines < 1 {
		visibleLines = 1
	}

	startLine := m.scrollOffset
	if startLine > len(lines)-visibleLines {
		startLine = len(lines) - visibleLines
	}
	if startLine < 0 {
		startLine = 0
	}

	endLine := startLine + visibleLines
	if endLine > len(lines) {
		endLine = len(lines)
	}

	footerStyle := t.Renderer.NewStyle().Foreground(t.Muted)
	footer := footerStyle.Render(truncate("enter open · a link · x unlink", inner, "…"))

	body := strings.Join(lines[startLine:endLine], "\n")
	return t.Renderer.NewStyle().Width(m.width).Padding(0, 1).Render(body + "\n\n" + footer)
}
