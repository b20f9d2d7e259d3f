// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SessionList displays past conversations in a navigable list.
type SessionList struct {
	records  []domain.ChatRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSessionList creates a new session list component.
func NewSessionList(s *styles.Styles) *SessionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SessionList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *SessionList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SessionList) Update(msg tea.Msg) (*SessionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of the list.
func (l *SessionList) View() string {
	if len(l.records) == 0 {
		return l.styles.Muted.Render("No conversations in the last 7 days")
	}

	visible := l.height - 2
	if visible < 1 {
		visible = 1
	}

	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.records) {
		end = len(l.records)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRecord(i, &l.records[i]))
	}
	return strings.Join(lines, "\n")
}

// renderRecord formats one conversation as a single line.
func (l *SessionList) renderRecord(index int, rec *domain.ChatRecord) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	title := rec.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	maxTitle := l.width - 24
	if maxTitle < 10 {
		maxTitle = 10
	}
	if runes := []rune(title); len(runes) > maxTitle {
		title = string(runes[:maxTitle-3]) + "..."
	}

	when := rec.Timestamp.Format("Jan 02 15:04")
	if index == l.selected {
		return l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitle, title, when))
	}
	return l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitle, title)) +
		l.styles.Muted.Render(when)
}

// SetRecords replaces the list contents and resets the selection.
func (l *SessionList) SetRecords(records []domain.ChatRecord) {
	l.records = records
	l.selected = 0
}

// Records returns the current records.
func (l *SessionList) Records() []domain.ChatRecord {
	return l.records
}

// Remove drops the record with the given id, keeping the selection in range.
func (l *SessionList) Remove(id string) {
	for i := range l.records {
		if l.records[i].ID == id {
			l.records = append(l.records[:i:i], l.records[i+1:]...)
			break
		}
	}
	if l.selected >= len(l.records) && l.selected > 0 {
		l.selected = len(l.records) - 1
	}
}

// Selected returns the index of the selected record.
func (l *SessionList) Selected() int {
	return l.selected
}

// SelectedRecord returns the currently selected record, or nil if none.
func (l *SessionList) SelectedRecord() *domain.ChatRecord {
	if l.selected < 0 || l.selected >= len(l.records) {
		return nil
	}
	return &l.records[l.selected]
}

// MoveUp moves selection up.
func (l *SessionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SessionList) MoveDown() {
	if l.selected < len(l.records)-1 {
		l.selected++
	}
}

// SetDimensions sets the list's size.
func (l *SessionList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}
