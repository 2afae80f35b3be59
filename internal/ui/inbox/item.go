package inbox

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailpilot/internal/mailutil"
	"github.com/nhle/mailpilot/internal/model"
	"github.com/nhle/mailpilot/internal/theme"
)

// EmailItem wraps a model.EmailHeader so it can be used in a bubbles/list.
type EmailItem struct {
	Header model.EmailHeader
}

// FilterValue returns the string used for search matching.
func (i EmailItem) FilterValue() string {
	return strings.Join([]string{i.Header.Subject, i.Header.Sender, i.Header.Snippet}, " ")
}

// Title returns the subject line, or a placeholder when it is empty.
func (i EmailItem) Title() string {
	if strings.TrimSpace(i.Header.Subject) == "" {
		return "(no subject)"
	}
	return i.Header.Subject
}

// Description returns the sender and snippet.
func (i EmailItem) Description() string {
	return mailutil.SenderName(i.Header.Sender) + " | " + i.Header.Snippet
}

// ItemDelegate implements list.ItemDelegate for rendering inbox rows.
type ItemDelegate struct {
	// opened points at the id of the message shown in the message pane.
	// Shared by reference with the inbox Model so updates are visible.
	opened *string
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a two-line inbox row: sender and subject, then the snippet.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(EmailItem)
	if !ok {
		return
	}

	width := m.Width() - 4
	if width < 10 {
		width = 10
	}

	marker := " "
	if d.opened != nil && *d.opened == ei.Header.ID {
		marker = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("●")
	}

	sender := theme.AccentStyle.Render(clip(mailutil.SenderName(ei.Header.Sender), 24))
	first := fmt.Sprintf("%s %s  %s", marker, sender, clip(ei.Title(), width-28))
	second := "  " + theme.DimmedStyle.Render(clip(oneLine(ei.Header.Snippet), width-2))

	line := first + "\n" + second
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
