package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stationhub/internal/domain"
)

// CommitItem is a commit as a list item
type CommitItem struct {
	Commit domain.Commit
}

func (i CommitItem) FilterValue() string { return i.Commit.Title }

// CommitDelegate renders one commit title per line and highlights the
// selected one, if any
type CommitDelegate struct {
	Styles   *Styles
	Selected func() (int, bool)
}

func (d CommitDelegate) Height() int                             { return 1 }
func (d CommitDelegate) Spacing() int                            { return 0 }
func (d CommitDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d CommitDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(CommitItem)
	if !ok {
		return
	}

	title := ci.Commit.Title
	if width := m.Width(); width > 2 && lipgloss.Width(title) > width-2 {
		title = truncate(title, width-2)
	}

	if d.Selected != nil {
		if sel, ok := d.Selected(); ok && sel == index {
			fmt.Fprint(w, d.Styles.HighlightBg.Render("> "+title))
			return
		}
	}
	fmt.Fprint(w, "  "+title)
}

// InstallationColumns are the columns of the installations table
func InstallationColumns() []table.Column {
	return []table.Column{
		{Title: "Version", Width: 20},
		{Title: "State", Width: 24},
	}
}

// InstallationRows converts a snapshot into table rows
func InstallationRows(items []domain.Installation) []table.Row {
	rows := make([]table.Row, 0, len(items))
	for _, inst := range items {
		rows = append(rows, table.Row{inst.Version.String(), inst.Kind.String()})
	}
	return rows
}

// TableStyles returns the table styles, hiding the cursor row highlight
// when nothing is selected
func TableStyles(selected bool) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("241")).
		BorderBottom(true).
		Bold(true)
	if selected {
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	} else {
		s.Selected = lipgloss.NewStyle()
	}
	return s
}

// RenderTabs renders the tab bar
func RenderTabs(styles *Styles, names []string, active int) string {
	rendered := make([]string, len(names))
	for i, name := range names {
		if i == active {
			rendered[i] = styles.ActiveTab.Render(name)
		} else {
			rendered[i] = styles.Tab.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// RenderCommitDetails renders the author panel for the selected commit
func RenderCommitDetails(styles *Styles, c domain.Commit, width int) string {
	var b strings.Builder
	b.WriteString(styles.Highlight.Render("author: "))
	b.WriteString(c.Author.Name)
	if c.Author.Date != "" {
		b.WriteString("\n")
		b.WriteString(styles.Dim.Render(c.Author.Date))
	}
	if c.SHA != "" {
		b.WriteString("\n")
		b.WriteString(styles.Dim.Render(shortSHA(c.SHA)))
	}

	box := styles.InfoBox
	if width > 4 {
		box = box.Width(width - 2)
	}
	return box.Render(b.String())
}

// RenderInstallationDetails renders the panel for the selected installation
func RenderInstallationDetails(styles *Styles, inst domain.Installation) string {
	line := styles.KindStyle(inst.Kind).Render(inst.Kind.String())
	if inst.Kind.Type == domain.KindDownloading && inst.Kind.Total > 0 {
		line += "  " + progressBar(inst.Kind.Progress, inst.Kind.Total, 20)
	}
	return styles.InfoBox.Render(fmt.Sprintf("%s\n%s", styles.Highlight.Render(inst.Version.String()), line))
}

func progressBar(progress, total, width int) string {
	filled := progress * width / total
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
