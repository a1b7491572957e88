package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"stationhub/internal/domain"
)

// PagerOps shows long text in ov while the program yields the terminal
type PagerOps struct {
	program *tea.Program
}

// NewPagerOps creates a pager bound to program
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{program: program}
}

// Show runs ov over content until the user leaves it
func (p *PagerOps) Show(content string) error {
	if p == nil || p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// let ov finish with the screen before bubbletea takes it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// commitPagerContent is the text shown for a commit in the pager
func commitPagerContent(c domain.Commit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "commit %s\n", c.SHA)
	fmt.Fprintf(&b, "Author: %s", c.Author.Name)
	if c.Author.Email != "" {
		fmt.Fprintf(&b, " <%s>", c.Author.Email)
	}
	b.WriteString("\n")
	if c.Author.Date != "" {
		fmt.Fprintf(&b, "Date:   %s\n", c.Author.Date)
	}
	if c.URL != "" {
		fmt.Fprintf(&b, "URL:    %s\n", c.URL)
	}
	b.WriteString("\n")
	for _, line := range strings.Split(c.Message, "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
