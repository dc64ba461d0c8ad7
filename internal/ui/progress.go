package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

const maxBarWidth = 50

type progressMsg struct {
	written, total int64
}

type finishMsg struct{}

// progressModel shows one download's progress on a single line.
type progressModel struct {
	label   string
	bar     progress.Model
	written int64
	total   int64
}

func newProgressModel(label string) progressModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = maxBarWidth
	return progressModel{label: label, bar: bar, total: -1}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.written, m.total = msg.written, msg.total
	case tea.WindowSizeMsg:
		m.bar.Width = min(maxBarWidth, max(10, msg.Width-len(m.label)-24))
	case finishMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	done := humanize.Bytes(uint64(max(m.written, 0)))
	if m.total <= 0 {
		return fmt.Sprintf("%s %s\n", m.label, done)
	}
	pct := float64(m.written) / float64(m.total)
	return fmt.Sprintf("%s %s %s/%s\n", m.label, m.bar.ViewAs(min(pct, 1)), done, humanize.Bytes(uint64(m.total)))
}

// ProgressBar is a running progress display. The zero value and nil are
// valid no-op bars.
type ProgressBar struct {
	prog *tea.Program
	done chan struct{}
}

// StartProgress starts a progress display on out when out is a terminal and
// returns nil otherwise.
func StartProgress(ctx context.Context, out io.Writer, label string) *ProgressBar {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}

	b := &ProgressBar{
		prog: tea.NewProgram(newProgressModel(label),
			tea.WithContext(ctx),
			tea.WithOutput(out),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(b.done)
		_, _ = b.prog.Run()
	}()
	return b
}

// Update reports download progress; total is -1 when unknown.
func (b *ProgressBar) Update(written, total int64) {
	if b == nil || b.prog == nil {
		return
	}
	b.prog.Send(progressMsg{written: written, total: total})
}

// Stop renders the final state and waits for the display to exit.
func (b *ProgressBar) Stop() {
	if b == nil || b.prog == nil {
		return
	}
	b.prog.Send(finishMsg{})
	<-b.done
}
