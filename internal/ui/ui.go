// Package ui renders extraction results for the terminal.
// Styling is applied only when the destination is a terminal; piped output
// stays plain text.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cnnvideo/internal/extract"
	"cnnvideo/internal/media"
)

// Printer writes human-readable listings to out.
type Printer struct {
	out    io.Writer
	header lipgloss.Style
	label  lipgloss.Style
	cell   lipgloss.Style
}

// NewPrinter returns a Printer whose color profile follows out.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:    out,
		header: r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		label:  r.NewStyle().Faint(true),
		cell:   r.NewStyle(),
	}
}

// Summary prints the key fields of info.
func (p *Printer) Summary(info *media.Info) {
	fmt.Fprintln(p.out, p.header.Render(info.Title))
	p.field("id", info.ID)
	if info.Duration != nil {
		p.field("duration", FormatDuration(*info.Duration))
	}
	if info.UploadDate != nil {
		p.field("uploaded", *info.UploadDate)
	}
	p.field("formats", strconv.Itoa(len(info.Formats)))
	if info.Description != "" {
		p.field("description", info.Description)
	}
}

func (p *Printer) field(name, value string) {
	fmt.Fprintf(p.out, "  %s %s\n", p.label.Render(fmt.Sprintf("%-12s", name+":")), value)
}

// Formats prints a table of formats, worst first.
func (p *Printer) Formats(formats []media.Format) {
	rows := make([][]string, 0, len(formats))
	for _, f := range formats {
		rows = append(rows, []string{f.FormatID, f.Ext, resolution(f), bitrate(f), f.URL})
	}
	p.table([]string{"format", "ext", "resolution", "tbr", "url"}, rows)
}

// Extractors prints the registered extractors in dispatch order.
func (p *Printer) Extractors(list []extract.Extractor) {
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{e.Key(), e.Pattern()})
	}
	p.table([]string{"key", "pattern"}, rows)
}

// table left-aligns columns to their widest cell.
func (p *Printer) table(header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	line := func(style lipgloss.Style, cells []string) string {
		out := make([]string, len(cells))
		for i, c := range cells {
			out[i] = style.Render(c + strings.Repeat(" ", widths[i]-lipgloss.Width(c)))
		}
		return strings.TrimRight(strings.Join(out, "  "), " ")
	}

	fmt.Fprintln(p.out, line(p.header, header))
	for _, row := range rows {
		fmt.Fprintln(p.out, line(p.cell, row))
	}
}

func resolution(f media.Format) string {
	switch {
	case f.AudioOnly():
		return "audio only"
	case f.Width != nil && f.Height != nil:
		return fmt.Sprintf("%dx%d", *f.Width, *f.Height)
	default:
		return "unknown"
	}
}

func bitrate(f media.Format) string {
	if f.TBR == nil {
		return ""
	}
	return fmt.Sprintf("%dk", *f.TBR)
}

// FormatDuration renders seconds as [h:]mm:ss.
func FormatDuration(secs float64) string {
	total := int(secs + 0.5)
	h, m, s := total/3600, total%3600/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
