package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// printer writes the messages of the commands to the user.
// Colors are only used when the output is a terminal
type printer struct {
	out io.Writer

	digest  lipgloss.Style
	heading lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
	faint   lipgloss.Style
}

func newPrinter(out io.Writer) *printer {
	r := lipgloss.NewRenderer(out)
	return &printer{
		out:     out,
		digest:  r.NewStyle().Foreground(lipgloss.Color("3")),
		heading: r.NewStyle().Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		faint:   r.NewStyle().Faint(true),
	}
}

// Printf writes a message prefixed by the name of the program
func (p *printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, "gini: "+format+"\n", args...)
}

// Println writes a raw line
func (p *printer) Println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func (p *printer) Digest(s string) string {
	return p.digest.Render(s)
}

func (p *printer) Heading(s string) string {
	return p.heading.Render(s)
}

func (p *printer) Warning(s string) string {
	return p.warning.Render(s)
}

func (p *printer) Success(s string) string {
	return p.success.Render(s)
}

func (p *printer) Faint(s string) string {
	return p.faint.Render(s)
}
