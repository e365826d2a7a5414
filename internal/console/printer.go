// Package console renders the run for a human at a terminal.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"simple-agent/internal/query"
)

const width = 70

// Printer writes formatted progress to w. Colour is used only when w is a
// terminal.
type Printer struct {
	w      io.Writer
	title  lipgloss.Style
	label  lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	fail   lipgloss.Style
	subtle lipgloss.Style
}

// NewPrinter creates a printer writing to w
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		title:  r.NewStyle().Bold(true),
		label:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		ok:     r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
		fail:   r.NewStyle().Foreground(lipgloss.Color("9")),
		subtle: r.NewStyle().Faint(true),
	}
}

func rule(c string) string { return strings.Repeat(c, width) }

// Banner prints the run header
func (p *Printer) Banner(title, subtitle string) {
	fmt.Fprintf(p.w, "\n%s\n%s\n   %s\n%s\n", rule("="), p.title.Render(title), subtitle, rule("="))
}

// AgentCreated prints the agent summary, one indented line per field
func (p *Printer) AgentCreated(summary string) {
	fmt.Fprintf(p.w, "\n%s\n", p.ok.Render("✅ Agent created successfully!"))
	for _, line := range strings.Split(summary, "\n") {
		fmt.Fprintf(p.w, "   %s\n", line)
	}
}

// Success prints a one-line success note
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.w, "\n%s\n", p.ok.Render("✅ "+msg))
}

// Warning prints a one-line warning
func (p *Printer) Warning(msg string) {
	fmt.Fprintf(p.w, "\n%s\n", p.warn.Render("⚠️  "+msg))
}

// Error prints the error and the chain of causes below it.
func (p *Printer) Error(err error, causes []string) {
	fmt.Fprintf(p.w, "\n%s\n", p.fail.Render("❌ Error: "+err.Error()))
	for _, c := range causes {
		fmt.Fprintf(p.w, "%s\n", p.subtle.Render("   caused by: "+c))
	}
}

func (p *Printer) QueryStarted(index int, q string) {
	fmt.Fprintf(p.w, "\n%s\n%s %s\n%s\n", rule("="), p.label.Render("💬 Query:"), q, rule("-"))
}

func (p *Printer) QueryFinished(index int, res query.Result) {
	fmt.Fprintf(p.w, "\n%s\n%s\n", p.label.Render("🤖 Agent Response:"), res)
	if len(res.Tools) > 0 {
		fmt.Fprintf(p.w, "%s\n", p.subtle.Render("   tools: "+strings.Join(res.Tools, ", ")))
	}
	if len(res.Searches) > 0 {
		fmt.Fprintf(p.w, "%s\n", p.subtle.Render("   searched: "+strings.Join(res.Searches, "; ")))
	}
	fmt.Fprintf(p.w, "%s\n\n", rule("="))
}

var _ query.Reporter = (*Printer)(nil)
