// Package console prints the human-readable output of the command-line tools.
package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spotvoice/internal/config"
)

const (
	wideRule   = 70
	narrowRule = 60
)

var (
	colorAccent = lipgloss.Color("#0969da")
	colorMuted  = lipgloss.Color("#656d76")
	colorError  = lipgloss.Color("#cf222e")
)

// Printer writes to w. Styles are bound to w, so colors are dropped when w is not a terminal.
type Printer struct {
	w        io.Writer
	banner   lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	errStyle lipgloss.Style
}

func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w: w,
		banner: r.NewStyle().
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(0, 9),
		accent:   r.NewStyle().Bold(true).Foreground(colorAccent),
		muted:    r.NewStyle().Foreground(colorMuted),
		errStyle: r.NewStyle().Bold(true).Foreground(colorError),
	}
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *Printer) Rule(ch string, width int) {
	fmt.Fprintln(p.w, strings.Repeat(ch, width))
}

// Error prints "ERROR: " followed by each line of msg.
func (p *Printer) Error(msg string, hints ...string) {
	fmt.Fprintln(p.w, p.errStyle.Render("ERROR:")+" "+msg)
	for _, h := range hints {
		fmt.Fprintln(p.w, h)
	}
}

func (p *Printer) Banner(title string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.banner.Render(title))
	fmt.Fprintln(p.w)
}

// ConfigError prints a config validation failure with a setup hint for a missing key.
func (p *Printer) ConfigError(err error) {
	if errors.Is(err, config.ErrMissingAPIKey) {
		p.Error("TINKER_API_KEY not found in environment.", "Add it to .env file or export TINKER_API_KEY=your_key")
		return
	}
	p.Error(err.Error())
}
