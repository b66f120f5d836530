package style

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
)

// Printer writes user-facing status lines with colored indicators.
// All command output goes through one of these rather than raw
// fmt.Println so the no-color path stays consistent.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a Printer for the given writer. Color is enabled
// only when the writer is a terminal that supports it.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:   out,
		color: supportsColor(out),
	}
}

// supportsColor checks both tty-ness and the terminal's color profile.
func supportsColor(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}

func (p *Printer) line(indicator, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.color {
		fmt.Fprintf(p.out, "%s %s\n", indicator, msg)
		return
	}
	fmt.Fprintln(p.out, msg)
}

// Success prints a success line.
func (p *Printer) Success(format string, args ...interface{}) {
	p.line(SuccessIndicator, format, args...)
}

// Info prints an informational line.
func (p *Printer) Info(format string, args ...interface{}) {
	p.line(InfoIndicator, format, args...)
}

// Warning prints a warning line.
func (p *Printer) Warning(format string, args ...interface{}) {
	p.line(WarningIndicator, format, args...)
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...interface{}) {
	p.line(ErrorIndicator, format, args...)
}

// Skipped prints a muted line for no-op items.
func (p *Printer) Skipped(format string, args ...interface{}) {
	p.line(SkippedIndicator, format, args...)
}

// Title prints a section heading.
func (p *Printer) Title(text string) {
	if p.color {
		fmt.Fprintln(p.out, TitleStyle.Render(text))
		return
	}
	fmt.Fprintln(p.out, text)
}

// Path renders a filesystem path for inline display.
func (p *Printer) Path(path string) string {
	if p.color {
		return PathStyle.Render(path)
	}
	return path
}

// StatusStyle returns the pterm style used for summary lines.
func StatusStyle(ok bool) *pterm.Style {
	if ok {
		return pterm.NewStyle(pterm.FgGreen)
	}
	return pterm.NewStyle(pterm.FgRed)
}

// Summary prints the run summary line, green when everything
// succeeded and red otherwise.
func (p *Printer) Summary(ok bool, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.color {
		fmt.Fprintln(p.out, StatusStyle(ok).Sprint(msg))
		return
	}
	fmt.Fprintln(p.out, msg)
}
