package errz

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders errors with source context for display in a terminal.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorError    = color.New(color.FgRed)
	colorErrorHdr = color.New(color.FgHiRed, color.Bold)
	colorLocation = color.New(color.FgCyan)
	colorGutter   = color.New(color.FgHiBlack)
	colorCaret    = color.New(color.FgHiRed)
	colorHint     = color.New(color.FgHiYellow)
)

// FormattedError is an error ready for display.
type FormattedError struct {
	Kind       string // "syntax error", "undeclared variable", ...
	Message    string
	Filename   string
	Line       int // 1-indexed, 0 if unknown
	Column     int // 1-indexed
	EndColumn  int
	SourceLine string
	Hint       string
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	// Overrides color.NoColor.
	c.EnableColor()
	return c.Sprint(s)
}

// Format renders one error.
func (f *Formatter) Format(err *FormattedError) string {
	return f.formatWithPrefix(err, "")
}

func (f *Formatter) formatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder
	width := 2
	if err.Line >= 100 {
		width = len(fmt.Sprint(err.Line))
	}
	pad := strings.Repeat(" ", width)

	label := err.Kind
	if label == "" {
		label = "error"
	}
	if prefix != "" {
		label = fmt.Sprintf("%s[%s]", label, prefix)
	}
	b.WriteString(f.paint(colorErrorHdr, label))
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Line > 0 {
		loc := fmt.Sprintf("%d:%d", err.Line, err.Column)
		if err.Filename != "" {
			loc = err.Filename + ":" + loc
		}
		b.WriteString(pad + f.paint(colorLocation, "-->") + " " + f.paint(colorLocation, loc) + "\n")
	}

	if err.SourceLine != "" {
		b.WriteString(pad + f.paint(colorGutter, " |") + "\n")
		b.WriteString(f.paint(colorGutter, fmt.Sprintf("%*d | ", width, err.Line)))
		b.WriteString(err.SourceLine + "\n")
		if err.Column > 0 {
			n := 1
			if err.EndColumn > err.Column {
				n = err.EndColumn - err.Column
			}
			b.WriteString(pad + f.paint(colorGutter, " | "))
			b.WriteString(strings.Repeat(" ", err.Column-1))
			b.WriteString(f.paint(colorCaret, strings.Repeat("^", n)) + "\n")
		}
	}

	if err.Hint != "" {
		b.WriteString(pad + f.paint(colorGutter, " = ") + f.paint(colorHint, "hint: ") + err.Hint + "\n")
	}
	return b.String()
}

// FormatMultiple renders several errors, numbering them when there is more
// than one.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return f.Format(errs[0])
	}
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.formatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, len(errs))))
	}
	b.WriteString("\n")
	b.WriteString(f.paint(colorErrorHdr, fmt.Sprintf("found %d errors", len(errs))))
	b.WriteString("\n")
	return b.String()
}
