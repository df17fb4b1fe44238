package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
	Path   = color.New(color.FgHiRed, color.Bold)
)

// NodeFills is the six-colour cycle used for node fills, indexed by id mod 6.
var NodeFills = [6]string{"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f"}

// PathStroke is the stroke of on-path edges; other edges use EdgeStroke.
const (
	PathStroke = "#ff0000"
	EdgeStroke = "#999999"
)

// nodeTerm approximates NodeFills in the terminal palette.
var nodeTerm = [6]*color.Color{
	color.New(color.FgHiGreen),
	color.New(color.FgHiRed),
	color.New(color.FgHiBlue),
	color.New(color.FgHiMagenta),
	color.New(color.FgGreen),
	color.New(color.FgHiYellow),
}

// paletteIndex keeps negative ids inside the palette.
func paletteIndex(id int64) int {
	i := int(id % 6)
	if i < 0 {
		i += 6
	}
	return i
}

// NodeFill returns the SVG fill of node id.
func NodeFill(id int64) string {
	return NodeFills[paletteIndex(id)]
}

// NodeLabel renders a node id in its palette colour.
func NodeLabel(id int64) string {
	return nodeTerm[paletteIndex(id)].Sprint(id)
}

// SetColor turns ANSI colour output on or off globally.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Banner prints the pathviz banner to w.
func Banner(w io.Writer, subtitle string) {
	fmt.Fprintf(w, "%s %s\n\n", Brand.Sprint("pathviz"), Subtle.Sprint(subtitle))
}

// Table prints a simple aligned table to stdout.
func Table(headers []string, rows [][]string) {
	TableTo(os.Stdout, headers, rows)
}

// TableTo prints a simple aligned table to w. Widths ignore ANSI escapes so
// coloured cells line up.
func TableTo(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += pad(h, widths[i])
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(w, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(w, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += pad(cell, widths[i])
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func pad(cell string, width int) string {
	return cell + strings.Repeat(" ", width-visibleLen(cell)) + "  "
}

// visibleLen counts runes outside ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			n++
		}
	}
	return n
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("⚠")
}
