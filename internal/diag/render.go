package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Rendering format:
//
//	<path>:<line>:<col>: error[<Code>]: <message>
//	    3 | 	5 = x;
//	      | 	^~~~
//
// Colors obey the package-global color.NoColor, which the CLI sets from
// its --color flag and TTY detection.
var (
	headColor   = color.New(color.Bold)
	errColor    = color.New(color.FgRed, color.Bold)
	gutterColor = color.New(color.FgCyan)
)

// Render writes the error with one line of source context and a caret
// underline covering the offending span.
func Render(w io.Writer, e *Error) {
	pos := e.Position()
	path := "<input>"
	if e.File != nil {
		path = e.File.Path
	}

	headColor.Fprintf(w, "%s:%d:%d: ", path, pos.Line, pos.Col)
	errColor.Fprintf(w, "error[%s]", e.Code)
	fmt.Fprintf(w, ": %s\n", e.Msg)

	if e.File == nil {
		return
	}
	line := e.File.Line(pos.Line)
	if line == "" {
		return
	}

	gutter := fmt.Sprintf("%5d | ", pos.Line)
	fmt.Fprintf(w, "%s%s\n", gutterColor.Sprint(gutter), line)

	// Caret row. Tabs in the prefix are preserved so the caret lines up.
	prefix := line[:min(int(pos.Col)-1, len(line))]
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return '\t'
		}
		return ' '
	}, prefix)

	width := int(e.Span.Len())
	if width < 1 {
		width = 1
	}
	if rest := len(line) - len(prefix); width > rest && rest > 0 {
		width = rest
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s%s%s\n", gutterColor.Sprint("      | "), pad, errColor.Sprint(marker))
}
