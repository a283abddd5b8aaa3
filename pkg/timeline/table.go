package timeline

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/nextcore/choreo/pkg/transition"
)

// Table renders the recording. With colorize set, statuses and kinds are
// coloured with ANSI escapes.
func (r *Recorder) Table(colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"At", "Kind", "Source", "Detail"})
	for _, e := range r.entries {
		detail := e.Detail
		kind := e.Kind.String()
		if colorize {
			detail = statusColors(e).Sprint(detail)
			kind = kindColors(e.Kind).Sprint(kind)
		}
		tw.AppendRow(table.Row{formatAt(e.At), kind, e.Source, detail})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// WriteTable writes the table to w, colouring it when w is a terminal.
func (r *Recorder) WriteTable(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.Table(shouldColorize(w)))
	return err
}

func formatAt(d time.Duration) string {
	return fmt.Sprintf("%d ms", d.Milliseconds())
}

func statusColors(e Entry) text.Colors {
	if e.Kind != KindStatus && e.Kind != KindSettle {
		return nil
	}
	switch e.Status {
	case transition.Entering:
		return text.Colors{text.FgYellow}
	case transition.Entered:
		return text.Colors{text.FgGreen}
	case transition.Exiting:
		return text.Colors{text.FgRed}
	case transition.Exited:
		return text.Colors{text.FgHiBlack}
	default:
		return nil
	}
}

func kindColors(k Kind) text.Colors {
	switch k {
	case KindCue:
		return text.Colors{text.FgMagenta}
	case KindNavigation:
		return text.Colors{text.FgCyan, text.Bold}
	default:
		return nil
	}
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
