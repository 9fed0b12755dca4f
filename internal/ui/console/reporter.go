package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/axekit/axe/internal/builder"
	"github.com/axekit/axe/internal/strutil"
)

// BuildReporter prints build events as they arrive and a summary at the
// end.
type BuildReporter struct {
	mu     sync.Mutex
	w      io.Writer
	status map[string]builder.Event
	order  []string
}

func NewBuildReporter(w io.Writer) *BuildReporter {
	return &BuildReporter{w: w, status: map[string]builder.Event{}}
}

func (r *BuildReporter) OnEvent(e builder.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.status[e.Library]; !ok {
		r.order = append(r.order, e.Library)
	}
	if e.Phase != builder.PhaseStep {
		r.status[e.Library] = e
	}
	switch e.Phase {
	case builder.PhaseSkip:
		fmt.Fprintln(r.w, text.FgHiBlack.Sprint("up-to-date: "+e.Library))
	case builder.PhaseStep:
		fmt.Fprintln(r.w, text.FgHiBlack.Sprintf("  %s [%s] ok", e.Library, e.Step))
	case builder.PhaseDone:
		fmt.Fprintln(r.w, colorGreen(fmt.Sprintf("built: %s (%s)", e.Library, e.Elapsed.Round(time.Millisecond))))
	case builder.PhaseFail:
		fmt.Fprintln(r.w, colorRed("failed:  "+e.Library))
		if e.Err != nil {
			fmt.Fprint(r.w, strutil.PrefixLines("    ", e.Err.Error()+"\n"))
		}
	}
}

// Summary renders the final state of every library seen.
func (r *BuildReporter) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tw := newTable()
	tw.AppendHeader(table.Row{"Library", "Result", "Detail"})
	for _, name := range r.order {
		e := r.status[name]
		detail := ""
		switch e.Phase {
		case builder.PhaseDone:
			detail = e.Elapsed.Round(time.Millisecond).String()
		case builder.PhaseFail:
			detail = e.Step
			if e.Err != nil {
				detail = strings.TrimSpace(strings.Join([]string{e.Step, firstLine(e.Err.Error())}, " "))
			}
		}
		tw.AppendRow(table.Row{name, phaseLabel(e.Phase), detail})
	}
	return tw.Render() + "\n"
}

func phaseLabel(p builder.Phase) string {
	switch p {
	case builder.PhaseDone:
		return colorGreen(p.String())
	case builder.PhaseFail:
		return colorRed(p.String())
	case builder.PhaseSkip:
		return text.FgHiBlack.Sprint(p.String())
	}
	return p.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func colorGreen(s string) string { return text.FgGreen.Sprint(s) }
func colorRed(s string) string   { return text.FgRed.Sprint(s) }
