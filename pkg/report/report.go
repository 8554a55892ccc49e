// Package report renders per-multiplexer statistics and the run summary for terminals.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-routesim/pkg/fault"
	"github.com/dd0wney/cluso-routesim/pkg/mux"
	"github.com/dd0wney/cluso-routesim/pkg/simulation"
)

// Summary is the run-level information printed after the multiplexers
type Summary struct {
	RunID   string
	Seed    uint64
	Input   string
	Output  string
	Totals  simulation.Totals
	Deleted int
	Elapsed time.Duration
}

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	faults  map[fault.Kind]lipgloss.Style
	failure lipgloss.Style
	box     lipgloss.Style
	rule    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF")),
		label: r.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
		value: r.NewStyle().Bold(true),
		faults: map[fault.Kind]lipgloss.Style{
			fault.FaultFree: r.NewStyle().Foreground(lipgloss.Color("#00FF00")),
			fault.StuckAt0:  r.NewStyle().Foreground(lipgloss.Color("#FFFF00")),
			fault.StuckAt1:  r.NewStyle().Foreground(lipgloss.Color("#FF8800")),
			fault.Undefined: r.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		},
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		box: r.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 1),
		rule: r.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// Writer prints reports to one destination
type Writer struct {
	w      io.Writer
	styles styles
	detail bool
}

// Option configures a Writer
type Option func(*Writer)

// WithDetail includes the per-multiplexer statistics and switch listing
func WithDetail(detail bool) Option {
	return func(w *Writer) {
		w.detail = detail
	}
}

// New creates a Writer. Colours follow the capabilities of w.
func New(w io.Writer, opts ...Option) *Writer {
	rw := &Writer{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Run prints every multiplexer when detail is enabled, then the summary
func (w *Writer) Run(res *simulation.Result, s Summary) error {
	if w.detail {
		for _, m := range res.Muxes {
			if err := w.Mux(m); err != nil {
				return err
			}
		}
	}
	return w.Summary(s)
}

// Mux prints the statistics and switch listing of one multiplexer
func (w *Writer) Mux(m *mux.Multiplexer) error {
	st := w.styles
	stats := m.Stats()

	var b strings.Builder
	b.WriteString(st.title.Render(fmt.Sprintf("Multiplexer %d/%d", stats.Sink, stats.SwitchID)))
	b.WriteByte('\n')
	w.field(&b, "Mux size", fmt.Sprintf("%d inputs", stats.Inputs))
	w.field(&b, "Sink node", fmt.Sprint(stats.Sink))
	w.field(&b, "Switch ID", fmt.Sprint(stats.SwitchID))
	w.field(&b, "Block size", fmt.Sprintf("%d (%d blocks)", stats.BlockSize, stats.Blocks))
	w.field(&b, "Memory cells", fmt.Sprintf("%d (%d simulated)", stats.MemoryCells, stats.DrawnCells))
	w.field(&b, "Defective edges", fmt.Sprint(stats.DefectiveEdges))
	w.field(&b, "Faults", w.counts(stats.Faults))
	if stats.Analysis.GlobalFailure() {
		b.WriteString(st.failure.Render("global failure: " + stats.Analysis.Reason.String()))
		b.WriteByte('\n')
	}

	for i, g := range m.FirstStage() {
		for _, s := range g.Switches() {
			e, _ := s.Edge()
			fmt.Fprintf(&b, "  first  block %-3d (%d, %s) -> (%d, %s) %s\n",
				i, e.Source, e.SourceType, e.Sink, e.SinkType, w.fault(s.Fault()))
		}
	}
	for _, s := range m.SecondStage().Switches() {
		fmt.Fprintf(&b, "  second block %-3d link %s\n", s.Block(), w.fault(s.Fault()))
	}
	b.WriteString(st.rule.Render(strings.Repeat("-", 72)))
	b.WriteByte('\n')

	_, err := io.WriteString(w.w, b.String())
	return err
}

// Summary prints the run totals in a box
func (w *Writer) Summary(s Summary) error {
	st := w.styles
	t := s.Totals

	var b strings.Builder
	b.WriteString(st.title.Render("Routing fault simulation"))
	b.WriteByte('\n')
	if s.RunID != "" {
		w.field(&b, "Run", s.RunID)
	}
	w.field(&b, "Seed", fmt.Sprint(s.Seed))
	if s.Input != "" {
		w.field(&b, "Input", s.Input)
	}
	if s.Output != "" {
		w.field(&b, "Output", s.Output)
	}
	w.field(&b, "Multiplexers", fmt.Sprint(t.Muxes))
	w.field(&b, "Configurable edges", fmt.Sprint(t.ConfigurableEdges))
	w.field(&b, "Defective edges", fmt.Sprintf("%d (%.2f%%)", t.DefectiveEdges, 100*t.DefectiveFraction()))
	w.field(&b, "Edges deleted", fmt.Sprint(s.Deleted))
	w.field(&b, "Memory cells", fmt.Sprint(t.MemoryCells))
	w.field(&b, "Simulated cells", fmt.Sprint(t.DrawnCells))
	for _, k := range fault.Kinds {
		if k.IsFaulty() {
			w.field(&b, k.String()+" in memory cells", fmt.Sprint(t.Faults.Get(k)))
		}
	}
	w.field(&b, "Faulty memristors", fmt.Sprint(t.FaultyResistors))
	w.field(&b, "Total cell faults", fmt.Sprint(t.CellFaults()))
	w.field(&b, "Global failures", fmt.Sprint(t.GlobalFailures))
	for _, reason := range []mux.FailureReason{mux.UndefinedLink, mux.StuckLink, mux.ForcedPathConflict} {
		if n := t.FailuresByReason[reason]; n > 0 {
			w.field(&b, "  "+reason.String(), fmt.Sprint(n))
		}
	}
	w.field(&b, "Elapsed", s.Elapsed.Round(time.Millisecond).String())

	_, err := io.WriteString(w.w, st.box.Render(strings.TrimSuffix(b.String(), "\n"))+"\n")
	return err
}

func (w *Writer) field(b *strings.Builder, label, value string) {
	b.WriteString(w.styles.label.Render(fmt.Sprintf("%-22s", label+":")))
	b.WriteString(w.styles.value.Render(value))
	b.WriteByte('\n')
}

func (w *Writer) fault(k fault.Kind) string {
	return w.styles.faults[k].Render(k.String())
}

func (w *Writer) counts(c fault.Counts) string {
	parts := make([]string, 0, fault.NumKinds-1)
	for _, k := range fault.Kinds {
		if k.IsFaulty() {
			parts = append(parts, fmt.Sprintf("%s=%d", w.fault(k), c.Get(k)))
		}
	}
	return strings.Join(parts, " ")
}
