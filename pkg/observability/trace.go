package observability

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/muesli/termenv"
)

// TraceWriter renders lifecycle events as an indented, coloured trace.
// Colour follows the terminal profile of the writer; tests pin termenv.Ascii.
type TraceWriter struct {
	mu  sync.Mutex
	out *termenv.Output
}

// TraceOption configures a TraceWriter.
type TraceOption func(*[]termenv.OutputOption)

// WithProfile forces a colour profile instead of detecting it.
func WithProfile(p termenv.Profile) TraceOption {
	return func(opts *[]termenv.OutputOption) {
		*opts = append(*opts, termenv.WithProfile(p))
	}
}

// NewTraceWriter creates a trace renderer writing to w.
func NewTraceWriter(w io.Writer, opts ...TraceOption) *TraceWriter {
	var outOpts []termenv.OutputOption
	for _, opt := range opts {
		opt(&outOpts)
	}
	return &TraceWriter{out: termenv.NewOutput(w, outOpts...)}
}

const (
	colorCycle      = "#818cf8"
	colorTransition = "#c084fc"
	colorAction     = "#f472b6"
	colorState      = "#64748b"
	colorSettled    = "#34d399"
)

func (t *TraceWriter) paint(s, hex string) string {
	if t.out.Profile == termenv.Ascii {
		return s
	}
	return t.out.String(s).Foreground(t.out.Color(hex)).String()
}

func (t *TraceWriter) line(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format+"\n", args...)
}

// Hooks returns the lifecycle hooks that feed the trace.
func (t *TraceWriter) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCycleStart: func(ctx context.Context, e *domain.CycleEvent) {
			t.line("%s %s events=%s statics=%s",
				t.paint(fmt.Sprintf("[%d]", e.Cycle), colorCycle),
				e.State,
				domain.NewEventSet(e.Events...),
				domain.NewStaticSet(e.Statics...),
			)
		},
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			if e.Condition != "" {
				t.line("  %s %s [%s] when %s", t.paint("do", colorAction), e.Action, e.Phase, e.Condition)
				return
			}
			t.line("  %s %s [%s]", t.paint("do", colorAction), e.Action, e.Phase)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			t.line("  %s %s -> %s on %s (step %d)", t.paint("take", colorTransition), e.From, e.To, e.Condition, e.Step)
		},
		OnStateExit: func(ctx context.Context, e *domain.StateEvent) {
			t.line("  %s %s", t.paint("exit", colorState), e.State)
		},
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			t.line("  %s %s", t.paint("enter", colorState), e.State)
		},
		OnCycleSettled: func(ctx context.Context, e *domain.CycleEvent) {
			t.line("  %s in %s after %d step(s)", t.paint("settled", colorSettled), e.State, e.Steps)
		},
	}
}
