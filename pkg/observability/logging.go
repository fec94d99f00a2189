package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stateworks/pkg/domain"
)

// LogHooks reports every lifecycle event to logger at debug level.
// Settled cycles are logged at info so a default logger still shows progress.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCycleStart: func(ctx context.Context, e *domain.CycleEvent) {
			logger.DebugContext(ctx, "cycle_start",
				"cycle", e.Cycle,
				"state", e.State,
				"events", e.Events,
				"statics", e.Statics,
			)
		},
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			attrs := []any{"cycle", e.Cycle, "state", e.State, "action", e.Action, "phase", e.Phase}
			if e.Condition != "" {
				attrs = append(attrs, "condition", e.Condition)
			}
			logger.DebugContext(ctx, "action", attrs...)
		},
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition",
				"cycle", e.Cycle,
				"from", e.From,
				"to", e.To,
				"condition", e.Condition,
				"step", e.Step,
			)
		},
		OnStateExit: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_exit", "cycle", e.Cycle, "state", e.State)
		},
		OnStateEnter: func(ctx context.Context, e *domain.StateEvent) {
			logger.DebugContext(ctx, "state_enter", "cycle", e.Cycle, "state", e.State)
		},
		OnCycleSettled: func(ctx context.Context, e *domain.CycleEvent) {
			logger.InfoContext(ctx, "cycle_settled",
				"cycle", e.Cycle,
				"state", e.State,
				"steps", e.Steps,
			)
		},
	}
}
