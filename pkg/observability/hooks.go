package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/stepwise/pkg/domain"
)

// Merge returns hooks that call every non-nil hook of each argument, in order.
func Merge(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var merged domain.LifecycleHooks
	for _, h := range all {
		merged.OnTraceGenerated = chain(merged.OnTraceGenerated, h.OnTraceGenerated)
		merged.OnAbort = chain(merged.OnAbort, h.OnAbort)
		merged.OnCommit = chain(merged.OnCommit, h.OnCommit)
		merged.OnPlayback = chain(merged.OnPlayback, h.OnPlayback)
	}
	return merged
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LogHooks logs every lifecycle event at info level (playback at debug).
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceGenerated: func(ctx context.Context, e *domain.TraceEvent) {
			logger.InfoContext(ctx, "trace_generated",
				"session_id", e.SessionID,
				"family", e.Family,
				"kind", e.Kind,
				"steps", e.Steps,
				"outcome", e.Outcome,
			)
		},
		OnAbort: func(ctx context.Context, e *domain.TraceEvent) {
			logger.InfoContext(ctx, "trace_aborted", "session_id", e.SessionID, "family", e.Family, "kind", e.Kind)
		},
		OnCommit: func(ctx context.Context, e *domain.CommitEvent) {
			logger.InfoContext(ctx, "commit",
				"session_id", e.SessionID,
				"family", e.Family,
				"kind", e.Kind,
				"outcome", e.Outcome,
				"mutated", e.Mutated,
			)
		},
		OnPlayback: func(ctx context.Context, e *domain.PlaybackEvent) {
			logger.DebugContext(ctx, "playback", "session_id", e.SessionID, "from", e.From, "to", e.To, "index", e.Index)
		},
	}
}
