package monitor

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/reachmon/internal/domain"
	"github.com/hamed0406/reachmon/internal/repo"
)

// Recorder applies probe outcomes to targets and writes them through to a sink.
type Recorder struct {
	Logger *zap.Logger
	Sink   repo.RecordSink
}

func NewRecorder(l *zap.Logger, sink repo.RecordSink) *Recorder {
	if l == nil {
		l = zap.NewNop()
	}
	return &Recorder{Logger: l, Sink: sink}
}

// Record updates t from o, then persists the resulting state. The in-memory
// update always happens; a sink error is logged and returned but never
// rolls it back.
func (r *Recorder) Record(ctx context.Context, t *Target, o domain.Outcome) error {
	st := t.apply(o)

	if r.Sink == nil {
		return nil
	}
	rec := &domain.Record{
		Endpoint:  t.Endpoint,
		Status:    st.Status,
		LatencyMS: st.LatencyMS,
		Error:     st.LastError,
		CheckedAt: st.LastCheckedAt,
	}
	if err := r.Sink.Append(ctx, rec); err != nil {
		r.Logger.Warn("record_append_error",
			zap.String("name", t.Name),
			zap.String("host", t.Host),
			zap.String("status", string(st.Status)),
			zap.Error(err),
		)
		return err
	}
	return nil
}
