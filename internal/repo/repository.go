package repo

import (
	"context"

	"go.uber.org/multierr"

	"github.com/hamed0406/reachmon/internal/domain"
)

// RecordSink durably stores observations. Implementations must be safe for
// concurrent use and write each record as a whole.
type RecordSink interface {
	Append(ctx context.Context, r *domain.Record) error
}

// Fanout writes every record to all sinks. A failing sink does not stop the
// others; their errors are combined.
type Fanout []RecordSink

func (f Fanout) Append(ctx context.Context, r *domain.Record) error {
	var err error
	for _, s := range f {
		if s == nil {
			continue
		}
		err = multierr.Append(err, s.Append(ctx, r))
	}
	return err
}
