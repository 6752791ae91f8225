package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/reachmon/internal/domain"
)

type captureSink struct {
	mu   sync.Mutex
	recs []domain.Record
	err  error
}

func (c *captureSink) Append(_ context.Context, r *domain.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.recs = append(c.recs, *r)
	return nil
}

func outcome(s domain.Status, at time.Time) domain.Outcome {
	o := domain.Outcome{Status: s, ObservedAt: at}
	if s == domain.StatusUp {
		v := 5.0
		o.LatencyMS = &v
	} else {
		o.Error = "unreachable"
	}
	return o
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	var h History
	h.Push(domain.StatusDown)
	for i := 0; i < HistorySize; i++ {
		h.Push(domain.StatusUp)
	}
	require.Equal(t, HistorySize, h.Len())
	items := h.Items()
	require.Len(t, items, HistorySize)
	for i, s := range items {
		require.Equalf(t, domain.StatusUp, s, "entry %d should be UP once the first DOWN is evicted", i)
	}
	require.Equal(t, 100.0, h.UptimePercent())
}

func TestHistory_KeepsOrderAcrossWrap(t *testing.T) {
	var h History
	for i := 0; i < HistorySize+3; i++ {
		if i%2 == 0 {
			h.Push(domain.StatusUp)
		} else {
			h.Push(domain.StatusDown)
		}
	}
	items := h.Items()
	// entries 0..2 were evicted, so the oldest kept is index 3 (DOWN).
	require.Equal(t, domain.StatusDown, items[0])
	require.Equal(t, domain.StatusUp, items[1])
	require.Equal(t, domain.StatusUp, items[len(items)-1]) // index 102 is even
}

func TestUptimePercent(t *testing.T) {
	tgt := NewTarget(domain.Endpoint{Name: "a", Host: "h", Kind: domain.KindPing})
	require.Equal(t, 0.0, tgt.UptimePercent())

	rec := NewRecorder(zap.NewNop(), nil)
	now := time.Now().UTC()
	for _, s := range []domain.Status{domain.StatusUp, domain.StatusUp, domain.StatusDown, domain.StatusUp} {
		require.NoError(t, rec.Record(context.Background(), tgt, outcome(s, now)))
	}
	require.Equal(t, 75.0, tgt.UptimePercent())
}

func TestRecorder_UpThenDownClearsLatency(t *testing.T) {
	sink := &captureSink{}
	rec := NewRecorder(zap.NewNop(), sink)
	tgt := NewTarget(domain.Endpoint{Name: "web", Host: "example.com", Kind: domain.KindTCP, Port: 443})
	require.Equal(t, domain.StatusUnknown, tgt.State().Status)

	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, rec.Record(context.Background(), tgt, outcome(domain.StatusUp, t0)))
	st := tgt.State()
	require.Equal(t, domain.StatusUp, st.Status)
	require.NotNil(t, st.LatencyMS)
	require.Empty(t, st.LastError)

	require.NoError(t, rec.Record(context.Background(), tgt, outcome(domain.StatusDown, t0.Add(time.Second))))
	st = tgt.State()
	require.Equal(t, domain.StatusDown, st.Status)
	require.Nil(t, st.LatencyMS)
	require.Equal(t, "unreachable", st.LastError)
	require.Equal(t, t0.Add(time.Second), st.LastCheckedAt)

	require.NoError(t, rec.Record(context.Background(), tgt, outcome(domain.StatusUp, t0.Add(2*time.Second))))
	require.Empty(t, tgt.State().LastError, "an UP must not keep a stale error")

	require.Len(t, sink.recs, 3)
	require.Equal(t, domain.StatusUp, sink.recs[0].Status)
	require.NotNil(t, sink.recs[0].LatencyMS)
	require.Equal(t, domain.StatusDown, sink.recs[1].Status)
	require.Nil(t, sink.recs[1].LatencyMS)
	require.Equal(t, "unreachable", sink.recs[1].Error)
	require.Equal(t, t0.Add(time.Second), sink.recs[1].CheckedAt)
}

func TestRecorder_SinkFailureKeepsMemoryState(t *testing.T) {
	sink := &captureSink{err: errors.New("disk full")}
	rec := NewRecorder(zap.NewNop(), sink)
	tgt := NewTarget(domain.Endpoint{Name: "gw", Host: "10.0.0.1", Kind: domain.KindPing})

	err := rec.Record(context.Background(), tgt, outcome(domain.StatusUp, time.Now().UTC()))
	require.Error(t, err)
	require.Equal(t, domain.StatusUp, tgt.State().Status)
	require.Equal(t, []domain.Status{domain.StatusUp}, tgt.History())
}

func TestRecorder_ConcurrentTargets(t *testing.T) {
	sink := &captureSink{}
	rec := NewRecorder(zap.NewNop(), sink)

	eps := make([]domain.Endpoint, 0, 20)
	for i := 0; i < 20; i++ {
		eps = append(eps, domain.Endpoint{Name: string(rune('a' + i)), Host: "h", Kind: domain.KindPing})
	}
	reg, err := NewRegistry(eps)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, tgt := range reg.Targets() {
		for j := 0; j < 10; j++ {
			wg.Add(1)
			go func(tg *Target) {
				defer wg.Done()
				_ = rec.Record(context.Background(), tg, outcome(domain.StatusUp, time.Now().UTC()))
			}(tgt)
		}
	}
	wg.Wait()

	require.Len(t, sink.recs, 200)
	for _, tgt := range reg.Targets() {
		require.Len(t, tgt.History(), 10)
	}
}

func TestRegistry_OrderAndValidation(t *testing.T) {
	reg, err := NewRegistry([]domain.Endpoint{
		{Name: "first", Host: "a", Kind: domain.KindPing},
		{Name: "second", Host: "b", Kind: domain.KindTCP, Port: 22},
		{Name: "third", Host: "c", Kind: domain.KindTCP},
	})
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())

	names := []string{}
	for _, s := range reg.Snapshots() {
		names = append(names, s.Name)
		require.Equal(t, domain.StatusUnknown, s.Status)
		require.Nil(t, s.LastCheckedAt)
	}
	require.Equal(t, []string{"first", "second", "third"}, names)

	tgt, ok := reg.Lookup("second")
	require.True(t, ok)
	require.Equal(t, 22, *tgt.Snapshot().Port)

	_, err = NewRegistry([]domain.Endpoint{
		{Name: "ok", Host: "a", Kind: domain.KindPing},
		{Name: "bad", Host: "", Kind: domain.KindPing},
	})
	require.Error(t, err)
}
