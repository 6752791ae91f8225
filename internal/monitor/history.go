package monitor

import "github.com/hamed0406/reachmon/internal/domain"

// HistorySize is how many recent statuses a target keeps for uptime.
const HistorySize = 100

// History is a fixed-capacity ring of statuses. Once full, each Push
// overwrites the oldest entry.
type History struct {
	buf  [HistorySize]domain.Status
	head int // index of the oldest entry
	n    int
}

func (h *History) Push(s domain.Status) {
	if h.n < HistorySize {
		h.buf[(h.head+h.n)%HistorySize] = s
		h.n++
		return
	}
	h.buf[h.head] = s
	h.head = (h.head + 1) % HistorySize
}

func (h *History) Len() int { return h.n }

// Items returns the statuses oldest first.
func (h *History) Items() []domain.Status {
	out := make([]domain.Status, h.n)
	for i := 0; i < h.n; i++ {
		out[i] = h.buf[(h.head+i)%HistorySize]
	}
	return out
}

// UptimePercent is the share of UP entries, 0 for an empty history.
func (h *History) UptimePercent() float64 {
	if h.n == 0 {
		return 0
	}
	up := 0
	for i := 0; i < h.n; i++ {
		if h.buf[(h.head+i)%HistorySize] == domain.StatusUp {
			up++
		}
	}
	return 100 * float64(up) / float64(h.n)
}
