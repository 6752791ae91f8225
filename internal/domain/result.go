package domain

import (
	"strconv"
	"time"
)

// TimestampLayout is the ISO-8601 UTC layout used for persisted records.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// RecordHeader is the column order of the durable observation log.
var RecordHeader = []string{"timestamp", "name", "host", "type", "port", "status", "rtt_ms", "error"}

// Record is one persisted observation: the target's identity plus the
// state it was left in by a single probe completion.
type Record struct {
	Endpoint
	Status    Status    `json:"status"`
	LatencyMS *float64  `json:"rtt_ms"` // nil unless the probe succeeded
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Fields renders the record in RecordHeader order.
func (r Record) Fields() []string {
	port := ""
	if r.HasPort() {
		port = strconv.Itoa(r.Port)
	}
	rtt := ""
	if r.Status == StatusUp && r.LatencyMS != nil {
		rtt = strconv.FormatFloat(*r.LatencyMS, 'f', 3, 64)
	}
	return []string{
		r.CheckedAt.UTC().Format(TimestampLayout),
		r.Name,
		r.Host,
		string(r.Kind),
		port,
		string(r.Status),
		rtt,
		r.Error,
	}
}
