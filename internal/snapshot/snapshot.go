// Package snapshot selects the configuration a client had committed as
// of a cutoff instant, preferring the live configuration unless it was
// committed after the cutoff.
package snapshot

import (
	"time"

	"github.com/platefull/weekplan/internal/client/domain"
)

// Source names where a selected configuration came from.
type Source string

const (
	SourceLive Source = "live"
	SourceLog  Source = "log"
)

// Selection is the configuration chosen for a client at a cutoff,
// with enough provenance for reconciliation reports.
type Selection struct {
	Config    *domain.OrderConfig
	Source    Source
	Timestamp *time.Time
}

// Select picks the configuration in force for the client at the cutoff
// instant. When the live configuration was committed after the cutoff
// it is tainted for that week, and the newest change log snapshot at or
// before the cutoff is used instead. A client with no usable
// configuration as of the cutoff has no expectation and returns
// ok=false.
func Select(client domain.Client, cutoff time.Time) (Selection, bool) {
	entries := domain.ParseChangeLog(client.OrderHistory)

	if committedAfter(client, entries, cutoff) {
		entry, ok := newestAtOrBefore(entries, cutoff)
		if !ok {
			return Selection{}, false
		}
		cfg, ok := domain.Normalize(entry.Payload)
		if !ok {
			return Selection{}, false
		}
		at := entry.Timestamp
		return Selection{Config: cfg, Source: SourceLog, Timestamp: &at}, true
	}

	if cfg, ok := domain.NormalizeJSON(client.UpcomingOrder); ok {
		return Selection{Config: cfg, Source: SourceLive, Timestamp: client.UpcomingOrderUpdatedAt}, true
	}

	// Live column empty, fall back to the newest logged snapshot.
	if entry, ok := newestAtOrBefore(entries, cutoff); ok {
		if cfg, ok := domain.Normalize(entry.Payload); ok {
			at := entry.Timestamp
			return Selection{Config: cfg, Source: SourceLog, Timestamp: &at}, true
		}
	}
	return Selection{}, false
}

// committedAfter reports whether the live configuration changed after
// the cutoff. The explicit committed-at column wins when present,
// otherwise the change log stands in for it.
func committedAfter(client domain.Client, entries []domain.ChangeLogEntry, cutoff time.Time) bool {
	if client.UpcomingOrderUpdatedAt != nil {
		return client.UpcomingOrderUpdatedAt.After(cutoff)
	}
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			return true
		}
	}
	return false
}

func newestAtOrBefore(entries []domain.ChangeLogEntry, cutoff time.Time) (domain.ChangeLogEntry, bool) {
	var best domain.ChangeLogEntry
	found := false
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			continue
		}
		if !found || e.Timestamp.After(best.Timestamp) {
			best = e
			found = true
		}
	}
	return best, found
}
