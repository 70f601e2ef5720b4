package feed

import "time"

// DefaultStalenessThreshold is the minimum age of the last successful
// fetch before a feed becomes eligible again.
const DefaultStalenessThreshold = 10 * time.Minute

// SelectDue filters registrations down to the ones eligible for a fetch
// cycle: active feeds that were never fetched, or whose last fetch is
// older than the staleness threshold. Pure filter, no side effects; an
// empty result is a normal outcome, not an error.
func SelectDue(regs []Registration, now time.Time, threshold time.Duration) []Registration {
	staleBefore := now.Add(-threshold)

	due := make([]Registration, 0, len(regs))
	for _, reg := range regs {
		if !reg.Active {
			continue
		}
		if reg.LastFetchedAt == nil || reg.LastFetchedAt.Before(staleBefore) {
			due = append(due, reg)
		}
	}
	return due
}
