package domain

import "time"

// DefaultFreshnessWindow is how long a stored report satisfies non-forced
// generation requests.
const DefaultFreshnessWindow = 12 * time.Hour

// DefaultLookback is how much measurement history feeds a report.
const DefaultLookback = 12 * time.Hour

// NeedsRegeneration reports whether a new report should be generated.
// True when force is set, when no prior report exists (zero latest), or when
// the latest report is older than the freshness window. A report exactly
// window old is still fresh.
func NeedsRegeneration(latest, now time.Time, window time.Duration, force bool) bool {
	if force {
		return true
	}
	if latest.IsZero() {
		return true
	}
	return now.Sub(latest) > window
}
