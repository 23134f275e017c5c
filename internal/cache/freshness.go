package cache

import "time"

// Freshness is the outcome of a cache lookup.
type Freshness int

const (
	// Fresh means the entry exists and may be replayed.
	Fresh Freshness = iota
	// Stale means the entry exists but was created before the
	// caller's maximum lookback age.
	Stale
	// Expired means the entry's own expiry has passed.
	Expired
	// Missing means no entry exists under the hash.
	Missing
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	case Expired:
		return "expired"
	case Missing:
		return "missing"
	default:
		return "unknown"
	}
}

// Verdict is the classification of one lookup. Entry is set for Fresh,
// Created for Stale, and Expires for Expired.
type Verdict struct {
	Freshness Freshness
	Entry     Entry
	Created   time.Time
	Expires   time.Time
}

// classify applies the freshness policy: an entry past its own expiry
// is Expired, an unexpired entry older than the caller's lookback is
// Stale, anything else that exists is Fresh. Expiry wins over
// staleness, matching the order the policy is specified in.
func classify(e Entry, now time.Time, opts FindOptions) Verdict {
	if e == nil {
		return Verdict{Freshness: Missing}
	}
	if expires := e.ExpiresAt(); expires != nil && expires.Before(now) {
		return Verdict{Freshness: Expired, Expires: *expires}
	}
	if opts.MaxAge != nil && e.CreatedAt().Add(*opts.MaxAge).Before(now) {
		return Verdict{Freshness: Stale, Created: e.CreatedAt()}
	}
	return Verdict{Freshness: Fresh, Entry: e}
}
