package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func entryAt(created time.Time, expires *time.Time) *MemoryEntry {
	return &MemoryEntry{created: created, expires: expires, status: 0}
}

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	minute := time.Minute
	hour := time.Hour

	past := now.Add(-2 * time.Minute)
	future := now.Add(time.Hour)
	expired := now.Add(-time.Second)

	tests := []struct {
		name  string
		entry Entry
		opts  FindOptions
		want  Freshness
	}{
		{
			name:  "missing",
			entry: nil,
			want:  Missing,
		},
		{
			name:  "fresh with no bounds",
			entry: entryAt(past, nil),
			want:  Fresh,
		},
		{
			name:  "fresh within expiry and lookback",
			entry: entryAt(past, &future),
			opts:  FindOptions{MaxAge: &hour},
			want:  Fresh,
		},
		{
			name:  "expired",
			entry: entryAt(past, &expired),
			want:  Expired,
		},
		{
			name:  "expiry wins over staleness",
			entry: entryAt(past, &expired),
			opts:  FindOptions{MaxAge: &minute},
			want:  Expired,
		},
		{
			name:  "stale beyond lookback",
			entry: entryAt(past, nil),
			opts:  FindOptions{MaxAge: &minute},
			want:  Stale,
		},
		{
			name:  "missing expiry means never expires",
			entry: entryAt(now.Add(-1000 * time.Hour), nil),
			want:  Fresh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := classify(tt.entry, now, tt.opts)
			assert.Equal(t, tt.want, v.Freshness)

			switch tt.want {
			case Fresh:
				assert.NotNil(t, v.Entry)
			case Stale:
				assert.Equal(t, tt.entry.CreatedAt(), v.Created)
			case Expired:
				assert.Equal(t, *tt.entry.ExpiresAt(), v.Expires)
			}
		})
	}
}

func TestExitCodeSet(t *testing.T) {
	def := RecordDefault()
	assert.True(t, def.Contains(0))
	assert.False(t, def.Contains(1))
	assert.False(t, def.Contains(-1))
	assert.False(t, def.Contains(256))

	var all ExitCodeSet
	for i := range all {
		all[i] = true
	}
	assert.True(t, all.Contains(255))
	assert.False(t, all.Contains(300))
}
