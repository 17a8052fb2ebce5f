// Package dedup provides helpers for building burst-grouping keys over
// recorded notifications. Notifications sharing a key belong to the
// same burst; an optional time window splits long-running streams into
// separate bursts.
package dedup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Criteria defines what makes two notifications part of one burst.
type Criteria string

const (
	// CriteriaConversation groups by conversation id.
	CriteriaConversation Criteria = "conversation"
	// CriteriaName groups by display name, merging distinct
	// conversations that shared a name over time.
	CriteriaName Criteria = "name"

	bucketSeparator = "" // Unit Separator to avoid conflicts with names
)

// Options configure how grouping keys are built.
type Options struct {
	Criteria Criteria
	Window   time.Duration
}

// Record captures the fields needed to compute grouping keys.
type Record struct {
	ConversationID string
	Name           string
	Timestamp      string // RFC3339
}

// ParseCriteria converts user-provided strings into a Criteria value.
func ParseCriteria(value string) Criteria {
	switch strings.ToLower(value) {
	case string(CriteriaName):
		return CriteriaName
	default:
		return CriteriaConversation
	}
}

// String returns the string value for Criteria.
func (c Criteria) String() string {
	return string(c)
}

// BuildKeys returns a grouping key for each record based on the provided
// options. The output slice has the same order and length as the input
// slice.
func BuildKeys(records []Record, opts Options) []string {
	criteria := opts.Criteria
	if criteria == "" {
		criteria = CriteriaConversation
	}
	keys := make([]string, len(records))
	for i := range records {
		keys[i] = buildBaseKey(records[i], criteria)
	}
	if opts.Window <= 0 {
		return keys
	}
	buckets := assignWindowBuckets(records, keys, opts.Window)
	for i, bucket := range buckets {
		if bucket > 0 {
			keys[i] = appendBucketSuffix(keys[i], bucket)
		}
	}
	return keys
}

// StripBucketSuffix removes the internal window-based suffix from a
// grouping key.
func StripBucketSuffix(key string) string {
	if idx := strings.Index(key, bucketSeparator); idx >= 0 {
		return key[:idx]
	}
	return key
}

func buildBaseKey(record Record, criteria Criteria) string {
	switch criteria {
	case CriteriaName:
		return record.Name
	case CriteriaConversation:
		fallthrough
	default:
		return record.ConversationID
	}
}

func appendBucketSuffix(base string, bucket int) string {
	return fmt.Sprintf("%s%s%d", base, bucketSeparator, bucket)
}

// assignWindowBuckets splits each key's records into bursts: walking
// newest to oldest, a record more than window older than its bucket's
// newest entry starts a new bucket.
func assignWindowBuckets(records []Record, keys []string, window time.Duration) []int {
	assignments := make([]int, len(records))
	type entry struct {
		idx       int
		timestamp time.Time
	}
	grouped := make(map[string][]entry)
	for i, key := range keys {
		grouped[key] = append(grouped[key], entry{idx: i, timestamp: parseTimestamp(records[i].Timestamp)})
	}
	for _, entries := range grouped {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].timestamp.After(entries[j].timestamp)
		})
		bucketIndex := -1
		var bucketLatest time.Time
		for _, entry := range entries {
			if entry.timestamp.IsZero() {
				if bucketIndex == -1 {
					bucketIndex = 0
				}
				assignments[entry.idx] = bucketIndex
				continue
			}
			if bucketIndex == -1 {
				bucketIndex = 0
				bucketLatest = entry.timestamp
				assignments[entry.idx] = bucketIndex
				continue
			}
			diff := bucketLatest.Sub(entry.timestamp)
			if diff <= window {
				assignments[entry.idx] = bucketIndex
				continue
			}
			bucketIndex++
			bucketLatest = entry.timestamp
			assignments[entry.idx] = bucketIndex
		}
	}
	return assignments
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// BucketFromKey returns the window bucket index encoded in the key, or
// -1 if none.
func BucketFromKey(key string) int {
	idx := strings.Index(key, bucketSeparator)
	if idx < 0 {
		return -1
	}
	value := key[idx+len(bucketSeparator):]
	bucket, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return bucket
}
