package domain

import (
	"sort"
	"time"
)

// DefaultTitle is the title of a record with no user message yet.
const DefaultTitle = "New Chat"

// TitleMaxLength is the number of characters kept from the first user message.
const TitleMaxLength = 35

// DefaultRetention is how long a record stays visible after its last activity.
const DefaultRetention = 7 * 24 * time.Hour

// ChatRecord is the persisted form of a session's conversation.
type ChatRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
}

// TitleFromMessages derives a history title from the first user message.
// Titles longer than TitleMaxLength characters are truncated with "...".
func TitleFromMessages(messages []Message) string {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		runes := []rune(m.Content)
		if len(runes) > TitleMaxLength {
			return string(runes[:TitleMaxLength]) + "..."
		}
		if m.Content == "" {
			return DefaultTitle
		}
		return m.Content
	}
	return DefaultTitle
}

// RecencyGroups partitions records by calendar date for presentation.
type RecencyGroups struct {
	Today         []ChatRecord `json:"today"`
	Yesterday     []ChatRecord `json:"yesterday"`
	Previous7Days []ChatRecord `json:"previous_7_days"`
}

// Len returns the total number of grouped records.
func (g RecencyGroups) Len() int {
	return len(g.Today) + len(g.Yesterday) + len(g.Previous7Days)
}

// GroupByRecency partitions records by calendar date relative to now,
// in now's location. Records dated in the future count as today.
// Input order is preserved within each group.
func GroupByRecency(records []ChatRecord, now time.Time) RecencyGroups {
	loc := now.Location()
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	var groups RecencyGroups
	for _, r := range records {
		day := startOfDay(r.Timestamp.In(loc))
		switch {
		case !day.Before(today):
			groups.Today = append(groups.Today, r)
		case !day.Before(yesterday):
			groups.Yesterday = append(groups.Yesterday, r)
		default:
			groups.Previous7Days = append(groups.Previous7Days, r)
		}
	}
	return groups
}

// SortNewestFirst orders records by timestamp, most recent first.
func SortNewestFirst(records []ChatRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
