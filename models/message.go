package models

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar date in the bot's configured time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a date stored as "2024/3/5". Zero-padded values are accepted too.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006/1/2", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid post date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n calendar days away from d.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n))
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String renders the date without zero padding, e.g. "2024/3/5".
func (d Date) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Year, int(d.Month), d.Day)
}

// FormatClock renders the time of day without zero padding, e.g. "9:5:7".
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%d:%d:%d", t.Hour(), t.Minute(), t.Second())
}

// ReactionCounts holds the reconciled vote counts of a logged message.
type ReactionCounts struct {
	Upvotes int `json:"upvotes"`
	Reports int `json:"reports"`
}

// MessageRecord is one logged channel post.
type MessageRecord struct {
	ID         string `json:"id"`
	PostDate   Date   `json:"post_date"`
	PostTime   string `json:"post_time"`
	AuthorName string `json:"author_name"`
	Text       string `json:"text"`
	// Counts stays nil until the reconciliation job has run for this record.
	Counts *ReactionCounts `json:"counts,omitempty"`
}

// LiveMessage is the current state of a message as seen on the channel.
type LiveMessage struct {
	ID        string
	Reactions map[string]int // emoji name -> count
}

// Count returns the number of reactions with the given emoji, 0 if none.
func (m LiveMessage) Count(emoji string) int {
	return m.Reactions[emoji]
}
