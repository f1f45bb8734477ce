// Package store defines the durable surfaces the ledger writes to and the
// positional row layout shared by every backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"reaction-ledger/models"
)

// ErrRecordNotFound is returned by UpdateByID when no row carries the id.
var ErrRecordNotFound = errors.New("record not found")

// MessageStore is the message log.
type MessageStore interface {
	// Select returns every stored record in storage order.
	Select(ctx context.Context) ([]models.MessageRecord, error)
	Insert(ctx context.Context, rec models.MessageRecord) error
	UpdateByID(ctx context.Context, id string, counts models.ReactionCounts) error
}

// TallyStore receives one row per drained tally entry.
type TallyStore interface {
	Insert(ctx context.Context, entry models.ReactionTallyEntry) error
}

// Message row columns. Consumers index rows by position, so the order is fixed.
const (
	ColReserved = iota
	ColID
	ColPostDate
	ColPostTime
	ColAuthorName
	ColText
	ColUpvoteCount
	ColReportCount

	MessageRowWidth
)

// Tally row columns.
const (
	TallyColUserID = iota
	TallyColUserName
	TallyColEmoji
	TallyColCount

	TallyRowWidth
)

// EncodeMessageRow lays a record out in the positional message row format.
// Count cells are empty until the record has been reconciled.
func EncodeMessageRow(rec models.MessageRecord) []string {
	row := make([]string, MessageRowWidth)
	row[ColID] = rec.ID
	row[ColPostDate] = rec.PostDate.String()
	row[ColPostTime] = rec.PostTime
	row[ColAuthorName] = rec.AuthorName
	row[ColText] = rec.Text
	if rec.Counts != nil {
		row[ColUpvoteCount], row[ColReportCount] = EncodeCounts(*rec.Counts)
	}
	return row
}

// EncodeCounts renders the two reconciliation columns.
func EncodeCounts(c models.ReactionCounts) (string, string) {
	return strconv.Itoa(c.Upvotes), strconv.Itoa(c.Reports)
}

// DecodeMessageRow reads a positional row. Short rows are padded with empty cells.
func DecodeMessageRow(row []string) (models.MessageRecord, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	id := cell(ColID)
	if id == "" {
		return models.MessageRecord{}, errors.New("row has no message id")
	}

	date, err := models.ParseDate(cell(ColPostDate))
	if err != nil {
		return models.MessageRecord{}, fmt.Errorf("message %s: %w", id, err)
	}

	rec := models.MessageRecord{
		ID:         id,
		PostDate:   date,
		PostTime:   cell(ColPostTime),
		AuthorName: cell(ColAuthorName),
		Text:       cell(ColText),
	}

	up, report := cell(ColUpvoteCount), cell(ColReportCount)
	if up != "" || report != "" {
		counts, err := decodeCounts(up, report)
		if err != nil {
			return models.MessageRecord{}, fmt.Errorf("message %s: %w", id, err)
		}
		rec.Counts = &counts
	}
	return rec, nil
}

func decodeCounts(up, report string) (models.ReactionCounts, error) {
	var c models.ReactionCounts
	var err error
	if up != "" {
		if c.Upvotes, err = strconv.Atoi(up); err != nil {
			return c, fmt.Errorf("invalid upvote count %q: %w", up, err)
		}
	}
	if report != "" {
		if c.Reports, err = strconv.Atoi(report); err != nil {
			return c, fmt.Errorf("invalid report count %q: %w", report, err)
		}
	}
	return c, nil
}

// EncodeTallyRow lays a tally entry out as [userId, userName, emoji, count].
func EncodeTallyRow(e models.ReactionTallyEntry) []string {
	row := make([]string, TallyRowWidth)
	row[TallyColUserID] = e.UserID
	row[TallyColUserName] = e.UserName
	row[TallyColEmoji] = e.Emoji
	row[TallyColCount] = strconv.Itoa(e.Count)
	return row
}
