package sheets

import (
	"context"
	"fmt"
	"log"
	"strings"

	"reaction-ledger/models"
	"reaction-ledger/store"

	sheetsapi "google.golang.org/api/sheets/v4"
)

// MessageSheet is the message log spreadsheet.
type MessageSheet struct {
	sheet
}

var _ store.MessageStore = (*MessageSheet)(nil)

// NewMessageSheet binds the message log to a spreadsheet.
func NewMessageSheet(svc *sheetsapi.Service, spreadsheetID string) *MessageSheet {
	return &MessageSheet{sheet{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		lastCol:       column(store.MessageRowWidth - 1),
	}}
}

// Select reads every data row. Blank or undecodable rows are skipped.
func (m *MessageSheet) Select(ctx context.Context) ([]models.MessageRecord, error) {
	rows, err := m.rows(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.MessageRecord, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		rec, err := store.DecodeMessageRow(row)
		if err != nil {
			log.Printf("MessageSheet: skipping row %d: %v", DataStartRow+i, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Insert appends the record as a new row.
func (m *MessageSheet) Insert(ctx context.Context, rec models.MessageRecord) error {
	if err := m.append(ctx, cells(store.EncodeMessageRow(rec))); err != nil {
		return fmt.Errorf("message %s: %w", rec.ID, err)
	}
	return nil
}

// UpdateByID writes the count columns of every row whose id column matches.
func (m *MessageSheet) UpdateByID(ctx context.Context, id string, counts models.ReactionCounts) error {
	rows, err := m.rows(ctx)
	if err != nil {
		return err
	}

	matched := false
	for i, row := range rows {
		if store.ColID >= len(row) || strings.TrimSpace(row[store.ColID]) != id {
			continue
		}
		matched = true
		rowNum := DataStartRow + i
		rng := fmt.Sprintf("%s%d:%s%d", column(store.ColUpvoteCount), rowNum, column(store.ColReportCount), rowNum)
		if err := m.update(ctx, rng, []interface{}{counts.Upvotes, counts.Reports}); err != nil {
			return fmt.Errorf("message %s: %w", id, err)
		}
	}

	if !matched {
		return fmt.Errorf("message %s: %w", id, store.ErrRecordNotFound)
	}
	return nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
