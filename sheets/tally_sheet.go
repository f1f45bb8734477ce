package sheets

import (
	"context"
	"fmt"

	"reaction-ledger/models"
	"reaction-ledger/store"

	sheetsapi "google.golang.org/api/sheets/v4"
)

// TallySheet is the reaction tally spreadsheet.
type TallySheet struct {
	sheet
}

var _ store.TallyStore = (*TallySheet)(nil)

// NewTallySheet binds the tally log to a spreadsheet.
func NewTallySheet(svc *sheetsapi.Service, spreadsheetID string) *TallySheet {
	return &TallySheet{sheet{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		lastCol:       column(store.TallyRowWidth - 1),
	}}
}

// Insert appends one tally row.
func (t *TallySheet) Insert(ctx context.Context, entry models.ReactionTallyEntry) error {
	row := cells(store.EncodeTallyRow(entry))
	row[store.TallyColCount] = entry.Count
	if err := t.append(ctx, row); err != nil {
		return fmt.Errorf("tally for user %s emoji %s: %w", entry.UserID, entry.Emoji, err)
	}
	return nil
}
