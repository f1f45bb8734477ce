package store

import (
	"testing"
	"time"

	"reaction-ledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMessageRow_Layout(t *testing.T) {
	rec := models.MessageRecord{
		ID:         "1234",
		PostDate:   models.Date{Year: 2024, Month: time.March, Day: 5},
		PostTime:   "9:5:7",
		AuthorName: "alice",
		Text:       "hello",
	}

	row := EncodeMessageRow(rec)
	assert.Equal(t, []string{"", "1234", "2024/3/5", "9:5:7", "alice", "hello", "", ""}, row)

	rec.Counts = &models.ReactionCounts{Upvotes: 3, Reports: 1}
	row = EncodeMessageRow(rec)
	assert.Equal(t, "3", row[ColUpvoteCount])
	assert.Equal(t, "1", row[ColReportCount])
}

func TestDecodeMessageRow(t *testing.T) {
	tests := []struct {
		name    string
		row     []string
		want    models.MessageRecord
		wantErr bool
	}{
		{
			name: "six columns",
			row:  []string{"", "42", "2024/12/31", "23:59:59", "bob", "bye"},
			want: models.MessageRecord{
				ID:         "42",
				PostDate:   models.Date{Year: 2024, Month: time.December, Day: 31},
				PostTime:   "23:59:59",
				AuthorName: "bob",
				Text:       "bye",
			},
		},
		{
			name: "reconciled",
			row:  []string{"x", "42", "2024/1/2", "1:2:3", "bob", "", "5", "0"},
			want: models.MessageRecord{
				ID:         "42",
				PostDate:   models.Date{Year: 2024, Month: time.January, Day: 2},
				PostTime:   "1:2:3",
				AuthorName: "bob",
				Counts:     &models.ReactionCounts{Upvotes: 5, Reports: 0},
			},
		},
		{
			name: "zero padded date",
			row:  []string{"", "7", "2024/01/02"},
			want: models.MessageRecord{ID: "7", PostDate: models.Date{Year: 2024, Month: time.January, Day: 2}},
		},
		{name: "missing id", row: []string{"", "", "2024/1/2"}, wantErr: true},
		{name: "bad date", row: []string{"", "7", "yesterday"}, wantErr: true},
		{name: "bad count", row: []string{"", "7", "2024/1/2", "", "", "", "many"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeMessageRow(tt.row)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeTallyRow(t *testing.T) {
	row := EncodeTallyRow(models.ReactionTallyEntry{UserID: "u2", UserName: "bob", Emoji: "👎", Count: -1})
	assert.Equal(t, []string{"u2", "bob", "👎", "-1"}, row)
}
