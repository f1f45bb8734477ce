package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"reaction-ledger/models"
	"reaction-ledger/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// fakeSheets serves the subset of the Sheets values API the stores use.
type fakeSheets struct {
	mu      sync.Mutex
	rows    [][]interface{}
	appends [][]interface{}
	updates map[string][]interface{}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]interface{}{"majorDimension": "ROWS", "values": f.rows})
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
		var vr sheetsapi.ValueRange
		json.NewDecoder(r.Body).Decode(&vr)
		f.appends = append(f.appends, vr.Values...)
		json.NewEncoder(w).Encode(map[string]interface{}{"spreadsheetId": "sheet"})
	case r.Method == http.MethodPut:
		var vr sheetsapi.ValueRange
		json.NewDecoder(r.Body).Decode(&vr)
		rng := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		f.updates[rng] = vr.Values[0]
		json.NewEncoder(w).Encode(map[string]interface{}{"spreadsheetId": "sheet", "updatedRows": 1})
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func newFakeService(t *testing.T, fake *fakeSheets) *sheetsapi.Service {
	t.Helper()
	fake.updates = make(map[string][]interface{})
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return svc
}

func TestMessageSheet_Select(t *testing.T) {
	fake := &fakeSheets{rows: [][]interface{}{
		{"", "1", "2024/3/5", "9:5:7", "alice", "hello"},
		{},
		{"", "", "no id"},
		{"", "2", "2024/3/6", "10:0:0", "bob", "hi", "4", "1"},
	}}
	ms := NewMessageSheet(newFakeService(t, fake), "sheet")

	got, err := ms.Select(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.MessageRecord{
		{ID: "1", PostDate: models.Date{Year: 2024, Month: time.March, Day: 5}, PostTime: "9:5:7", AuthorName: "alice", Text: "hello"},
		{ID: "2", PostDate: models.Date{Year: 2024, Month: time.March, Day: 6}, PostTime: "10:0:0", AuthorName: "bob", Text: "hi",
			Counts: &models.ReactionCounts{Upvotes: 4, Reports: 1}},
	}, got)
}

func TestMessageSheet_InsertAppendsPositionalRow(t *testing.T) {
	fake := &fakeSheets{}
	ms := NewMessageSheet(newFakeService(t, fake), "sheet")

	err := ms.Insert(context.Background(), models.MessageRecord{
		ID:         "1",
		PostDate:   models.Date{Year: 2024, Month: time.March, Day: 5},
		PostTime:   "9:5:7",
		AuthorName: "alice",
		Text:       "hello",
	})
	require.NoError(t, err)
	require.Len(t, fake.appends, 1)
	assert.Equal(t, []interface{}{"", "1", "2024/3/5", "9:5:7", "alice", "hello"}, fake.appends[0])
}

func TestMessageSheet_UpdateByID(t *testing.T) {
	fake := &fakeSheets{rows: [][]interface{}{
		{"", "1", "2024/3/5"},
		{"", "2", "2024/3/5"},
	}}
	ms := NewMessageSheet(newFakeService(t, fake), "sheet")

	require.NoError(t, ms.UpdateByID(context.Background(), "2", models.ReactionCounts{Upvotes: 3, Reports: 1}))
	assert.Equal(t, map[string][]interface{}{"G4:H4": {float64(3), float64(1)}}, fake.updates)

	err := ms.UpdateByID(context.Background(), "9", models.ReactionCounts{})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestTallySheet_Insert(t *testing.T) {
	fake := &fakeSheets{}
	ts := NewTallySheet(newFakeService(t, fake), "tally")

	require.NoError(t, ts.Insert(context.Background(), models.ReactionTallyEntry{UserID: "u2", UserName: "bob", Emoji: "👎", Count: -1}))
	require.Len(t, fake.appends, 1)
	assert.Equal(t, []interface{}{"u2", "bob", "👎", float64(-1)}, fake.appends[0])
}

func TestNewService_RequiresCredentials(t *testing.T) {
	_, err := NewService(context.Background(), Credentials{})
	assert.Error(t, err)
}
