package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"reaction-ledger/channel"
	"reaction-ledger/models"
	"reaction-ledger/store"
)

var errStore = errors.New("store unavailable")

// fakeMessageStore is an in-memory store.MessageStore.
type fakeMessageStore struct {
	mu         sync.Mutex
	records    []models.MessageRecord
	selectErr  error
	insertErr  error
	updateErrs map[string]error
	inserts    []models.MessageRecord
	updates    map[string]models.ReactionCounts
}

func newFakeMessageStore(records ...models.MessageRecord) *fakeMessageStore {
	return &fakeMessageStore{
		records:    records,
		updateErrs: make(map[string]error),
		updates:    make(map[string]models.ReactionCounts),
	}
}

func (f *fakeMessageStore) Select(ctx context.Context) ([]models.MessageRecord, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.records, nil
}

func (f *fakeMessageStore) Insert(ctx context.Context, rec models.MessageRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts = append(f.inserts, rec)
	return f.insertErr
}

func (f *fakeMessageStore) UpdateByID(ctx context.Context, id string, counts models.ReactionCounts) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErrs[id]; err != nil {
		return err
	}
	for _, rec := range f.records {
		if rec.ID == id {
			f.updates[id] = counts
			return nil
		}
	}
	return fmt.Errorf("message %s: %w", id, store.ErrRecordNotFound)
}

// fakeFetcher returns canned live messages.
type fakeFetcher struct {
	mu       sync.Mutex
	messages map[string]models.LiveMessage
	errs     map[string]error
	fetched  []string
}

func (f *fakeFetcher) FetchMessage(ctx context.Context, channelID, messageID string) (models.LiveMessage, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, messageID)
	f.mu.Unlock()

	if err := f.errs[messageID]; err != nil {
		return models.LiveMessage{}, err
	}
	msg, ok := f.messages[messageID]
	if !ok {
		return models.LiveMessage{}, fmt.Errorf("message %s: %w", messageID, channel.ErrMessageGone)
	}
	return msg, nil
}

// fakeTallyStore records every insert and fails for the configured users.
type fakeTallyStore struct {
	inserts []models.ReactionTallyEntry
	failFor map[string]bool
}

func (f *fakeTallyStore) Insert(ctx context.Context, entry models.ReactionTallyEntry) error {
	f.inserts = append(f.inserts, entry)
	if f.failFor[entry.UserID] {
		return fmt.Errorf("user %s: %w", entry.UserID, errStore)
	}
	return nil
}
