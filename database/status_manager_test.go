package database

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"reaction-ledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusManager_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "status.json")

	sm, err := NewStatusManager(path)
	require.NoError(t, err)

	started := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	sm.RecordReconcile(models.ReconcileReport{
		Target:    models.Date{Year: 2024, Month: time.March, Day: 3},
		StartedAt: started,
		Duration:  2 * time.Second,
		Scanned:   10,
		Results: []models.ReconcileResult{
			{MessageID: "1", Outcome: models.OutcomeUpdated},
			{MessageID: "2", Outcome: models.OutcomeSkipped},
			{MessageID: "3", Outcome: models.OutcomeFailed, Err: errors.New("boom")},
		},
		Err: errors.New("boom"),
	})
	sm.RecordFlush(models.FlushReport{BatchID: "b1", StartedAt: started, Drained: 2, Inserted: 2})
	require.NoError(t, sm.Save())

	reloaded, err := NewStatusManager(path)
	require.NoError(t, err)

	rec, ok := reloaded.Job("reconcile")
	require.True(t, ok)
	assert.Equal(t, "2024/3/3", rec.Summary["target_date"])
	assert.Equal(t, "1", rec.Summary["updated"])
	assert.Equal(t, "1", rec.Summary["skipped"])
	assert.Equal(t, "1", rec.Summary["failed"])
	assert.Equal(t, "boom", rec.Error)
	assert.True(t, rec.LastRun.Equal(started))

	flush, ok := reloaded.Job("flush")
	require.True(t, ok)
	assert.Equal(t, "b1", flush.Summary["batch_id"])
	assert.Empty(t, flush.Error)
}

func TestStatusManager_MissingFileStartsEmpty(t *testing.T) {
	sm, err := NewStatusManager(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	_, ok := sm.Job("reconcile")
	assert.False(t, ok)
}
