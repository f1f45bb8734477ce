package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"reaction-ledger/models"
)

// StatusManager keeps the last run of each scheduled job in a JSON status file.
type StatusManager struct {
	statusFile string
	mutex      sync.Mutex
	status     *models.StatusFile
}

// NewStatusManager creates a status manager, picking up an existing file if present.
func NewStatusManager(statusFile string) (*StatusManager, error) {
	sm := &StatusManager{
		statusFile: statusFile,
		status: &models.StatusFile{
			Jobs: make(map[string]*models.JobStatus),
		},
	}

	data, err := os.ReadFile(statusFile)
	if errors.Is(err, os.ErrNotExist) {
		return sm, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}
	if err := json.Unmarshal(data, sm.status); err != nil {
		return nil, fmt.Errorf("failed to parse status file %s: %w", statusFile, err)
	}
	if sm.status.Jobs == nil {
		sm.status.Jobs = make(map[string]*models.JobStatus)
	}
	return sm, nil
}

// RecordReconcile stores the summary of a reconciliation run.
func (sm *StatusManager) RecordReconcile(r models.ReconcileReport) {
	sm.record("reconcile", &models.JobStatus{
		LastRun:  r.StartedAt,
		Duration: r.Duration.String(),
		Summary: map[string]string{
			"target_date": r.Target.String(),
			"scanned":     fmt.Sprint(r.Scanned),
			"updated":     fmt.Sprint(r.Count(models.OutcomeUpdated)),
			"skipped":     fmt.Sprint(r.Count(models.OutcomeSkipped)),
			"failed":      fmt.Sprint(r.Count(models.OutcomeFailed)),
		},
		Error: errString(r.Err),
	})
}

// RecordFlush stores the summary of a tally flush.
func (sm *StatusManager) RecordFlush(r models.FlushReport) {
	sm.record("flush", &models.JobStatus{
		LastRun:  r.StartedAt,
		Duration: r.Duration.String(),
		Summary: map[string]string{
			"batch_id": r.BatchID,
			"drained":  fmt.Sprint(r.Drained),
			"inserted": fmt.Sprint(r.Inserted),
		},
		Error: errString(r.Err),
	})
}

// Job returns a copy of the last recorded status of a job.
func (sm *StatusManager) Job(name string) (models.JobStatus, bool) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	st, ok := sm.status.Jobs[name]
	if !ok {
		return models.JobStatus{}, false
	}
	return *st, true
}

func (sm *StatusManager) record(job string, st *models.JobStatus) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	sm.status.Jobs[job] = st
}

// File is the path of the status file.
func (sm *StatusManager) File() string {
	return sm.statusFile
}

// Save commits the current job status to the JSON file.
func (sm *StatusManager) Save() error {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()

	sm.status.LastUpdated = time.Now()

	// Ensure the directory exists.
	dir := filepath.Dir(sm.statusFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	data, err := json.MarshalIndent(sm.status, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	if err := os.WriteFile(sm.statusFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write status file: %w", err)
	}
	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
