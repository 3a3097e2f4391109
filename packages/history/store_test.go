package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homeshare-india/smokecheck/packages/smoke"
)

func testReport(runID string, passed int) *smoke.Report {
	return &smoke.Report{
		RunID:       runID,
		BaseURL:     "http://localhost:8000",
		StartedAt:   time.Now(),
		Duration:    120 * time.Millisecond,
		TestsRun:    2,
		TestsPassed: passed,
		Results: []*smoke.CaseResult{
			{Name: "Root API", Method: "GET", ExpectedStatus: 200, ActualStatus: 200, Success: true, Preview: "OK", Duration: 40 * time.Millisecond},
			{Name: "Get All Properties", Method: "GET", Endpoint: "properties", ExpectedStatus: 200, Success: false, Preview: "connection refused", Err: errors.New("connection refused")},
		},
	}
}

func TestStore_SaveAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveReport(testReport("run-1", 1)))
	require.NoError(t, store.SaveReport(testReport("run-2", 2)))

	runs, err := store.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	for _, run := range runs {
		assert.Equal(t, "http://localhost:8000", run.BaseURL)
		assert.Equal(t, 2, run.TestsRun)
	}
}

func TestStore_DuplicateRunIDRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveReport(testReport("run-1", 1)))
	assert.Error(t, store.SaveReport(testReport("run-1", 1)))
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveReport(testReport("run-1", 2)))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.RecentRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}
