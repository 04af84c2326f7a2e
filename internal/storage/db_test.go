package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuboard/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "menu.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)

	categories := []internal.MenuCategory{
		{Name: "Waters", Items: []internal.DisplayMenuItem{
			{ID: "2", Category: "Waters", Name: "Agua", Price: 25.5, Description: "Fría", Stock: 0},
		}},
		{Name: "Tacos", Items: []internal.DisplayMenuItem{
			{ID: "3", Category: "Tacos", Name: "Asada", Price: 50, Description: "x", Stock: 4, Available: true},
			{ID: "1", Category: "Tacos", Name: "Pastor", Price: 45, Description: "y", ImageURL: "http://img", Stock: 1, Available: true},
		}},
	}

	runID, err := db.InsertRun(internal.SyncRunRow{TraceID: "t-1", Status: internal.RunOK, RawCount: 3, ItemCount: 3, CategoryCount: 2}, map[string]float64{"totalMs": 3})
	require.NoError(t, err)
	require.NoError(t, db.SaveSnapshot(runID, categories))

	run, got, ok, err := db.LatestSnapshot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t-1", run.TraceID)
	assert.Equal(t, categories, got)
}

func TestLatestSnapshotSkipsFailedRuns(t *testing.T) {
	db := openTestDB(t)

	_, _, ok, err := db.LatestSnapshot()
	require.NoError(t, err)
	assert.False(t, ok)

	okID, err := db.InsertRun(internal.SyncRunRow{TraceID: "good", Status: internal.RunOK}, nil)
	require.NoError(t, err)
	require.NoError(t, db.SaveSnapshot(okID, []internal.MenuCategory{{Name: "A", Items: []internal.DisplayMenuItem{{ID: "1", Category: "A"}}}}))
	_, err = db.InsertRun(internal.SyncRunRow{TraceID: "bad", Status: internal.RunFailed, Error: "boom"}, nil)
	require.NoError(t, err)

	run, got, ok, err := db.LatestSnapshot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "good", run.TraceID)
	assert.Len(t, got, 1)

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "bad", runs[0].TraceID)
	assert.Equal(t, internal.RunFailed, runs[0].Status)
	assert.Equal(t, "boom", runs[0].Error)
}

func TestMetadata(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetMetadata("menu.last_sync")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, db.SetMetadata("menu.last_sync", "a"))
	require.NoError(t, db.SetMetadata("menu.last_sync", "b"))
	v, err = db.GetMetadata("menu.last_sync")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "b", *v)
}

func TestRecordSuccessfulRun(t *testing.T) {
	db := openTestDB(t)

	categories := []internal.MenuCategory{{Name: "A", Items: []internal.DisplayMenuItem{{ID: "1", Category: "A", Name: "One"}}}}
	runID, err := db.RecordSuccessfulRun(internal.SyncRunRow{TraceID: "t-ok", Status: internal.RunOK, ItemCount: 1, CategoryCount: 1}, nil, categories)
	require.NoError(t, err)
	assert.NotZero(t, runID)

	run, got, ok, err := db.LatestSnapshot()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t-ok", run.TraceID)
	assert.Equal(t, categories, got)
}

func TestRecordSuccessfulRunRollsBackOnSnapshotFailure(t *testing.T) {
	db := openTestDB(t)

	_, err := db.conn.Exec(`DROP TABLE menu_items`)
	require.NoError(t, err)

	categories := []internal.MenuCategory{{Name: "A", Items: []internal.DisplayMenuItem{{ID: "1", Category: "A"}}}}
	_, err = db.RecordSuccessfulRun(internal.SyncRunRow{TraceID: "t-partial", Status: internal.RunOK}, nil, categories)
	require.Error(t, err)

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs, "the run row is rolled back with the snapshot")

	_, _, ok, err := db.LatestSnapshot()
	require.NoError(t, err)
	assert.False(t, ok)
}
