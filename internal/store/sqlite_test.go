package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheretodine/hotspot-cli/internal/config"
	"github.com/wheretodine/hotspot-cli/internal/model"
)

func configStore(driver string) config.StoreConfig {
	return config.StoreConfig{Driver: driver}
}

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "nyc")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusRunning, got.Status)
	assert.Equal(t, "nyc", got.City)
	assert.Empty(t, got.Summary)

	summary := &model.IntersectionSummary{
		FinalHotspots: model.HotspotSummary{NHotspots: 3},
		TopHotspots:   []model.TopHotspot{},
	}
	require.NoError(t, s.CompleteRun(ctx, run.ID, summary))

	got, err = s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, got.Status)
	assert.Contains(t, got.Summary, `"n_hotspots":3`)
}

func TestSQLiteStore_RunNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "missing")
	assert.Error(t, err)

	err = s.UpdateRunStatus(context.Background(), "missing", model.RunStatusFailed)
	assert.Error(t, err)
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	r1, err := s.CreateRun(ctx, "nyc")
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, "chicago")
	require.NoError(t, err)
	require.NoError(t, s.UpdateRunStatus(ctx, r1.ID, model.RunStatusFailed))

	all, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, r1.ID, failed[0].ID)

	chicago, err := s.ListRuns(ctx, RunFilter{City: "chicago"})
	require.NoError(t, err)
	assert.Len(t, chicago, 1)

	limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_Stages(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "nyc")
	require.NoError(t, err)

	st, err := s.CreateStage(ctx, run.ID, "merge")
	require.NoError(t, err)
	assert.Equal(t, model.StageStatusRunning, st.Status)

	require.NoError(t, s.CompleteStage(ctx, st.ID, &model.StageResult{
		Name:       "merge",
		Status:     model.StageStatusComplete,
		DurationMs: 1200,
		Metadata:   map[string]any{"merged": 4521},
	}))

	st2, err := s.CreateStage(ctx, run.ID, "cluster-restaurants")
	require.NoError(t, err)
	require.NoError(t, s.CompleteStage(ctx, st2.ID, &model.StageResult{
		Name:   "cluster-restaurants",
		Status: model.StageStatusFailed,
		Error:  "no input points",
	}))

	stages, err := s.ListStages(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, model.StageStatusComplete, stages[0].Status)
	assert.Contains(t, stages[0].Result, `"merged":4521`)
	assert.Equal(t, model.StageStatusFailed, stages[1].Status)
}

func TestSQLiteStore_CompleteStageNotFound(t *testing.T) {
	s := newTestSQLite(t)

	err := s.CompleteStage(context.Background(), "missing", &model.StageResult{Status: model.StageStatusComplete})
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), configStore("nosuch"))
	assert.Error(t, err)
}
