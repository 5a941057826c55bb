package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/export"
	"github.com/wheretodine/hotspot-cli/internal/model"
	"github.com/wheretodine/hotspot-cli/internal/store"
)

// stageFunc executes one pipeline stage and returns metadata for the run
// record.
type stageFunc func(ctx context.Context) (map[string]any, error)

// Run executes every stage in order, recording per-stage results against a
// run in the store. A stage failure halts the run; artifacts written by
// earlier stages stay on disk.
func (p *Pipeline) Run(ctx context.Context, st store.Store) (*model.Run, error) {
	run, err := st.CreateRun(ctx, p.cfg.City.Name)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	if err := st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark run running")
	}
	p.log.Info("run started", zap.String("run_id", run.ID), zap.String("city", run.City))

	stages := []struct {
		name string
		fn   stageFunc
	}{
		{"merge-restaurants", p.MergeRestaurants},
		{"cluster-restaurants", p.ClusterRestaurants},
		{"ingest-taxi", p.IngestTaxi},
		{"cluster-taxi", p.ClusterTaxi},
		{"intersect", p.Intersect},
	}

	for _, s := range stages {
		if err := p.trackStage(ctx, st, run.ID, s.name, s.fn); err != nil {
			if serr := st.UpdateRunStatus(ctx, run.ID, model.RunStatusFailed); serr != nil {
				p.log.Error("failed to mark run failed", zap.String("run_id", run.ID), zap.Error(serr))
			}
			return run, eris.Wrapf(err, "pipeline: stage %s", s.name)
		}
	}

	var summary model.IntersectionSummary
	if err := export.ReadJSON(p.OutPath(FileIntersectionAnalysis), &summary); err != nil {
		return run, eris.Wrap(err, "pipeline: read analysis summary")
	}
	if err := st.CompleteRun(ctx, run.ID, &summary); err != nil {
		return run, eris.Wrap(err, "pipeline: complete run")
	}

	p.log.Info("run completed",
		zap.String("run_id", run.ID),
		zap.Int("hotspots", summary.FinalHotspots.NHotspots))
	return run, nil
}

func (p *Pipeline) trackStage(ctx context.Context, st store.Store, runID, name string, fn stageFunc) error {
	stage, err := st.CreateStage(ctx, runID, name)
	if err != nil {
		return eris.Wrapf(err, "pipeline: create stage %s", name)
	}
	p.log.Info("stage started", zap.String("run_id", runID), zap.String("stage", name))

	start := time.Now()
	meta, stageErr := fn(ctx)
	result := &model.StageResult{
		Name:       name,
		Status:     model.StageStatusComplete,
		DurationMs: time.Since(start).Milliseconds(),
		Metadata:   meta,
	}
	if stageErr != nil {
		result.Status = model.StageStatusFailed
		result.Error = stageErr.Error()
	}

	if err := st.CompleteStage(ctx, stage.ID, result); err != nil {
		p.log.Error("failed to record stage result",
			zap.String("run_id", runID),
			zap.String("stage", name),
			zap.Error(err))
	}

	if stageErr != nil {
		p.log.Error("stage failed",
			zap.String("run_id", runID),
			zap.String("stage", name),
			zap.Error(stageErr))
		return stageErr
	}
	p.log.Info("stage completed",
		zap.String("run_id", runID),
		zap.String("stage", name),
		zap.Int64("duration_ms", result.DurationMs))
	return nil
}
