package scheduler

import (
	"context"

	"github.com/wonny/ignition/internal/pipeline"
	"github.com/wonny/ignition/pkg/logger"
)

// StagingChunkJob stages one chunk per tick during market hours. The
// chunked pipeline is built for exactly this: each tick advances the
// persisted cursor by one chunk and exports what qualified.
// ⭐ SSOT: 스테이징 스케줄은 이 Job에서만
type StagingChunkJob struct {
	runner   *pipeline.Runner
	schedule string
	logger   *logger.Logger
}

// NewStagingChunkJob creates the staging job on the given cron schedule
func NewStagingChunkJob(runner *pipeline.Runner, schedule string, log *logger.Logger) *StagingChunkJob {
	return &StagingChunkJob{runner: runner, schedule: schedule, logger: log}
}

func (j *StagingChunkJob) Name() string { return "staging_chunk" }

func (j *StagingChunkJob) Schedule() string { return j.schedule }

func (j *StagingChunkJob) Run(ctx context.Context) error {
	return j.runner.RunOnce(ctx)
}

// ScoringJob scores the market cache after the close
type ScoringJob struct {
	runner   *pipeline.Runner
	schedule string
	logger   *logger.Logger
}

// NewScoringJob creates the scoring job on the given cron schedule
func NewScoringJob(runner *pipeline.Runner, schedule string, log *logger.Logger) *ScoringJob {
	return &ScoringJob{runner: runner, schedule: schedule, logger: log}
}

func (j *ScoringJob) Name() string { return "scoring" }

func (j *ScoringJob) Schedule() string { return j.schedule }

func (j *ScoringJob) Run(ctx context.Context) error {
	signals, err := j.runner.RunScoring(ctx)
	if err != nil {
		return err
	}
	j.logger.WithField("signals", len(signals)).Info("Scheduled scoring complete")
	return nil
}
