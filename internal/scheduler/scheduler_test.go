package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/pkg/logger"
)

type fakeJob struct {
	name string
	errs []error
	runs int
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return "@every 1h" }

func (j *fakeJob) Run(ctx context.Context) error {
	defer func() { j.runs++ }()
	if j.runs < len(j.errs) {
		return j.errs[j.runs]
	}
	return nil
}

func newTestScheduler(t *testing.T, jobs ...Job) *Scheduler {
	t.Helper()
	s := New(logger.NewNop())
	s.retryDelay = 0
	for _, job := range jobs {
		require.NoError(t, s.AddJob(job))
	}
	return s
}

func TestAddJobRejectsDuplicates(t *testing.T) {
	s := newTestScheduler(t, &fakeJob{name: "staging_chunk"})
	err := s.AddJob(&fakeJob{name: "staging_chunk"})
	assert.Error(t, err)
}

func TestRunJobRetriesUntilSuccess(t *testing.T) {
	job := &fakeJob{name: "flaky", errs: []error{errors.New("transient")}}
	s := newTestScheduler(t, job)

	s.runJob(job)

	history, err := s.History("flaky")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)
	assert.True(t, history.Results[0].Success)
	assert.Equal(t, 2, job.runs)
}

func TestLockContentionCountsAsSkip(t *testing.T) {
	job := &fakeJob{name: "staging_chunk", errs: []error{contracts.ErrLocked}}
	s := newTestScheduler(t, job)

	s.runJob(job)

	history, err := s.History("staging_chunk")
	require.NoError(t, err)
	require.Len(t, history.Results, 1)

	result := history.Results[0]
	assert.True(t, result.Skipped)
	assert.False(t, result.Success)
	assert.Empty(t, result.Error)
	// No retry after a lock skip
	assert.Equal(t, 1, job.runs)

	stats := s.Stats()["staging_chunk"]
	assert.Equal(t, 1, stats.SkippedCount)
	assert.Equal(t, 0, stats.FailureCount)
}

func TestHistorySuccessRateIgnoresSkips(t *testing.T) {
	h := &JobHistory{}
	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Skipped: true})
	h.AddResult(JobResult{Success: false})

	assert.InDelta(t, 0.5, h.SuccessRate(), 1e-9)
	assert.Len(t, h.Failed(), 1)
}
