package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBulkRun_CreatesPendingJobs(t *testing.T) {
	run := NewBulkRun("p1", []int{2, 4, 5}, 600)

	assert.Equal(t, RunStatusPending, run.Status)
	assert.Equal(t, 3, run.Total)
	assert.Equal(t, 600, run.Budget)
	require.Len(t, run.Jobs, 3)
	for _, job := range run.Jobs {
		assert.Equal(t, JobStatusPending, job.Status)
	}
	assert.Equal(t, 4, run.Jobs[1].ChapterIndex)
}

func TestBulkRun_FinishStates(t *testing.T) {
	run := NewBulkRun("p1", []int{1}, 0)
	run.Start()
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.True(t, run.IsActive())

	run.Finish(false)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.False(t, run.IsActive())
	assert.Nil(t, run.CurrentIndex)
	assert.NotNil(t, run.CompletedAt)
}

func TestBulkRun_FinishFatal(t *testing.T) {
	run := NewBulkRun("p1", []int{1}, 0)
	run.Start()
	run.Finish(true)
	assert.Equal(t, RunStatusFailed, run.Status)
}

func TestBulkRun_FinishCancelled(t *testing.T) {
	run := NewBulkRun("p1", []int{1}, 0)
	run.Start()
	run.CancelRequested = true
	run.Finish(false)
	assert.Equal(t, RunStatusCancelled, run.Status)
}

func TestBulkRun_FatalWinsOverCancel(t *testing.T) {
	run := NewBulkRun("p1", []int{1}, 0)
	run.Start()
	run.CancelRequested = true
	run.Finish(true)
	assert.Equal(t, RunStatusFailed, run.Status)
}

func TestBulkRun_FailedIndices(t *testing.T) {
	run := NewBulkRun("p1", []int{1, 2, 3}, 0)
	run.Jobs[0].Succeed()
	run.Jobs[1].Fail("timeout")
	run.Jobs[2].Skip("budget")

	assert.Equal(t, []int{2}, run.FailedIndices())
}

func TestBulkJob_Transitions(t *testing.T) {
	job := BulkJob{ChapterIndex: 1, Status: JobStatusPending}
	assert.False(t, job.Status.IsTerminal())

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)
	assert.False(t, job.Status.IsTerminal())

	job.Succeed()
	assert.True(t, job.Status.IsTerminal())
	assert.NotNil(t, job.CompletedAt)

	failed := BulkJob{}
	failed.Fail("boom")
	assert.Equal(t, JobStatusFailed, failed.Status)
	assert.Equal(t, "boom", failed.ErrorMessage)
	assert.True(t, failed.Status.IsTerminal())

	skipped := BulkJob{}
	skipped.Skip("run budget exhausted")
	assert.Equal(t, JobStatusSkipped, skipped.Status)
	assert.True(t, skipped.Status.IsTerminal())
}
