package bulk

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
)

// fakeRunRepo 内存版运行仓储
type fakeRunRepo struct {
	run *entity.BulkRun
	// cancelAfterJobs 处理完这么多任务后返回取消标记
	cancelAfterJobs int
	cancelChecks    int
	cancelErr       error
	jobUpdates      []entity.BulkJob
	updateJobErr    error
	createErr       error
}

func (f *fakeRunRepo) Create(_ context.Context, run *entity.BulkRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	run.ID = "r1"
	f.run = run
	return nil
}

func (f *fakeRunRepo) GetByID(context.Context, string) (*entity.BulkRun, error) {
	return f.run, nil
}

func (f *fakeRunRepo) GetActiveByProject(context.Context, string) (*entity.BulkRun, error) {
	if f.run != nil && f.run.IsActive() {
		return f.run, nil
	}
	return nil, nil
}

func (f *fakeRunRepo) UpdateRun(context.Context, *entity.BulkRun) error { return nil }

func (f *fakeRunRepo) UpdateJob(_ context.Context, job *entity.BulkJob) error {
	if f.updateJobErr != nil {
		return f.updateJobErr
	}
	f.jobUpdates = append(f.jobUpdates, *job)
	return nil
}

func (f *fakeRunRepo) RequestCancel(context.Context, string) error {
	f.cancelAfterJobs = 0
	return nil
}

func (f *fakeRunRepo) IsCancelRequested(context.Context, string) (bool, error) {
	if f.cancelErr != nil {
		return false, f.cancelErr
	}
	f.cancelChecks++
	return f.cancelAfterJobs > 0 && f.cancelChecks > f.cancelAfterJobs, nil
}

// fakeContentRepo 只实现执行器用到的章节内容查询
type fakeContentRepo struct {
	written map[int]struct{}
}

func (f *fakeContentRepo) SaveContent(_ context.Context, ch *entity.Chapter) error {
	if f.written == nil {
		f.written = make(map[int]struct{})
	}
	f.written[ch.Index] = struct{}{}
	return nil
}

func (f *fakeContentRepo) GetByIndex(context.Context, string, int) (*entity.Chapter, error) {
	return nil, nil
}

func (f *fakeContentRepo) ListByProject(context.Context, string) ([]*entity.Chapter, error) {
	return nil, nil
}

func (f *fakeContentRepo) ContentIndices(context.Context, string) (map[int]struct{}, error) {
	if f.written == nil {
		return map[int]struct{}{}, nil
	}
	return f.written, nil
}

// fakeGenerator 按章节序号返回脚本化结果
type fakeGenerator struct {
	failOn map[int]error
	called []int
	delay  time.Duration
}

func (f *fakeGenerator) GenerateChapter(_ context.Context, projectID string, index int) (*entity.Chapter, error) {
	f.called = append(f.called, index)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err, ok := f.failOn[index]; ok {
		return nil, err
	}
	ch := entity.NewChapter(projectID, index, "t")
	ch.SetContent("generated")
	return ch, nil
}

func newRun(indices []int, budget int) *fakeRunRepo {
	run := entity.NewBulkRun("p1", indices, budget)
	run.ID = "r1"
	return &fakeRunRepo{run: run}
}

func TestExecute_AllChaptersSucceed(t *testing.T) {
	runs := newRun([]int{1, 2, 3}, 0)
	gen := &fakeGenerator{}
	e := NewExecutor(runs, &fakeContentRepo{}, gen)

	require.NoError(t, e.Execute(context.Background(), "r1"))

	assert.Equal(t, []int{1, 2, 3}, gen.called, "chapters must be generated in ascending order")
	assert.Equal(t, entity.RunStatusCompleted, runs.run.Status)
	assert.Equal(t, 3, runs.run.Completed)
	assert.Nil(t, runs.run.CurrentIndex)
	assert.Empty(t, runs.run.FailedIndices())
}

func TestExecute_GenerationFailureIsIsolated(t *testing.T) {
	runs := newRun([]int{1, 2, 3}, 0)
	gen := &fakeGenerator{failOn: map[int]error{
		2: apperrors.ErrGenerationTimeout,
	}}
	e := NewExecutor(runs, &fakeContentRepo{}, gen)

	require.NoError(t, e.Execute(context.Background(), "r1"))

	assert.Equal(t, []int{1, 2, 3}, gen.called, "later chapters still run after a failure")
	assert.Equal(t, entity.RunStatusCompleted, runs.run.Status)
	assert.Equal(t, 2, runs.run.Completed)
	assert.Equal(t, []int{2}, runs.run.FailedIndices())
}

func TestExecute_StorageErrorIsFatal(t *testing.T) {
	runs := newRun([]int{1, 2, 3}, 0)
	gen := &fakeGenerator{failOn: map[int]error{
		2: fmt.Errorf("pq: connection refused"),
	}}
	e := NewExecutor(runs, &fakeContentRepo{}, gen)

	require.NoError(t, e.Execute(context.Background(), "r1"))

	assert.Equal(t, []int{1, 2}, gen.called, "run aborts at the storage error")
	assert.Equal(t, entity.RunStatusFailed, runs.run.Status)
	assert.Equal(t, entity.JobStatusPending, runs.run.Jobs[2].Status)
}

func TestExecute_ResumeSkipsWrittenChapters(t *testing.T) {
	runs := newRun([]int{1, 2, 3}, 0)
	content := &fakeContentRepo{written: map[int]struct{}{1: {}, 2: {}}}
	gen := &fakeGenerator{}
	e := NewExecutor(runs, content, gen)

	require.NoError(t, e.Execute(context.Background(), "r1"))

	assert.Equal(t, []int{3}, gen.called, "already written chapters must not hit the engine again")
	assert.Equal(t, entity.RunStatusCompleted, runs.run.Status)
	assert.Equal(t, 3, runs.run.Completed)
	assert.Equal(t, entity.JobStatusSucceeded, runs.run.Jobs[0].Status)
	assert.Equal(t, entity.JobStatusSucceeded, runs.run.Jobs[1].Status)
}

func TestExecute_CancellationStopsAtJobBoundary(t *testing.T) {
	runs := newRun([]int{1, 2, 3}, 0)
	runs.cancelAfterJobs = 1
	gen := &fakeGenerator{}
	e := NewExecutor(runs, &fakeContentRepo{}, gen)

	require.NoError(t, e.Execute(context.Background(), "r1"))

	assert.Equal(t, []int{1}, gen.called)
	assert.Equal(t, entity.RunStatusCancelled, runs.run.Status)
	assert.Equal(t, 1, runs.run.Completed)
	assert.Equal(t, entity.JobStatusPending, runs.run.Jobs[1].Status)
}

func TestExecute_BudgetExhaustionSkipsRemaining(t *testing.T) {
	runs := newRun([]int{1, 2, 3}, 1)
	gen := &fakeGenerator{delay: 1100 * time.Millisecond}
	e := NewExecutor(runs, &fakeContentRepo{}, gen)

	require.NoError(t, e.Execute(context.Background(), "r1"))

	assert.Equal(t, []int{1}, gen.called, "budget expires after the first slow chapter")
	assert.Equal(t, entity.RunStatusCompleted, runs.run.Status)
	assert.Equal(t, entity.JobStatusSucceeded, runs.run.Jobs[0].Status)
	assert.Equal(t, entity.JobStatusSkipped, runs.run.Jobs[1].Status)
	assert.Equal(t, entity.JobStatusSkipped, runs.run.Jobs[2].Status)
	assert.Equal(t, "run budget exhausted", runs.run.Jobs[1].ErrorMessage)
}

func TestExecute_MissingRunDropsMessage(t *testing.T) {
	e := NewExecutor(&fakeRunRepo{}, &fakeContentRepo{}, &fakeGenerator{})
	assert.NoError(t, e.Execute(context.Background(), "ghost"))
}

func TestExecute_FinishedRunDropsMessage(t *testing.T) {
	runs := newRun([]int{1}, 0)
	runs.run.Finish(false)
	gen := &fakeGenerator{}
	e := NewExecutor(runs, &fakeContentRepo{}, gen)

	require.NoError(t, e.Execute(context.Background(), "r1"))
	assert.Empty(t, gen.called)
}

func TestExecute_CancelCheckStorageErrorAborts(t *testing.T) {
	runs := newRun([]int{1, 2}, 0)
	runs.cancelErr = fmt.Errorf("redis down")
	gen := &fakeGenerator{}
	e := NewExecutor(runs, &fakeContentRepo{}, gen)

	require.NoError(t, e.Execute(context.Background(), "r1"))
	assert.Equal(t, entity.RunStatusFailed, runs.run.Status)
	assert.Empty(t, gen.called)
}
