package bulk

import (
	"context"
	"fmt"
	"time"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/infrastructure/messaging"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
	"bookforge-api/pkg/tracer"
)

// ChapterGenerator 章节生成端口，由生成服务实现
type ChapterGenerator interface {
	GenerateChapter(ctx context.Context, projectID string, index int) (*entity.Chapter, error)
}

var _ ChapterGenerator = (*generation.Service)(nil)

// Executor 批量运行执行器（worker 侧）
// 章节严格按序号升序逐个生成，后续章节的上下文因此能包含前面刚生成的内容
type Executor struct {
	runRepo     repository.RunRepository
	chapterRepo repository.ChapterRepository
	generator   ChapterGenerator
}

// NewExecutor 创建批量运行执行器
func NewExecutor(runRepo repository.RunRepository, chapterRepo repository.ChapterRepository, generator ChapterGenerator) *Executor {
	return &Executor{
		runRepo:     runRepo,
		chapterRepo: chapterRepo,
		generator:   generator,
	}
}

// HandleMessage 消费派发消息并执行运行
func (e *Executor) HandleMessage(ctx context.Context, msg *messaging.Message) error {
	var payload messaging.BulkRunMessage
	if err := msg.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal bulk run message: %w", err)
	}
	return e.Execute(ctx, payload.RunID)
}

// Execute 执行批量运行
// 单个章节的生成失败被隔离记录后继续；存储错误对整个运行是致命的
func (e *Executor) Execute(ctx context.Context, runID string) error {
	ctx, span := tracer.Start(ctx, "bulk.Executor.Execute")
	defer span.End()

	ctx = logger.WithContext(ctx, logger.RunIDKey, runID)

	run, err := e.runRepo.GetByID(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run: %w", err)
	}
	if run == nil {
		// 运行记录丢失时消息不可恢复，吞掉避免无限重试
		logger.Warn(ctx, "bulk run not found, dropping message", "run_id", runID)
		return nil
	}
	if !run.IsActive() {
		logger.Warn(ctx, "bulk run already finished, dropping message",
			"run_id", runID, "status", string(run.Status))
		return nil
	}

	// 以最新内容状态为准：崩溃恢复后已写完的章节不再派发
	written, err := e.chapterRepo.ContentIndices(ctx, run.ProjectID)
	if err != nil {
		return e.abort(ctx, run, fmt.Errorf("failed to load content indices: %w", err))
	}

	run.Start()
	if err := e.runRepo.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("failed to mark run as running: %w", err)
	}

	metrics.BulkRunsActive.Inc()
	defer metrics.BulkRunsActive.Dec()
	start := time.Now()

	deadline := time.Time{}
	if run.Budget > 0 {
		deadline = start.Add(time.Duration(run.Budget) * time.Second)
	}

	fatal := false
	for i := range run.Jobs {
		job := &run.Jobs[i]

		cancelled, err := e.runRepo.IsCancelRequested(ctx, run.ID)
		if err != nil {
			fatal = true
			e.failJob(ctx, run, job, "storage error while checking cancellation")
			break
		}
		if cancelled {
			run.CancelRequested = true
			logger.Info(ctx, "bulk run cancelled, stopping at job boundary",
				"run_id", run.ID, "next_index", job.ChapterIndex)
			break
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			job.Skip("run budget exhausted")
			e.recordJob(ctx, run, job)
			continue
		}

		if _, ok := written[job.ChapterIndex]; ok {
			job.Succeed()
			e.recordJob(ctx, run, job)
			run.Completed++
			e.reportProgress(ctx, run, job.ChapterIndex)
			continue
		}

		job.Start()
		idx := job.ChapterIndex
		run.CurrentIndex = &idx
		if err := e.runRepo.UpdateJob(ctx, job); err != nil {
			fatal = true
			e.failJob(ctx, run, job, "storage error while dispatching job")
			break
		}

		_, err = e.generator.GenerateChapter(ctx, run.ProjectID, job.ChapterIndex)
		switch {
		case err == nil:
			job.Succeed()
			run.Completed++
			metrics.BulkJobsTotal.WithLabelValues("succeeded").Inc()
		case apperrors.IsAppError(err):
			// 引擎已经按自身策略重试过，这里只记录并继续后面的章节
			job.Fail(err.Error())
			metrics.BulkJobsTotal.WithLabelValues("failed").Inc()
			logger.Warn(ctx, "chapter generation failed, continuing run",
				"run_id", run.ID, "index", job.ChapterIndex, "error", err.Error())
		default:
			// 非业务错误视为存储故障，中止整个运行
			fatal = true
			job.Fail(err.Error())
			metrics.BulkJobsTotal.WithLabelValues("failed").Inc()
			logger.Error(ctx, "storage error during bulk run, aborting", err,
				"run_id", run.ID, "index", job.ChapterIndex)
		}

		e.recordJob(ctx, run, job)
		e.reportProgress(ctx, run, job.ChapterIndex)

		if fatal {
			break
		}
	}

	run.Finish(fatal)
	metrics.BulkRunDuration.WithLabelValues(string(run.Status)).Observe(time.Since(start).Seconds())
	if err := e.runRepo.UpdateRun(ctx, run); err != nil {
		return fmt.Errorf("failed to finalize run: %w", err)
	}

	logger.Info(ctx, "bulk run finished",
		"run_id", run.ID,
		"status", string(run.Status),
		"completed", run.Completed,
		"total", run.Total,
		"failed_indices", run.FailedIndices())
	return nil
}

// abort 在运行进入执行前失败时的收尾
func (e *Executor) abort(ctx context.Context, run *entity.BulkRun, cause error) error {
	run.Finish(true)
	if err := e.runRepo.UpdateRun(ctx, run); err != nil {
		logger.Error(ctx, "failed to mark run as failed", err, "run_id", run.ID)
	}
	return cause
}

// failJob 标记任务失败并落库（存储已不可靠，落库失败仅记日志）
func (e *Executor) failJob(ctx context.Context, run *entity.BulkRun, job *entity.BulkJob, msg string) {
	job.Fail(msg)
	metrics.BulkJobsTotal.WithLabelValues("failed").Inc()
	e.recordJob(ctx, run, job)
}

// recordJob 持久化任务终态
func (e *Executor) recordJob(ctx context.Context, run *entity.BulkRun, job *entity.BulkJob) {
	if job.Status == entity.JobStatusSkipped {
		metrics.BulkJobsTotal.WithLabelValues("skipped").Inc()
	}
	if err := e.runRepo.UpdateJob(ctx, job); err != nil {
		logger.Error(ctx, "failed to persist job state", err,
			"run_id", run.ID, "index", job.ChapterIndex, "status", string(job.Status))
	}
}

// reportProgress 在每个终态转换后上报进度
func (e *Executor) reportProgress(ctx context.Context, run *entity.BulkRun, currentIndex int) {
	idx := currentIndex
	run.CurrentIndex = &idx
	run.UpdatedAt = time.Now()
	if err := e.runRepo.UpdateRun(ctx, run); err != nil {
		logger.Error(ctx, "failed to persist run progress", err, "run_id", run.ID)
	}
	logger.Info(ctx, "bulk run progress",
		"run_id", run.ID, "completed", run.Completed, "total", run.Total, "current_index", currentIndex)
}
