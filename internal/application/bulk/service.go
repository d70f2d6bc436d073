// Package bulk 实现章节批量补全编排
package bulk

import (
	"context"
	"sort"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/infrastructure/messaging"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/tracer"
)

// Service 批量运行服务（HTTP 侧）
// 创建运行记录并派发给 worker，同一项目同时只允许一个进行中的运行
type Service struct {
	projectRepo repository.ProjectRepository
	outlineRepo repository.OutlineRepository
	chapterRepo repository.ChapterRepository
	runRepo     repository.RunRepository
	producer    *messaging.Producer

	// runBudget 运行的墙钟预算秒数，0 表示不限制
	runBudget int
}

// NewService 创建批量运行服务
func NewService(
	projectRepo repository.ProjectRepository,
	outlineRepo repository.OutlineRepository,
	chapterRepo repository.ChapterRepository,
	runRepo repository.RunRepository,
	producer *messaging.Producer,
	runBudget int,
) *Service {
	return &Service{
		projectRepo: projectRepo,
		outlineRepo: outlineRepo,
		chapterRepo: chapterRepo,
		runRepo:     runRepo,
		producer:    producer,
		runBudget:   runBudget,
	}
}

// Start 启动批量运行
// resume 为 true 时沿用恢复语义：两种路径都只派发尚无内容的章节，
// 差别仅在于全部章节已有内容时 resume 直接返回空运行而非校验失败
func (s *Service) Start(ctx context.Context, projectID string, resume bool) (*entity.BulkRun, error) {
	ctx, span := tracer.Start(ctx, "bulk.Service.Start")
	defer span.End()

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	if active, err := s.runRepo.GetActiveByProject(ctx, projectID); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	} else if active != nil {
		return nil, apperrors.ErrRunConflict
	}

	indices, err := s.missingIndices(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(indices) == 0 && !resume {
		return nil, apperrors.ErrValidationFailed.WithDetail("all chapters already have content")
	}

	run := entity.NewBulkRun(projectID, indices, s.runBudget)
	if err := s.runRepo.Create(ctx, run); err != nil {
		// 唯一索引兜底并发创建：两个请求同时通过活动运行检查时后到者在此收敛
		if apperrors.HasCode(err, apperrors.CodeRunConflict) {
			return nil, apperrors.ErrRunConflict
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	msg := &messaging.BulkRunMessage{
		RunID:     run.ID,
		ProjectID: projectID,
		Resume:    resume,
	}
	if _, err := s.producer.PublishBulkRun(ctx, msg); err != nil {
		run.Finish(true)
		if uerr := s.runRepo.UpdateRun(ctx, run); uerr != nil {
			logger.Error(ctx, "failed to mark undispatched run as failed", uerr, "run_id", run.ID)
		}
		return nil, apperrors.ErrServiceUnavailable.WithError(err)
	}

	logger.Info(ctx, "bulk run dispatched",
		"run_id", run.ID, "project_id", projectID, "total", run.Total, "resume", resume)
	return run, nil
}

// Get 获取运行详情（含任务列表）
func (s *Service) Get(ctx context.Context, runID string) (*entity.BulkRun, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if run == nil {
		return nil, apperrors.ErrRunNotFound
	}
	return run, nil
}

// GetActive 获取项目当前进行中的运行，没有则返回 nil
func (s *Service) GetActive(ctx context.Context, projectID string) (*entity.BulkRun, error) {
	run, err := s.runRepo.GetActiveByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return run, nil
}

// Cancel 请求取消运行
// 取消在任务边界生效：进行中的模型调用会正常完成或超时
func (s *Service) Cancel(ctx context.Context, runID string) error {
	ctx, span := tracer.Start(ctx, "bulk.Service.Cancel")
	defer span.End()

	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if run == nil {
		return apperrors.ErrRunNotFound
	}
	if !run.IsActive() {
		return apperrors.ErrConflict.WithDetail("run is already finished")
	}

	if err := s.runRepo.RequestCancel(ctx, runID); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Info(ctx, "bulk run cancellation requested", "run_id", runID)
	return nil
}

// missingIndices 计算大纲中尚无非空内容的章节序号，升序
func (s *Service) missingIndices(ctx context.Context, projectID string) ([]int, error) {
	outline, err := s.outlineRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if outline == nil {
		return nil, apperrors.ErrOutlineNotFound
	}

	written, err := s.chapterRepo.ContentIndices(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	var indices []int
	for _, stub := range outline.Chapters {
		if _, ok := written[stub.Index]; !ok {
			indices = append(indices, stub.Index)
		}
	}
	sort.Ints(indices)
	return indices, nil
}
