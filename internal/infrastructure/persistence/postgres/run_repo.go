// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
)

// isUniqueViolation 判断是否为唯一约束冲突（SQLSTATE 23505）
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// RunRepository 批量运行仓储实现
type RunRepository struct {
	client *Client
	tx     repository.Transactor
}

// NewRunRepository 创建批量运行仓储
func NewRunRepository(client *Client, tx repository.Transactor) *RunRepository {
	return &RunRepository{client: client, tx: tx}
}

// Create 创建运行及其全部任务
func (r *RunRepository) Create(ctx context.Context, run *entity.BulkRun) error {
	ctx, span := tracer.Start(ctx, "postgres.RunRepository.Create")
	defer span.End()

	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		q := getQuerier(ctx, r.client.db)

		query := `
			INSERT INTO bulk_runs (id, project_id, status, total, completed, budget, cancel_requested, created_at, updated_at)
			VALUES (gen_random_uuid(), $1, $2, $3, 0, $4, FALSE, NOW(), NOW())
			RETURNING id, created_at, updated_at
		`
		if err := q.QueryRowContext(ctx, query,
			run.ProjectID, run.Status, run.Total, run.Budget,
		).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt); err != nil {
			// 唯一索引兜底：并发创建时后到者撞上进行中的运行
			if isUniqueViolation(err) {
				return apperrors.ErrRunConflict
			}
			return fmt.Errorf("failed to create bulk run: %w", err)
		}

		insert := `
			INSERT INTO bulk_jobs (run_id, chapter_index, status)
			VALUES ($1, $2, $3)
		`
		for i := range run.Jobs {
			run.Jobs[i].RunID = run.ID
			if _, err := q.ExecContext(ctx, insert,
				run.ID, run.Jobs[i].ChapterIndex, run.Jobs[i].Status,
			); err != nil {
				return fmt.Errorf("failed to create bulk job %d: %w", run.Jobs[i].ChapterIndex, err)
			}
		}
		return nil
	})

	if err != nil {
		span.RecordError(err)
		return err
	}

	return nil
}

// GetByID 获取运行及其任务列表
func (r *RunRepository) GetByID(ctx context.Context, id string) (*entity.BulkRun, error) {
	ctx, span := tracer.Start(ctx, "postgres.RunRepository.GetByID")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, project_id, status, total, completed, current_index, budget, cancel_requested,
			created_at, updated_at, started_at, completed_at
		FROM bulk_runs
		WHERE id = $1
	`

	run, err := r.scanRun(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get bulk run: %w", err)
	}

	if err := r.loadJobs(ctx, q, run); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return run, nil
}

// GetActiveByProject 获取项目当前进行中的运行
func (r *RunRepository) GetActiveByProject(ctx context.Context, projectID string) (*entity.BulkRun, error) {
	ctx, span := tracer.Start(ctx, "postgres.RunRepository.GetActiveByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, project_id, status, total, completed, current_index, budget, cancel_requested,
			created_at, updated_at, started_at, completed_at
		FROM bulk_runs
		WHERE project_id = $1 AND status IN ('pending', 'running')
		ORDER BY created_at DESC
		LIMIT 1
	`

	run, err := r.scanRun(q.QueryRowContext(ctx, query, projectID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get active bulk run: %w", err)
	}

	if err := r.loadJobs(ctx, q, run); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return run, nil
}

// UpdateRun 更新运行状态与进度字段
func (r *RunRepository) UpdateRun(ctx context.Context, run *entity.BulkRun) error {
	ctx, span := tracer.Start(ctx, "postgres.RunRepository.UpdateRun")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	var currentIndex sql.NullInt64
	if run.CurrentIndex != nil {
		currentIndex = sql.NullInt64{Int64: int64(*run.CurrentIndex), Valid: true}
	}

	query := `
		UPDATE bulk_runs
		SET status = $1, completed = $2, current_index = $3, started_at = $4, completed_at = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := q.QueryRowContext(ctx, query,
		run.Status, run.Completed, currentIndex, run.StartedAt, run.CompletedAt, run.ID,
	).Scan(&run.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update bulk run: %w", err)
	}

	return nil
}

// UpdateJob 更新单个任务状态
func (r *RunRepository) UpdateJob(ctx context.Context, job *entity.BulkJob) error {
	ctx, span := tracer.Start(ctx, "postgres.RunRepository.UpdateJob")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		UPDATE bulk_jobs
		SET status = $1, error_message = $2, started_at = $3, completed_at = $4
		WHERE run_id = $5 AND chapter_index = $6
	`

	if _, err := q.ExecContext(ctx, query,
		job.Status, job.ErrorMessage, job.StartedAt, job.CompletedAt, job.RunID, job.ChapterIndex,
	); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update bulk job: %w", err)
	}

	return nil
}

// RequestCancel 标记取消请求
func (r *RunRepository) RequestCancel(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.RunRepository.RequestCancel")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `UPDATE bulk_runs SET cancel_requested = TRUE, updated_at = NOW() WHERE id = $1`
	if _, err := q.ExecContext(ctx, query, id); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to request cancel: %w", err)
	}

	return nil
}

// IsCancelRequested 查询取消标记
func (r *RunRepository) IsCancelRequested(ctx context.Context, id string) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.RunRepository.IsCancelRequested")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	var cancelled bool
	err := q.QueryRowContext(ctx, `SELECT cancel_requested FROM bulk_runs WHERE id = $1`, id).Scan(&cancelled)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		span.RecordError(err)
		return false, fmt.Errorf("failed to query cancel flag: %w", err)
	}

	return cancelled, nil
}

// scanRun 从单行结果扫描运行
func (r *RunRepository) scanRun(row *sql.Row) (*entity.BulkRun, error) {
	var run entity.BulkRun
	var currentIndex sql.NullInt64
	var startedAt, completedAt sql.NullTime

	err := row.Scan(
		&run.ID, &run.ProjectID, &run.Status, &run.Total, &run.Completed,
		&currentIndex, &run.Budget, &run.CancelRequested,
		&run.CreatedAt, &run.UpdatedAt, &startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if currentIndex.Valid {
		idx := int(currentIndex.Int64)
		run.CurrentIndex = &idx
	}
	if startedAt.Valid {
		run.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return &run, nil
}

// loadJobs 加载运行的全部任务，按章节序号升序
func (r *RunRepository) loadJobs(ctx context.Context, q Querier, run *entity.BulkRun) error {
	query := `
		SELECT run_id, chapter_index, status, error_message, started_at, completed_at
		FROM bulk_jobs
		WHERE run_id = $1
		ORDER BY chapter_index ASC
	`

	rows, err := q.QueryContext(ctx, query, run.ID)
	if err != nil {
		return fmt.Errorf("failed to load bulk jobs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var job entity.BulkJob
		var errMsg sql.NullString
		var startedAt, completedAt sql.NullTime

		if err := rows.Scan(
			&job.RunID, &job.ChapterIndex, &job.Status, &errMsg, &startedAt, &completedAt,
		); err != nil {
			return fmt.Errorf("failed to scan bulk job: %w", err)
		}

		if errMsg.Valid {
			job.ErrorMessage = errMsg.String
		}
		if startedAt.Valid {
			job.StartedAt = &startedAt.Time
		}
		if completedAt.Valid {
			job.CompletedAt = &completedAt.Time
		}
		run.Jobs = append(run.Jobs, job)
	}

	return nil
}
