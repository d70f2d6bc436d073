package generation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/semaphore"

	"bookforge-api/internal/config"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/metrics"
)

// QueuePolicyWait 并发达到上限时排队等待
const QueuePolicyWait = "wait"

// QueuePolicyReject 并发达到上限时直接拒绝
const QueuePolicyReject = "reject"

// Validator 校验模型输出的结构
// 返回错误表示输出格式不合规，引擎会额外发起一次补救调用
type Validator func(raw string) error

// Engine 生成引擎
// 统一控制超时、重试退避与同项目并发上限；Invoker 只负责单次调用
type Engine struct {
	invoker  Invoker
	registry *Registry
	cfg      config.GenerationConfig

	mu   sync.Mutex
	sems map[string]*semaphore.Weighted
}

// NewEngine 创建生成引擎
func NewEngine(invoker Invoker, registry *Registry, cfg config.GenerationConfig) *Engine {
	if cfg.InvokeTimeout <= 0 {
		cfg.InvokeTimeout = 45 * time.Second
	}
	if cfg.ProjectConcurrency <= 0 {
		cfg.ProjectConcurrency = 2
	}
	if cfg.QueuePolicy == "" {
		cfg.QueuePolicy = QueuePolicyReject
	}
	return &Engine{
		invoker:  invoker,
		registry: registry,
		cfg:      cfg,
		sems:     make(map[string]*semaphore.Weighted),
	}
}

// Generate 执行一次生成
// validate 可为 nil；空白输出一律视为不合规。不合规的输出会追加一次
// 补救调用，仍不合规返回格式错误
func (e *Engine) Generate(ctx context.Context, gctx *Context, validate Validator) (string, error) {
	prompt, err := e.registry.Render(gctx)
	if err != nil {
		return "", apperrors.ErrInternalError.WithError(err)
	}
	return e.GeneratePrompt(ctx, gctx.Project.ID, gctx.Kind, prompt, validate)
}

// GeneratePrompt 以渲染好的提示词执行一次生成
func (e *Engine) GeneratePrompt(ctx context.Context, projectID string, kind ArtifactKind, prompt Prompt, validate Validator) (string, error) {
	release, err := e.acquire(ctx, projectID)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(kind), "overloaded").Inc()
		return "", err
	}
	defer release()

	metrics.GenerationInFlight.WithLabelValues(string(kind)).Inc()
	defer metrics.GenerationInFlight.WithLabelValues(string(kind)).Dec()

	start := time.Now()
	output, err := e.invokeWithRetry(ctx, kind, prompt)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(string(kind), "error").Inc()
		return "", err
	}

	if verr := checkOutput(output, validate); verr != nil {
		// 输出不合规：追加一次补救调用，而非走重试退避
		logger.Warn(ctx, "malformed model output, retrying once",
			"kind", string(kind), "reason", verr.Error())
		output, err = e.invokeOnce(ctx, kind, prompt)
		if err != nil {
			metrics.GenerationTotal.WithLabelValues(string(kind), "error").Inc()
			return "", err
		}
		if verr = checkOutput(output, validate); verr != nil {
			metrics.GenerationTotal.WithLabelValues(string(kind), "malformed").Inc()
			return "", apperrors.ErrMalformedOutput.WithDetail(verr.Error())
		}
	}

	metrics.GenerationTotal.WithLabelValues(string(kind), "ok").Inc()
	metrics.GenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	return output, nil
}

// checkOutput 输出校验
// 空白输出对任何产物种类都不合规；在此之上再执行调用方提供的结构校验
func checkOutput(output string, validate Validator) error {
	if strings.TrimSpace(output) == "" {
		return errors.New("model returned blank output")
	}
	if validate == nil {
		return nil
	}
	return validate(output)
}

// acquire 获取项目并发槽位，返回释放函数
func (e *Engine) acquire(ctx context.Context, projectID string) (func(), error) {
	sem := e.projectSem(projectID)

	if e.cfg.QueuePolicy == QueuePolicyWait {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, apperrors.ErrGenerationOverloaded.WithError(err)
		}
	} else if !sem.TryAcquire(1) {
		return nil, apperrors.ErrGenerationOverloaded
	}
	return func() { sem.Release(1) }, nil
}

func (e *Engine) projectSem(projectID string) *semaphore.Weighted {
	e.mu.Lock()
	defer e.mu.Unlock()
	sem, ok := e.sems[projectID]
	if !ok {
		sem = semaphore.NewWeighted(e.cfg.ProjectConcurrency)
		e.sems[projectID] = sem
	}
	return sem
}

// invokeWithRetry 带退避重试的模型调用，仅对瞬时错误重试
func (e *Engine) invokeWithRetry(ctx context.Context, kind ArtifactKind, prompt Prompt) (string, error) {
	var output string

	err := retry.Do(
		func() error {
			var err error
			output, err = e.invokeOnce(ctx, kind, prompt)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(uint(e.cfg.MaxRetries)+1),
		retry.Delay(e.cfg.RetryBackoff.Initial),
		retry.MaxDelay(e.cfg.RetryBackoff.Max),
		retry.MaxJitter(e.cfg.RetryBackoff.Initial),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			metrics.GenerationRetries.WithLabelValues(string(kind)).Inc()
			logger.Warn(ctx, "retrying generation",
				"kind", string(kind), "attempt", n+1, "error", err.Error())
		}),
	)
	if err != nil {
		return "", err
	}
	return output, nil
}

// invokeOnce 单次模型调用，施加调用级超时
func (e *Engine) invokeOnce(ctx context.Context, kind ArtifactKind, prompt Prompt) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.InvokeTimeout)
	defer cancel()

	output, err := e.invoker.Invoke(callCtx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", apperrors.ErrGenerationTimeout.WithError(err)
		}
		return "", err
	}
	return output, nil
}

// isTransient 判断错误是否值得重试
func isTransient(err error) bool {
	return apperrors.HasCode(err, apperrors.CodeGenerationTimeout) ||
		apperrors.HasCode(err, apperrors.CodeLLMRateLimited) ||
		apperrors.HasCode(err, apperrors.CodeLLMProviderError)
}
