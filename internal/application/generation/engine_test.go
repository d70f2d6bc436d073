package generation

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/config"
	apperrors "bookforge-api/pkg/errors"
)

// fakeInvoker 按脚本依次返回预设结果
type fakeInvoker struct {
	calls   atomic.Int32
	results []invokeResult
	block   chan struct{}
}

type invokeResult struct {
	output string
	err    error
}

func (f *fakeInvoker) Invoke(ctx context.Context, _ Prompt) (string, error) {
	n := int(f.calls.Add(1)) - 1
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if n >= len(f.results) {
		n = len(f.results) - 1
	}
	r := f.results[n]
	return r.output, r.err
}

func testEngine(invoker Invoker) *Engine {
	return NewEngine(invoker, NewRegistry(), config.GenerationConfig{
		InvokeTimeout: 100 * time.Millisecond,
		MaxRetries:    2,
		RetryBackoff: config.BackoffConfig{
			Initial:    time.Millisecond,
			Max:        5 * time.Millisecond,
			Multiplier: 2,
		},
		ProjectConcurrency: 1,
		QueuePolicy:        QueuePolicyReject,
	})
}

func TestGeneratePrompt_Success(t *testing.T) {
	inv := &fakeInvoker{results: []invokeResult{{output: "# Chapter One"}}}
	e := testEngine(inv)

	out, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{User: "write"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "# Chapter One", out)
	assert.EqualValues(t, 1, inv.calls.Load())
}

func TestGeneratePrompt_RetriesTransientError(t *testing.T) {
	inv := &fakeInvoker{results: []invokeResult{
		{err: apperrors.ErrLLMRateLimited},
		{output: "recovered"},
	}}
	e := testEngine(inv)

	out, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.EqualValues(t, 2, inv.calls.Load())
}

func TestGeneratePrompt_NoRetryOnNonTransientError(t *testing.T) {
	inv := &fakeInvoker{results: []invokeResult{{err: fmt.Errorf("boom")}}}
	e := testEngine(inv)

	_, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
	require.Error(t, err)
	assert.EqualValues(t, 1, inv.calls.Load())
}

func TestGeneratePrompt_TransientErrorExhaustsRetries(t *testing.T) {
	inv := &fakeInvoker{results: []invokeResult{{err: apperrors.ErrLLMProviderError}}}
	e := testEngine(inv)

	_, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeLLMProviderError))
	// 首次调用加两次重试
	assert.EqualValues(t, 3, inv.calls.Load())
}

func TestGeneratePrompt_TimeoutMapsToGenerationTimeout(t *testing.T) {
	inv := &fakeInvoker{
		results: []invokeResult{{output: "never delivered"}},
		block:   make(chan struct{}),
	}
	e := testEngine(inv)

	_, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeGenerationTimeout))
}

func TestGeneratePrompt_RejectsWhenProjectSaturated(t *testing.T) {
	gate := make(chan struct{})
	inv := &fakeInvoker{
		results: []invokeResult{{output: "slow"}},
		block:   gate,
	}
	e := testEngine(inv)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
		done <- err
	}()

	<-started
	// 等第一个调用真正占住槽位
	require.Eventually(t, func() bool {
		_, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
		return apperrors.HasCode(err, apperrors.CodeGenerationOverloaded)
	}, time.Second, 5*time.Millisecond)

	close(gate)
	require.NoError(t, <-done)

	// 槽位释放后可以再次生成
	inv.block = nil
	_, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
	assert.NoError(t, err)
}

func TestGeneratePrompt_OtherProjectsUnaffected(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)

	blocked := &fakeInvoker{results: []invokeResult{{output: "slow"}}, block: gate}
	e := testEngine(blocked)

	go func() {
		_, _ = e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
	}()

	// 等后台调用真正进入 Invoke 占住槽位，避免探测调用抢先拿到槽位
	require.Eventually(t, func() bool {
		return blocked.calls.Load() > 0
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool {
		_, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
		return apperrors.HasCode(err, apperrors.CodeGenerationOverloaded)
	}, time.Second, 5*time.Millisecond)

	// 另一个项目有独立的并发预算，但共享同一个 invoker 会被 gate 挡住，
	// 换一个不阻塞的引擎实例验证隔离性
	free := testEngine(&fakeInvoker{results: []invokeResult{{output: "ok"}}})
	out, err := free.GeneratePrompt(context.Background(), "p2", KindChapter, Prompt{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestGeneratePrompt_BlankOutputRetriedOnce(t *testing.T) {
	inv := &fakeInvoker{results: []invokeResult{
		{output: "   "},
		{output: "# Chapter One"},
	}}
	e := testEngine(inv)

	// 没有结构校验器时空白输出也必须被拦下
	out, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "# Chapter One", out)
	assert.EqualValues(t, 2, inv.calls.Load())
}

func TestGeneratePrompt_BlankOutputTwiceFails(t *testing.T) {
	inv := &fakeInvoker{results: []invokeResult{{output: "\n\t  "}}}
	e := testEngine(inv)

	_, err := e.GeneratePrompt(context.Background(), "p1", KindChapter, Prompt{}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeMalformedOutput))
	assert.EqualValues(t, 2, inv.calls.Load())
}

func TestGeneratePrompt_MalformedOutputRetriedOnce(t *testing.T) {
	inv := &fakeInvoker{results: []invokeResult{
		{output: "not json"},
		{output: `["fixed"]`},
	}}
	e := testEngine(inv)

	validate := func(raw string) error {
		_, err := ParseKeywords(raw)
		return err
	}

	out, err := e.GeneratePrompt(context.Background(), "p1", KindKeywords, Prompt{}, validate)
	require.NoError(t, err)
	assert.Equal(t, `["fixed"]`, out)
	assert.EqualValues(t, 2, inv.calls.Load())
}

func TestGeneratePrompt_MalformedOutputTwiceFails(t *testing.T) {
	inv := &fakeInvoker{results: []invokeResult{{output: "still not json"}}}
	e := testEngine(inv)

	validate := func(raw string) error {
		_, err := ParseKeywords(raw)
		return err
	}

	_, err := e.GeneratePrompt(context.Background(), "p1", KindKeywords, Prompt{}, validate)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeMalformedOutput))
	assert.EqualValues(t, 2, inv.calls.Load())
}
