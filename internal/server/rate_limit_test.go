package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	redis "github.com/redis/go-redis/v9"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
	"github.com/smallbiznis/ideabox/internal/ratelimit"
	"github.com/smallbiznis/ideabox/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScripter struct {
	reply []interface{}
	err   error
	calls int
	keys  []string
}

func (s *stubScripter) result(ctx context.Context, keys []string) *redis.Cmd {
	s.calls++
	s.keys = keys
	cmd := redis.NewCmd(ctx)
	if s.err != nil {
		cmd.SetErr(s.err)
		return cmd
	}
	cmd.SetVal(s.reply)
	return cmd
}

func (s *stubScripter) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.result(ctx, keys)
}

func (s *stubScripter) EvalSha(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.result(ctx, keys)
}

func (s *stubScripter) EvalRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.result(ctx, keys)
}

func (s *stubScripter) EvalShaRO(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return s.result(ctx, keys)
}

func (s *stubScripter) ScriptExists(ctx context.Context, _ ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceCmd(ctx)
}

func (s *stubScripter) ScriptLoad(ctx context.Context, _ string) *redis.StringCmd {
	return redis.NewStringCmd(ctx)
}

func TestBulkRateLimitRejectsWhenBucketEmpty(t *testing.T) {
	env := newTestEnv(t)
	stub := &stubScripter{reply: []interface{}{int64(0), "0.5", int64(1700000000000)}}
	env.server.limiter = ratelimit.NewBulkLimiterWithClient(stub, 0.5, 5)

	w := env.do(t, http.MethodPost, "/api/ideas/bulk/status", env.token(t, "ev-1", "evaluator@x.com"),
		map[string]any{"ids": []string{"idea-1"}, "status": "REJECTED"})

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeError(t, w).Type)
	assert.Equal(t, []string{"ideabox:bulk:actor:ev-1"}, stub.keys)
}

func TestBulkRateLimitUnavailableWhenRedisFails(t *testing.T) {
	env := newTestEnv(t)
	env.server.limiter = ratelimit.NewBulkLimiterWithClient(&stubScripter{err: errors.New("connection refused")}, 0.5, 5)

	w := env.do(t, http.MethodPost, "/api/ideas/bulk/status", env.token(t, "ev-1", "evaluator@x.com"),
		map[string]any{"ids": []string{"idea-1"}, "status": "REJECTED"})

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "service_unavailable", decodeError(t, w).Type)
}

func TestBulkRateLimitSetsQuotaHeaders(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedIdea(t, env.db, "idea-1", ideadomain.StatusSubmitted, seededAt)
	env.server.limiter = ratelimit.NewBulkLimiterWithClient(&stubScripter{reply: []interface{}{int64(1), "4", int64(1700000000000)}}, 0.5, 5)

	w := env.do(t, http.MethodPost, "/api/ideas/bulk/assign", env.token(t, "ad-1", "admin@x.com"),
		map[string]any{"ids": []string{"idea-1"}, "assignee_id": "ev-2"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestBulkRateLimitRunsAfterRoleGate(t *testing.T) {
	env := newTestEnv(t)
	stub := &stubScripter{reply: []interface{}{int64(1), "4", int64(1700000000000)}}
	env.server.limiter = ratelimit.NewBulkLimiterWithClient(stub, 0.5, 5)

	w := env.do(t, http.MethodPost, "/api/ideas/bulk/assign", env.token(t, "ev-1", "evaluator@x.com"),
		map[string]any{"ids": []string{"idea-1"}, "assignee_id": "ev-2"})

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, stub.calls)
}
