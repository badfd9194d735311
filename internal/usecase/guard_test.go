package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"screen-star/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRedisGuard(t *testing.T) (*redisCommitGuard, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	guard := &redisCommitGuard{
		client: db,
		ttl:    30 * time.Second,
		token:  func() string { return "token-1" },
		log:    zap.NewNop(),
	}
	return guard, mock
}

func TestRedisCommitGuard_AcquireAndRelease(t *testing.T) {
	guard, mock := newTestRedisGuard(t)
	defer mock.ClearExpect()

	mock.ExpectSetNX("commit:inflight:viewer-1", "token-1", 30*time.Second).SetVal(true)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{"commit:inflight:viewer-1"}, "token-1").SetVal(int64(1))

	release, err := guard.Acquire(context.Background(), "viewer-1")
	require.NoError(t, err)
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCommitGuard_ReleaseFailureIsLogged(t *testing.T) {
	guard, mock := newTestRedisGuard(t)
	defer mock.ClearExpect()
	core, logs := observer.New(zapcore.WarnLevel)
	guard.log = zap.New(core)

	mock.ExpectSetNX("commit:inflight:viewer-1", "token-1", 30*time.Second).SetVal(true)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{"commit:inflight:viewer-1"}, "token-1").
		SetErr(errors.New("connection reset"))

	release, err := guard.Acquire(context.Background(), "viewer-1")
	require.NoError(t, err)
	release()

	entries := logs.FilterMessage("Failed to release commit lock").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "commit:inflight:viewer-1", entries[0].ContextMap()["key"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCommitGuard_InFlight(t *testing.T) {
	guard, mock := newTestRedisGuard(t)
	defer mock.ClearExpect()

	mock.ExpectSetNX("commit:inflight:viewer-1", "token-1", 30*time.Second).SetVal(false)

	release, err := guard.Acquire(context.Background(), "viewer-1")
	assert.ErrorIs(t, err, domain.ErrCommitInFlight)
	assert.Nil(t, release)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCommitGuard_RedisDown(t *testing.T) {
	guard, mock := newTestRedisGuard(t)
	defer mock.ClearExpect()

	mock.ExpectSetNX("commit:inflight:viewer-1", "token-1", 30*time.Second).SetErr(errors.New("connection refused"))

	_, err := guard.Acquire(context.Background(), "viewer-1")
	var transient *domain.TransientError
	require.True(t, errors.As(err, &transient))
	assert.Equal(t, "acquire commit lock", transient.Op)
}

func TestLocalCommitGuard(t *testing.T) {
	guard := NewLocalCommitGuard()
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "viewer-1")
	require.NoError(t, err)

	_, err = guard.Acquire(ctx, "viewer-1")
	assert.ErrorIs(t, err, domain.ErrCommitInFlight)

	other, err := guard.Acquire(ctx, "viewer-2")
	require.NoError(t, err, "sessions do not block each other")
	other()

	release()
	release()

	again, err := guard.Acquire(ctx, "viewer-1")
	require.NoError(t, err)
	again()
}
