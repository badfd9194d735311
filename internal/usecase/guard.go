package usecase

import (
	"context"
	"sync"
	"time"

	"screen-star/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CommitGuard admits one reservation commit per viewer session at a time.
type CommitGuard interface {
	// Acquire fails with domain.ErrCommitInFlight while another commit holds
	// key. The returned release must be called once the commit finishes.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

const commitLockPrefix = "commit:inflight:"

// releaseScript deletes the lock only if it still holds our token, so a
// commit that outlived the TTL cannot release someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

type redisCommitGuard struct {
	client redis.Cmdable
	ttl    time.Duration
	token  func() string
	log    *zap.Logger
}

func NewRedisCommitGuard(client redis.Cmdable, ttl time.Duration, log *zap.Logger) CommitGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &redisCommitGuard{
		client: client,
		ttl:    ttl,
		token:  uuid.NewString,
		log:    log.With(zap.String("component", "commit_guard")),
	}
}

func (g *redisCommitGuard) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := commitLockPrefix + key
	token := g.token()

	ok, err := g.client.SetNX(ctx, lockKey, token, g.ttl).Result()
	if err != nil {
		return nil, domain.Transient("acquire commit lock", err)
	}
	if !ok {
		return nil, domain.ErrCommitInFlight
	}

	return func() {
		// the request context may already be cancelled
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, g.client, []string{lockKey}, token).Err(); err != nil {
			// the lock now lives out its TTL
			g.log.Warn("Failed to release commit lock",
				zap.Error(err),
				zap.String("key", lockKey),
				zap.Duration("ttl", g.ttl),
			)
		}
	}, nil
}

// localCommitGuard serves single-process deployments and tests.
type localCommitGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalCommitGuard() CommitGuard {
	return &localCommitGuard{held: make(map[string]struct{})}
}

func (g *localCommitGuard) Acquire(_ context.Context, key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.held[key]; busy {
		return nil, domain.ErrCommitInFlight
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, nil
}
