package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/talentgrid-backend/internal/platform/envutil"
	"github.com/yungbote/talentgrid-backend/internal/platform/logger"
	"github.com/yungbote/talentgrid-backend/internal/requestdata"
)

// PrincipalCache keeps resolved principals for a bounded TTL so token
// validation does not hit the user table on every request. It is an
// injected collaborator; there is no package-level client.
type PrincipalCache interface {
	Get(ctx context.Context, subject string) (*requestdata.Principal, error)
	Set(ctx context.Context, subject string, p *requestdata.Principal) error
	Invalidate(ctx context.Context, subject string) error
	Close() error
}

type principalCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewPrincipalCache(log *logger.Logger) (PrincipalCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := envutil.Duration("PRINCIPAL_CACHE_TTL", 5*time.Minute)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &principalCache{
		log: log.With("service", "PrincipalCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(subject string) string {
	return "principal:" + subject
}

func (c *principalCache) Get(ctx context.Context, subject string) (*requestdata.Principal, error) {
	if c == nil || c.rdb == nil {
		return nil, fmt.Errorf("principal cache not initialized")
	}
	raw, err := c.rdb.Get(ctx, cacheKey(subject)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p requestdata.Principal
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry is treated as a miss; the caller re-resolves.
		c.log.Warn("dropping unreadable principal cache entry", "error", err)
		_ = c.rdb.Del(ctx, cacheKey(subject)).Err()
		return nil, nil
	}
	return &p, nil
}

func (c *principalCache) Set(ctx context.Context, subject string, p *requestdata.Principal) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("principal cache not initialized")
	}
	if p == nil {
		return fmt.Errorf("nil principal")
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(subject), raw, c.ttl).Err()
}

func (c *principalCache) Invalidate(ctx context.Context, subject string) error {
	if c == nil || c.rdb == nil {
		return fmt.Errorf("principal cache not initialized")
	}
	return c.rdb.Del(ctx, cacheKey(subject)).Err()
}

func (c *principalCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
