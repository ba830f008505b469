package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache 定義快取操作介面
// 除了基礎的 Get、Set，另含 refresh token 集合所需的 Set 操作
// 用於封裝 Redis 或其他快取實作，測試時以 FakeCache 替換
// ttl <= 0 表示不設過期

type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SRem(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SIsMember(ctx context.Context, key string, member interface{}) *redis.BoolCmd
	SCard(ctx context.Context, key string) *redis.IntCmd
	SPopN(ctx context.Context, key string, count int64) *redis.StringSliceCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
	Close() error
}

type FakeCache struct {
	GetFn       func(ctx context.Context, key string) *redis.StringCmd
	SetFn       func(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	DelFn       func(ctx context.Context, keys ...string) *redis.IntCmd
	SAddFn      func(ctx context.Context, key string, members ...any) *redis.IntCmd
	SRemFn      func(ctx context.Context, key string, members ...any) *redis.IntCmd
	SIsMemberFn func(ctx context.Context, key string, member any) *redis.BoolCmd
	SCardFn     func(ctx context.Context, key string) *redis.IntCmd
	SPopNFn     func(ctx context.Context, key string, count int64) *redis.StringSliceCmd
	ExpireFn    func(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
	CloseFn     func() error
}

// Get 執行 Fake 設定或 panic
func (f *FakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.GetFn != nil {
		return f.GetFn(ctx, key)
	}
	panic("unexpected Get")
}

// Set 執行 Fake 設定或 panic
func (f *FakeCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.SetFn != nil {
		return f.SetFn(ctx, key, value, expiration)
	}
	panic("unexpected Set")
}

func (f *FakeCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.DelFn != nil {
		return f.DelFn(ctx, keys...)
	}
	panic("unexpected Del")
}

func (f *FakeCache) SAdd(ctx context.Context, key string, members ...any) *redis.IntCmd {
	if f.SAddFn != nil {
		return f.SAddFn(ctx, key, members...)
	}
	panic("unexpected SAdd")
}

func (f *FakeCache) SRem(ctx context.Context, key string, members ...any) *redis.IntCmd {
	if f.SRemFn != nil {
		return f.SRemFn(ctx, key, members...)
	}
	panic("unexpected SRem")
}

func (f *FakeCache) SIsMember(ctx context.Context, key string, member any) *redis.BoolCmd {
	if f.SIsMemberFn != nil {
		return f.SIsMemberFn(ctx, key, member)
	}
	panic("unexpected SIsMember")
}

func (f *FakeCache) SCard(ctx context.Context, key string) *redis.IntCmd {
	if f.SCardFn != nil {
		return f.SCardFn(ctx, key)
	}
	panic("unexpected SCard")
}

func (f *FakeCache) SPopN(ctx context.Context, key string, count int64) *redis.StringSliceCmd {
	if f.SPopNFn != nil {
		return f.SPopNFn(ctx, key, count)
	}
	panic("unexpected SPopN")
}

func (f *FakeCache) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	if f.ExpireFn != nil {
		return f.ExpireFn(ctx, key, ttl)
	}
	panic("unexpected Expire")
}

// Close 執行 Fake 設定或 no-op
func (f *FakeCache) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
