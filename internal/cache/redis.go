package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// redisClient 為 NewRedisClient 內部所需的最小介面，測試時以 stub 替換
// *redis.Client 同時滿足 Cache 的集合操作與連線檢查
type redisClient interface {
	Cache
	Ping(ctx context.Context) *redis.StatusCmd
}

// redisNewClient 建立 redis client，測試可覆寫此變數
var redisNewClient = func(opt *redis.Options) redisClient {
	return redis.NewClient(opt)
}

// NewRedisClient 建立 Redis 連線並以 Ping 驗證可用性
// addr 為 Redis 位址，password 可為空，db 為資料庫編號
// 回傳的 client 直接作為 Cache 使用，refresh token 集合即存於此
func NewRedisClient(addr string, password string, db int) (Cache, error) {
	client := redisNewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
