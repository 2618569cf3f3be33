package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/Goden-Gun/diary-client/pkg/auth"
	"github.com/Goden-Gun/diary-client/pkg/config"
)

// InitRedis 初始化 Redis 客户端并测试连接
func InitRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorf("redis初始化失败: %v", err)
		_ = client.Close()
		return nil, err
	}

	log.Info("redis initialized successfully")
	return client, nil
}

// InitTokenStore 按 backend 创建 Token 存储
// 返回的 close 函数用于释放 Redis 连接，memory 模式下为空操作
func InitTokenStore(ctx context.Context, cfg config.TokenStoreConfig, redisCfg config.RedisConfig) (auth.TokenStore, func() error, error) {
	cfg.ApplyDefaults()
	switch strings.ToLower(cfg.Backend) {
	case "memory":
		return auth.NewMemoryTokenStore(""), func() error { return nil }, nil
	case "redis":
		client, err := InitRedis(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return auth.NewRedisTokenStore(client, cfg.AuthConfig()), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown token backend %q", cfg.Backend)
	}
}
