package kvstore

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore 基于Redis的键值存储实现。业务键直接映射为Redis键，
// 前缀扫描通过SCAN命令实现，避免KEYS阻塞服务。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 从环境变量读取连接信息并创建Redis存储
func NewRedisStore() (*RedisStore, error) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")

	redisDb := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDb = db
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:        redisAddr,
		Password:    redisPassword,
		DB:          redisDb,
		DialTimeout: 3 * time.Second,
		ReadTimeout: 3 * time.Second,
		PoolSize:    10,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %v", err)
	}

	return &RedisStore{client: client}, nil
}

// Client 返回底层Redis客户端，供分布式锁等组件复用连接
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Get 获取键值
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("读取键 %s 失败: %v", key, err)
	}
	return val, nil
}

// Set 写入键值，单键写入由Redis保证原子性
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("写入键 %s 失败: %v", key, err)
	}
	return nil
}

// GetByPrefix 扫描所有匹配前缀的键并批量取值
func (s *RedisStore) GetByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("扫描前缀 %s 失败: %v", prefix, err)
	}

	if len(keys) == 0 {
		return []string{}, nil
	}

	// 使用管道批量获取所有键的值
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.Get(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("批量读取前缀 %s 失败: %v", prefix, err)
	}

	values := make([]string, 0, len(keys))
	for _, cmd := range cmds {
		val, err := cmd.Result()
		if err == nil {
			values = append(values, val)
		}
		// 扫描和取值之间被删除的键直接跳过
	}
	return values, nil
}

// Delete 删除键
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("删除键 %s 失败: %v", key, err)
	}
	return nil
}

// Close 关闭Redis连接
func (s *RedisStore) Close() error {
	return s.client.Close()
}
