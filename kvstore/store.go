package kvstore

import (
	"context"
	"log"
	"os"
)

// Store 定义键值存储接口。所有业务数据都以字符串键值对的形式保存，
// 并通过键前缀扫描进行范围查询。单个键的写入由底层存储保证原子性，
// 不提供多键事务。
type Store interface {
	// Get 获取键对应的值，键不存在时返回ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set 写入或覆盖键值对
	Set(ctx context.Context, key, value string) error

	// GetByPrefix 返回所有以prefix开头的键对应的值
	GetByPrefix(ctx context.Context, prefix string) ([]string, error)

	// Delete 删除键，键不存在时不报错
	Delete(ctx context.Context, key string) error

	// Close 关闭底层连接
	Close() error
}

// InitStore 根据环境变量选择存储后端
//
//	KV_BACKEND=redis   使用Redis（默认）
//	KV_BACKEND=sqlite  使用SQLite（通过GORM）
//	KV_BACKEND=mysql   使用MySQL（通过GORM，需要DATABASE_URL）
//	KV_BACKEND=memory  使用内存存储（仅用于测试和演示）
//
// Redis连接失败时自动降级为内存模式，保证演示环境可用。
func InitStore() (Store, error) {
	backend := os.Getenv("KV_BACKEND")
	if backend == "" {
		backend = "redis"
	}

	switch backend {
	case "sqlite", "mysql":
		store, err := NewGormStore(backend)
		if err != nil {
			return nil, err
		}
		log.Printf("键值存储初始化成功, 后端: %s", backend)
		return store, nil

	case "memory":
		log.Println("使用内存键值存储")
		return NewMemoryStore(), nil

	default:
		store, err := NewRedisStore()
		if err != nil {
			log.Printf("Redis初始化失败: %v，将使用内存模式", err)
			return NewMemoryStore(), nil
		}
		log.Println("键值存储初始化成功, 后端: redis")
		return store, nil
	}
}
