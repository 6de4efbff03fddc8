package kvstore

import (
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
)

// Locker 定义锁服务接口。会议加入时的participant_count更新是系统中
// 唯一的读-改-写操作，必须在锁内执行。
type Locker interface {
	// WithLock 在锁内执行操作
	WithLock(lockName string, expiry time.Duration, action func() error) error
}

// RedsyncLocker 基于Redsync的分布式锁实现，多实例部署时使用
type RedsyncLocker struct {
	rs *redsync.Redsync
}

// NewRedsyncLocker 复用Redis存储的连接创建分布式锁服务
func NewRedsyncLocker(store *RedisStore) *RedsyncLocker {
	pool := goredis.NewPool(store.Client())
	return &RedsyncLocker{rs: redsync.New(pool)}
}

// WithLock 获取锁、执行操作、释放锁
func (l *RedsyncLocker) WithLock(lockName string, expiry time.Duration, action func() error) error {
	mutex := l.rs.NewMutex("lock:"+lockName,
		redsync.WithExpiry(expiry),
		redsync.WithTries(5),                        // 最大重试次数
		redsync.WithRetryDelay(50*time.Millisecond), // 重试延迟
		redsync.WithDriftFactor(0.01),               // 时钟漂移因子
	)

	if err := mutex.Lock(); err != nil {
		return ErrLockNotAcquired
	}

	// 确保解锁
	defer func() {
		_, _ = mutex.Unlock()
	}()

	return action()
}

// LocalLocker 进程内锁实现，内存和GORM后端单实例部署时使用
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalLocker 创建进程内锁服务
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

// WithLock 在命名互斥锁内执行操作，expiry在进程内模式下无意义
func (l *LocalLocker) WithLock(lockName string, expiry time.Duration, action func() error) error {
	l.mu.Lock()
	m, ok := l.locks[lockName]
	if !ok {
		m = &sync.Mutex{}
		l.locks[lockName] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	return action()
}
