package kvstore

import "errors"

var (
	// ErrKeyNotFound 键不存在错误
	ErrKeyNotFound = errors.New("键不存在")

	// ErrStoreNotAvailable 存储后端不可用错误
	ErrStoreNotAvailable = errors.New("存储后端不可用")

	// ErrLockNotAcquired 获取锁失败错误
	ErrLockNotAcquired = errors.New("无法获取分布式锁")
)
