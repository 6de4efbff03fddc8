package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// KVEntry 键值对的数据库映射，整个存储只有这一张表
type KVEntry struct {
	Key   string `gorm:"primaryKey;size:512"`
	Value string `gorm:"type:text"`
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}

// GormStore 基于GORM的键值存储实现。SQLite用于本地开发和测试，
// MySQL用于没有Redis的部署环境。
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建GORM存储，driver为sqlite或mysql
func NewGormStore(driver string) (*GormStore, error) {
	var dialector gorm.Dialector

	switch driver {
	case "mysql":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			log.Println("Warning: DATABASE_URL environment variable not set. Using default DSN for local dev.")
			dsn = "user:password@tcp(127.0.0.1:3306)/meeting_collab?charset=utf8mb4&parseTime=True&loc=Local"
		}
		dialector = mysql.Open(dsn)
	default:
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "meeting_collab.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %v", err)
	}

	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %v", err)
	}

	return &GormStore{db: db}, nil
}

// NewGormStoreWithDB 使用已有的gorm.DB创建存储，测试用
func NewGormStoreWithDB(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %v", err)
	}
	return &GormStore{db: db}, nil
}

// Get 获取键值
func (s *GormStore) Get(ctx context.Context, key string) (string, error) {
	var entry KVEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("读取键 %s 失败: %v", key, err)
	}
	return entry.Value, nil
}

// Set 写入键值，主键冲突时覆盖
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("写入键 %s 失败: %v", key, err)
	}
	return nil
}

// GetByPrefix 通过LIKE查询前缀匹配的所有值
func (s *GormStore) GetByPrefix(ctx context.Context, prefix string) ([]string, error) {
	// 转义LIKE通配符，业务键里通常不含，防御外部输入。
	// 转义字符用!，SQLite和MySQL对反斜杠的处理不一致。
	escaped := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(prefix)

	var entries []KVEntry
	err := s.db.WithContext(ctx).
		Where("key LIKE ? ESCAPE '!'", escaped+"%").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("扫描前缀 %s 失败: %v", prefix, err)
	}

	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		values = append(values, entry.Value)
	}
	return values, nil
}

// Delete 删除键
func (s *GormStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&KVEntry{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("删除键 %s 失败: %v", key, err)
	}
	return nil
}

// Close 关闭数据库连接
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
