package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/looplog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlobStore 抽象底层键值持久化，便于在测试中替换为内存实现。
// 读写以整份文档为粒度，单用户场景下不做任何锁或事务。
type BlobStore interface {
	// Get 返回指定键的内容，第二个返回值表示键是否存在。
	Get(key string) (string, bool, error)
	// Set 覆盖写入指定键的内容。
	Set(key, value string) error
}

type dbBlobStore struct {
	db *gorm.DB
}

// NewBlobStore 构造基于数据库的 BlobStore。
func NewBlobStore(gdb *gorm.DB) BlobStore {
	return &dbBlobStore{db: gdb}
}

func (s *dbBlobStore) Get(key string) (string, bool, error) {
	var blob db.AppBlob
	if err := s.db.Where("key = ?", key).First(&blob).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get blob %s: %w", key, err)
	}
	return blob.Value, true, nil
}

func (s *dbBlobStore) Set(key, value string) error {
	blob := db.AppBlob{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&blob).Error; err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

// MemoryBlobStore 是仅驻内存的 BlobStore 实现，主要用于测试。
type MemoryBlobStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBlobStore 构造空的内存存储。
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{values: make(map[string]string)}
}

func (s *MemoryBlobStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *MemoryBlobStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
