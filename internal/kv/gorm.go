package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmetcoskunkizilkaya/looksmax-backend/internal/models"
)

// GormBackend stores slots as rows of kv_entries keyed by (owner, slot).
type GormBackend struct {
	db *gorm.DB
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (b *GormBackend) Open(owner string) Store {
	return &gormStore{db: b.db, owner: owner}
}

type gormStore struct {
	db    *gorm.DB
	owner string
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).
		Where("owner = ? AND slot = ?", s.owner, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

func (s *gormStore) Set(ctx context.Context, key string, value []byte) error {
	return s.MultiSet(ctx, map[string][]byte{key: value})
}

// MultiSet upserts all entries in a single statement.
func (s *gormStore) MultiSet(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]models.KVEntry, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, models.KVEntry{Owner: s.owner, Slot: k, Value: datatypes.JSON(entries[k])})
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner"}, {Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("kv set %v: %w", keys, err)
	}
	return nil
}

func (s *gormStore) Remove(ctx context.Context, key string) error {
	return s.MultiRemove(ctx, []string{key})
}

func (s *gormStore) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("owner = ? AND slot IN ?", s.owner, keys).
		Delete(&models.KVEntry{}).Error
	if err != nil {
		return fmt.Errorf("kv remove %v: %w", keys, err)
	}
	return nil
}
