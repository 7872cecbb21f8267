package repository

import (
	"context"
	"errors"

	"github.com/sangkips/po-composer/internal/domain/entity"
	"github.com/sangkips/po-composer/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new postgres-backed snapshot repository
func NewSnapshotRepository(db *gorm.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Load retrieves a snapshot payload by key
func (r *snapshotRepository) Load(ctx context.Context, key string) ([]byte, error) {
	var snapshot entity.DraftSnapshot
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(snapshot.Payload), nil
}

// Save inserts or overwrites the snapshot under key
func (r *snapshotRepository) Save(ctx context.Context, key string, payload []byte) error {
	snapshot := entity.DraftSnapshot{Key: key, Payload: string(payload)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snapshot).Error
}

// Delete removes the snapshot under key
func (r *snapshotRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&entity.DraftSnapshot{}).Error
}
