package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gis-erp/backend/internal/model"
)

// UnavailabilityRepository 不可用记录数据访问接口
type UnavailabilityRepository interface {
	// UpsertDays 批量写入不可用记录，(resource_id, date) 冲突时覆盖
	// 整批在单个事务/语句内完成：要么全部生效，要么全部回滚
	UpsertDays(ctx context.Context, records []model.UnavailabilityRecord) error
	ListByResourceAndRange(ctx context.Context, resourceID string, from, to time.Time) ([]model.UnavailabilityRecord, error)
	ListForResourcesInRange(ctx context.Context, resourceIDs []string, from, to time.Time) ([]model.UnavailabilityRecord, error)
	DeleteDay(ctx context.Context, resourceID string, date time.Time) (int64, error)
}

type unavailabilityRepo struct {
	db *gorm.DB
}

// NewUnavailabilityRepo 创建 UnavailabilityRepository 实例
func NewUnavailabilityRepo(db *gorm.DB) UnavailabilityRepository {
	return &unavailabilityRepo{db: db}
}

func (r *unavailabilityRepo) UpsertDays(ctx context.Context, records []model.UnavailabilityRecord) error {
	if len(records) == 0 {
		return nil
	}
	// 同日重复登记按 last write wins 覆盖类型与备注，不留历史
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "resource_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"type", "notes", "created_at", "created_by",
			}),
		}).
		Create(&records).Error
}

func (r *unavailabilityRepo) ListByResourceAndRange(ctx context.Context, resourceID string, from, to time.Time) ([]model.UnavailabilityRecord, error) {
	var records []model.UnavailabilityRecord
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *unavailabilityRepo) ListForResourcesInRange(ctx context.Context, resourceIDs []string, from, to time.Time) ([]model.UnavailabilityRecord, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}
	var records []model.UnavailabilityRecord
	err := r.db.WithContext(ctx).
		Where("resource_id IN ?", resourceIDs).
		Where("date BETWEEN ? AND ?", from, to).
		Find(&records).Error
	return records, err
}

func (r *unavailabilityRepo) DeleteDay(ctx context.Context, resourceID string, date time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("resource_id = ? AND date = ?", resourceID, date).
		Delete(&model.UnavailabilityRecord{})
	return result.RowsAffected, result.Error
}
