package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"gis-erp/backend/internal/model"
)

// AssignmentFilter 分配列表查询条件
type AssignmentFilter struct {
	ResourceID *string
	Status     *model.AssignmentStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

// AssignmentRepository 任务分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	List(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, int64, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	// ListOverlapping 查询指定资源上与 [start, end] 重叠的未取消分配
	ListOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]model.Assignment, error)
	// ListOverlappingForResources 批量查询多个资源上与窗口重叠的未取消分配
	ListOverlappingForResources(ctx context.Context, resourceIDs []string, start, end time.Time) ([]model.Assignment, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Resource").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) List(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Assignment{})
	if filter.ResourceID != nil {
		query = query.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	// 窗口过滤按闭区间重叠语义
	if filter.DateFrom != nil {
		query = query.Where("end_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("start_date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var assignments []model.Assignment
	err := query.
		Preload("Resource").
		Order("start_date ASC, created_at ASC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&assignments).Error
	return assignments, total, err
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Omit("Resource").Save(assignment).Error
}

func (r *assignmentRepo) ListOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("resource_id = ?", resourceID).
		Where("status <> ?", model.AssignmentStatusCancelled).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Order("start_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListOverlappingForResources(ctx context.Context, resourceIDs []string, start, end time.Time) ([]model.Assignment, error) {
	if len(resourceIDs) == 0 {
		return nil, nil
	}
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Where("resource_id IN ?", resourceIDs).
		Where("status <> ?", model.AssignmentStatusCancelled).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Find(&assignments).Error
	return assignments, err
}
