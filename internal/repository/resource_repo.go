package repository

import (
	"context"

	"gorm.io/gorm"

	"gis-erp/backend/internal/model"
)

// ResourceFilter 资源列表查询条件
type ResourceFilter struct {
	Type       *model.ResourceType
	ActiveOnly bool
}

// ResourceRepository 资源数据访问接口
type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetByCode(ctx context.Context, code string) (*model.Resource, error)
	List(ctx context.Context, filter ResourceFilter) ([]model.Resource, error)
	Update(ctx context.Context, resource *model.Resource) error
	ReplaceSkills(ctx context.Context, resource *model.Resource, skills []model.Skill) error
}

type resourceRepo struct {
	db *gorm.DB
}

// NewResourceRepo 创建 ResourceRepository 实例
func NewResourceRepo(db *gorm.DB) ResourceRepository {
	return &resourceRepo{db: db}
}

func (r *resourceRepo) Create(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Create(resource).Error
}

func (r *resourceRepo) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	var resource model.Resource
	err := r.db.WithContext(ctx).
		Preload("Skills").
		Where("resource_id = ?", id).
		First(&resource).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepo) GetByCode(ctx context.Context, code string) (*model.Resource, error) {
	var resource model.Resource
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&resource).Error
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepo) List(ctx context.Context, filter ResourceFilter) ([]model.Resource, error) {
	query := r.db.WithContext(ctx).Preload("Skills")
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var resources []model.Resource
	err := query.Order("code ASC").Find(&resources).Error
	return resources, err
}

func (r *resourceRepo) Update(ctx context.Context, resource *model.Resource) error {
	return r.db.WithContext(ctx).Omit("Skills").Save(resource).Error
}

func (r *resourceRepo) ReplaceSkills(ctx context.Context, resource *model.Resource, skills []model.Skill) error {
	return r.db.WithContext(ctx).Model(resource).Association("Skills").Replace(skills)
}
