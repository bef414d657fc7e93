package repository

import (
	"context"

	"gorm.io/gorm"

	"gis-erp/backend/internal/model"
)

// SkillRepository 技能字典数据访问接口
type SkillRepository interface {
	Create(ctx context.Context, skill *model.Skill) error
	GetByID(ctx context.Context, id string) (*model.Skill, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Skill, error)
	List(ctx context.Context, category *model.SkillCategory) ([]model.Skill, error)
	Update(ctx context.Context, skill *model.Skill) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type skillRepo struct {
	db *gorm.DB
}

// NewSkillRepo 创建 SkillRepository 实例
func NewSkillRepo(db *gorm.DB) SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) Create(ctx context.Context, skill *model.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

func (r *skillRepo) GetByID(ctx context.Context, id string) (*model.Skill, error) {
	var skill model.Skill
	err := r.db.WithContext(ctx).Where("skill_id = ?", id).First(&skill).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *skillRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Skill, error) {
	var skills []model.Skill
	err := r.db.WithContext(ctx).Where("skill_id IN ?", ids).Find(&skills).Error
	return skills, err
}

func (r *skillRepo) List(ctx context.Context, category *model.SkillCategory) ([]model.Skill, error) {
	query := r.db.WithContext(ctx)
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var skills []model.Skill
	err := query.Order("category ASC, name ASC").Find(&skills).Error
	return skills, err
}

func (r *skillRepo) Update(ctx context.Context, skill *model.Skill) error {
	return r.db.WithContext(ctx).Save(skill).Error
}

func (r *skillRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Skill{}).
		Where("skill_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
