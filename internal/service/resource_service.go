package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/model"
	"gis-erp/backend/internal/repository"
)

// ── 资源模块业务错误 ──

var (
	ErrResourceNotFound    = errors.New("资源不存在")
	ErrResourceCodeExists  = errors.New("资源编码已存在")
	ErrInvalidResourceType = errors.New("资源类型无效")
	ErrSkillNotFound       = errors.New("技能不存在")
)

// ResourceService 资源业务接口
type ResourceService interface {
	Create(ctx context.Context, req *dto.CreateResourceRequest, callerID string) (*dto.ResourceResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ResourceResponse, error)
	List(ctx context.Context, req *dto.ResourceListRequest) ([]dto.ResourceResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateResourceRequest, callerID string) (*dto.ResourceResponse, error)
	// Deactivate 停用资源：资源只停用、不物理删除
	Deactivate(ctx context.Context, id string, callerID string) error
}

type resourceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewResourceService 创建 ResourceService 实例
func NewResourceService(repo *repository.Repository, logger *zap.Logger) ResourceService {
	return &resourceService{repo: repo, logger: logger}
}

func (s *resourceService) Create(ctx context.Context, req *dto.CreateResourceRequest, callerID string) (*dto.ResourceResponse, error) {
	rtype := model.ResourceType(req.Type)
	if !rtype.Valid() {
		return nil, ErrInvalidResourceType
	}

	// 编码唯一性检查
	if _, err := s.repo.Resource.GetByCode(ctx, req.Code); err == nil {
		return nil, ErrResourceCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询资源编码失败", zap.Error(err))
		return nil, err
	}

	// 技能引用校验
	skills, err := s.resolveSkills(ctx, req.SkillIDs)
	if err != nil {
		return nil, err
	}

	hoursPerDay := 8.0
	if req.StandardHoursPerDay != nil {
		hoursPerDay = *req.StandardHoursPerDay
	}

	resource := &model.Resource{
		Name:                req.Name,
		Code:                req.Code,
		Type:                rtype,
		StandardHoursPerDay: hoursPerDay,
		IsActive:            true,
	}
	resource.CreatedBy = &callerID
	resource.UpdatedBy = &callerID

	if err := s.repo.Resource.Create(ctx, resource); err != nil {
		s.logger.Error("创建资源失败", zap.Error(err))
		return nil, err
	}

	if len(skills) > 0 {
		if err := s.repo.Resource.ReplaceSkills(ctx, resource, skills); err != nil {
			s.logger.Error("关联技能失败", zap.Error(err))
			return nil, err
		}
		resource.Skills = skills
	}

	return toResourceResponse(resource), nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*dto.ResourceResponse, error) {
	resource, err := s.repo.Resource.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("查询资源失败", zap.Error(err))
		return nil, err
	}
	return toResourceResponse(resource), nil
}

func (s *resourceService) List(ctx context.Context, req *dto.ResourceListRequest) ([]dto.ResourceResponse, error) {
	filter := repository.ResourceFilter{ActiveOnly: req.ActiveOnly}
	if req.Type != "" {
		rtype := model.ResourceType(req.Type)
		if !rtype.Valid() {
			return nil, ErrInvalidResourceType
		}
		filter.Type = &rtype
	}

	resources, err := s.repo.Resource.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询资源列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ResourceResponse, 0, len(resources))
	for i := range resources {
		result = append(result, *toResourceResponse(&resources[i]))
	}
	return result, nil
}

func (s *resourceService) Update(ctx context.Context, id string, req *dto.UpdateResourceRequest, callerID string) (*dto.ResourceResponse, error) {
	resource, err := s.repo.Resource.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("查询资源失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		resource.Name = *req.Name
	}
	if req.Type != nil {
		rtype := model.ResourceType(*req.Type)
		if !rtype.Valid() {
			return nil, ErrInvalidResourceType
		}
		resource.Type = rtype
	}
	if req.StandardHoursPerDay != nil {
		resource.StandardHoursPerDay = *req.StandardHoursPerDay
	}
	resource.UpdatedBy = &callerID

	if err := s.repo.Resource.Update(ctx, resource); err != nil {
		s.logger.Error("更新资源失败", zap.Error(err))
		return nil, err
	}

	if req.SkillIDs != nil {
		skills, err := s.resolveSkills(ctx, req.SkillIDs)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Resource.ReplaceSkills(ctx, resource, skills); err != nil {
			s.logger.Error("更新技能关联失败", zap.Error(err))
			return nil, err
		}
		resource.Skills = skills
	}

	return toResourceResponse(resource), nil
}

func (s *resourceService) Deactivate(ctx context.Context, id string, callerID string) error {
	resource, err := s.repo.Resource.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		s.logger.Error("查询资源失败", zap.Error(err))
		return err
	}

	resource.IsActive = false
	resource.UpdatedBy = &callerID
	if err := s.repo.Resource.Update(ctx, resource); err != nil {
		s.logger.Error("停用资源失败", zap.Error(err))
		return err
	}
	return nil
}

// resolveSkills 校验技能 ID 集合并返回对应实体
func (s *resourceService) resolveSkills(ctx context.Context, skillIDs []string) ([]model.Skill, error) {
	if len(skillIDs) == 0 {
		return nil, nil
	}
	skills, err := s.repo.Skill.GetByIDs(ctx, skillIDs)
	if err != nil {
		s.logger.Error("查询技能失败", zap.Error(err))
		return nil, err
	}
	if len(skills) != len(skillIDs) {
		return nil, ErrSkillNotFound
	}
	return skills, nil
}

// toResourceResponse 资源实体转响应
func toResourceResponse(r *model.Resource) *dto.ResourceResponse {
	skills := make([]dto.SkillResponse, 0, len(r.Skills))
	for i := range r.Skills {
		skills = append(skills, dto.SkillResponse{
			ID:       r.Skills[i].SkillID,
			Name:     r.Skills[i].Name,
			Category: string(r.Skills[i].Category),
		})
	}
	return &dto.ResourceResponse{
		ID:                  r.ResourceID,
		Name:                r.Name,
		Code:                r.Code,
		Type:                string(r.Type),
		StandardHoursPerDay: r.StandardHoursPerDay,
		IsActive:            r.IsActive,
		Skills:              skills,
		CreatedAt:           r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           r.UpdatedAt.Format(time.RFC3339),
	}
}
