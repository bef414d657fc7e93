package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/model"
	"gis-erp/backend/internal/repository"
)

// ── 技能模块业务错误 ──

var ErrInvalidSkillCategory = errors.New("技能类别无效")

// SkillService 技能字典业务接口
type SkillService interface {
	Create(ctx context.Context, req *dto.CreateSkillRequest, callerID string) (*dto.SkillResponse, error)
	List(ctx context.Context, req *dto.SkillListRequest) ([]dto.SkillResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateSkillRequest, callerID string) (*dto.SkillResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type skillService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSkillService 创建 SkillService 实例
func NewSkillService(repo *repository.Repository, logger *zap.Logger) SkillService {
	return &skillService{repo: repo, logger: logger}
}

func (s *skillService) Create(ctx context.Context, req *dto.CreateSkillRequest, callerID string) (*dto.SkillResponse, error) {
	category := model.SkillCategory(req.Category)
	if !category.Valid() {
		return nil, ErrInvalidSkillCategory
	}

	skill := &model.Skill{
		Name:     req.Name,
		Category: category,
	}
	skill.CreatedBy = &callerID
	skill.UpdatedBy = &callerID

	if err := s.repo.Skill.Create(ctx, skill); err != nil {
		s.logger.Error("创建技能失败", zap.Error(err))
		return nil, err
	}

	return toSkillResponse(skill), nil
}

func (s *skillService) List(ctx context.Context, req *dto.SkillListRequest) ([]dto.SkillResponse, error) {
	var category *model.SkillCategory
	if req.Category != "" {
		c := model.SkillCategory(req.Category)
		if !c.Valid() {
			return nil, ErrInvalidSkillCategory
		}
		category = &c
	}

	skills, err := s.repo.Skill.List(ctx, category)
	if err != nil {
		s.logger.Error("查询技能列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SkillResponse, 0, len(skills))
	for i := range skills {
		result = append(result, *toSkillResponse(&skills[i]))
	}
	return result, nil
}

func (s *skillService) Update(ctx context.Context, id string, req *dto.UpdateSkillRequest, callerID string) (*dto.SkillResponse, error) {
	skill, err := s.repo.Skill.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		s.logger.Error("查询技能失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		skill.Name = *req.Name
	}
	if req.Category != nil {
		category := model.SkillCategory(*req.Category)
		if !category.Valid() {
			return nil, ErrInvalidSkillCategory
		}
		skill.Category = category
	}
	skill.UpdatedBy = &callerID

	if err := s.repo.Skill.Update(ctx, skill); err != nil {
		s.logger.Error("更新技能失败", zap.Error(err))
		return nil, err
	}

	return toSkillResponse(skill), nil
}

func (s *skillService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Skill.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSkillNotFound
		}
		s.logger.Error("查询技能失败", zap.Error(err))
		return err
	}

	if err := s.repo.Skill.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除技能失败", zap.Error(err))
		return err
	}
	return nil
}

// toSkillResponse 技能实体转响应
func toSkillResponse(sk *model.Skill) *dto.SkillResponse {
	return &dto.SkillResponse{
		ID:       sk.SkillID,
		Name:     sk.Name,
		Category: string(sk.Category),
	}
}
