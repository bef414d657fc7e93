package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/service"
	"gis-erp/backend/pkg/response"
)

// SkillHandler 技能字典 HTTP 处理器
type SkillHandler struct {
	skillSvc service.SkillService
}

// NewSkillHandler 创建 SkillHandler
func NewSkillHandler(skillSvc service.SkillService) *SkillHandler {
	return &SkillHandler{skillSvc: skillSvc}
}

// ListSkills 获取技能列表
// GET /api/v1/skills
func (h *SkillHandler) ListSkills(c *gin.Context) {
	var req dto.SkillListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	skills, err := h.skillSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSkillError(c, err)
		return
	}

	response.OK(c, gin.H{"list": skills})
}

// CreateSkill 创建技能
// POST /api/v1/skills
func (h *SkillHandler) CreateSkill(c *gin.Context) {
	var req dto.CreateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	skill, err := h.skillSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSkillError(c, err)
		return
	}

	response.Created(c, skill)
}

// UpdateSkill 更新技能
// PUT /api/v1/skills/:id
func (h *SkillHandler) UpdateSkill(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "技能ID不能为空")
		return
	}

	var req dto.UpdateSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	skill, err := h.skillSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleSkillError(c, err)
		return
	}

	response.OK(c, skill)
}

// DeleteSkill 删除技能
// DELETE /api/v1/skills/:id
func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "技能ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.skillSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleSkillError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSkillError 统一处理技能模块业务错误
func (h *SkillHandler) handleSkillError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSkillNotFound):
		response.NotFound(c, 13001, "技能不存在")
	case errors.Is(err, service.ErrInvalidSkillCategory):
		response.BadRequest(c, 13002, "技能类别无效")
	default:
		response.InternalError(c)
	}
}
