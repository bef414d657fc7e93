package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/service"
	"gis-erp/backend/pkg/response"
)

// AvailabilityHandler 可用性模块 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// SetUnavailability 标记资源不可用
// POST /api/v1/unavailability
// 冲突提示为建议性：即使与已有分配重叠，记录照常写入
func (h *AvailabilityHandler) SetUnavailability(c *gin.Context) {
	var req dto.SetUnavailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.availabilitySvc.SetUnavailability(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.Created(c, result)
}

// ListUnavailability 查询资源不可用记录
// GET /api/v1/resources/:id/unavailability
func (h *AvailabilityHandler) ListUnavailability(c *gin.Context) {
	resourceID := c.Param("id")
	if resourceID == "" {
		response.BadRequest(c, response.CodeParamInvalid, "资源ID不能为空")
		return
	}

	var req dto.UnavailabilityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	records, err := h.availabilitySvc.ListUnavailability(c.Request.Context(), resourceID, &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, gin.H{"list": records})
}

// DeleteUnavailability 删除资源单日不可用记录
// DELETE /api/v1/resources/:id/unavailability/:date
func (h *AvailabilityHandler) DeleteUnavailability(c *gin.Context) {
	resourceID := c.Param("id")
	date := c.Param("date")
	if resourceID == "" || date == "" {
		response.BadRequest(c, response.CodeParamInvalid, "资源ID与日期不能为空")
		return
	}

	if err := h.availabilitySvc.DeleteUnavailability(c.Request.Context(), resourceID, date); err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleAvailabilityError 统一处理可用性模块业务错误
func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateFormat):
		response.BadRequest(c, 15001, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15002, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrInvalidUnavailabilityType):
		response.BadRequest(c, 15003, "不可用类型无效")
	case errors.Is(err, service.ErrUnavailabilityNotFound):
		response.NotFound(c, 15004, "不可用记录不存在")
	case errors.Is(err, service.ErrResourceNotFound):
		response.NotFound(c, 12001, "资源不存在")
	default:
		response.InternalError(c)
	}
}
