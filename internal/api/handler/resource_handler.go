package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/service"
	"gis-erp/backend/pkg/response"
)

// ResourceHandler 资源模块 HTTP 处理器
type ResourceHandler struct {
	resourceSvc service.ResourceService
	calendarSvc service.CalendarService
}

// NewResourceHandler 创建 ResourceHandler
func NewResourceHandler(resourceSvc service.ResourceService, calendarSvc service.CalendarService) *ResourceHandler {
	return &ResourceHandler{resourceSvc: resourceSvc, calendarSvc: calendarSvc}
}

// ListResources 获取资源列表
// GET /api/v1/resources
func (h *ResourceHandler) ListResources(c *gin.Context) {
	var req dto.ResourceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	resources, err := h.resourceSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": resources})
}

// GetResource 获取资源详情
// GET /api/v1/resources/:id
func (h *ResourceHandler) GetResource(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "资源ID不能为空")
		return
	}

	resource, err := h.resourceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, resource)
}

// CreateResource 创建资源
// POST /api/v1/resources
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req dto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resource, err := h.resourceSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.Created(c, resource)
}

// UpdateResource 更新资源
// PUT /api/v1/resources/:id
func (h *ResourceHandler) UpdateResource(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "资源ID不能为空")
		return
	}

	var req dto.UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resource, err := h.resourceSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, resource)
}

// DeactivateResource 停用资源
// DELETE /api/v1/resources/:id
func (h *ResourceHandler) DeactivateResource(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "资源ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.resourceSvc.Deactivate(c.Request.Context(), id, callerID); err != nil {
		h.handleResourceError(c, err)
		return
	}

	response.OK(c, nil)
}

// ResourceCalendar 资源排程 ICS 订阅源
// GET /api/v1/resources/:id/calendar.ics?date_from=xxx&date_to=xxx
func (h *ResourceHandler) ResourceCalendar(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "资源ID不能为空")
		return
	}
	dateFrom := c.Query("date_from")
	dateTo := c.Query("date_to")
	if dateFrom == "" || dateTo == "" {
		response.BadRequest(c, response.CodeParamInvalid, "date_from 与 date_to 不能为空")
		return
	}

	buf, filename, err := h.calendarSvc.ResourceFeed(c.Request.Context(), id, dateFrom, dateTo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDateFormat),
			errors.Is(err, service.ErrInvalidDateRange):
			response.BadRequest(c, response.CodeParamInvalid, err.Error())
		case errors.Is(err, service.ErrResourceNotFound):
			response.NotFound(c, 12001, "资源不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

// handleResourceError 统一处理资源模块业务错误
func (h *ResourceHandler) handleResourceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrResourceNotFound):
		response.NotFound(c, 12001, "资源不存在")
	case errors.Is(err, service.ErrResourceCodeExists):
		response.Error(c, http.StatusConflict, 12002, "资源编码已存在")
	case errors.Is(err, service.ErrInvalidResourceType):
		response.BadRequest(c, 12003, "资源类型无效")
	case errors.Is(err, service.ErrSkillNotFound):
		response.BadRequest(c, 12004, "引用的技能不存在")
	default:
		response.InternalError(c)
	}
}
