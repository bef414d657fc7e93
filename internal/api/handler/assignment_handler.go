package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/service"
	"gis-erp/backend/pkg/response"
)

// AssignmentHandler 任务分配 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// ListAssignments 获取分配列表（分页）
// GET /api/v1/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	assignments, total, err := h.assignmentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OKPage(c, assignments, total, req.GetPage(), req.GetPageSize())
}

// GetAssignment 获取分配详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "分配ID不能为空")
		return
	}

	assignment, err := h.assignmentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// CreateAssignment 创建分配
// POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.Created(c, result)
}

// LogActualHours 填报实际工时
// PUT /api/v1/assignments/:id/actual-hours
func (h *AssignmentHandler) LogActualHours(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "分配ID不能为空")
		return
	}

	var req dto.LogActualHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.LogActualHours(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// UpdateAssignmentStatus 变更分配状态
// PUT /api/v1/assignments/:id/status
func (h *AssignmentHandler) UpdateAssignmentStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, response.CodeParamInvalid, "分配ID不能为空")
		return
	}

	var req dto.UpdateAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentSvc.UpdateStatus(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleAssignmentError(c, err)
		return
	}

	response.OK(c, assignment)
}

// handleAssignmentError 统一处理分配模块业务错误
func (h *AssignmentHandler) handleAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 14001, "分配记录不存在")
	case errors.Is(err, service.ErrResourceNotFound):
		response.NotFound(c, 12001, "资源不存在")
	case errors.Is(err, service.ErrResourceInactive):
		response.Error(c, http.StatusConflict, 14002, "资源已停用，不可分配")
	case errors.Is(err, service.ErrInvalidAssignmentStatus):
		response.BadRequest(c, 14003, "分配状态无效")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, 14004, "分配状态流转不合法")
	case errors.Is(err, service.ErrAssignmentNotEditable):
		response.Error(c, http.StatusConflict, 14005, "已完成或已取消的分配不可填报工时")
	case errors.Is(err, service.ErrInvalidDateFormat),
		errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, response.CodeParamInvalid, err.Error())
	default:
		response.InternalError(c)
	}
}
