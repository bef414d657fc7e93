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

// UtilizationHandler 利用率报表 HTTP 处理器
type UtilizationHandler struct {
	utilizationSvc service.UtilizationService
	exportSvc      service.ExportService
}

// NewUtilizationHandler 创建 UtilizationHandler
func NewUtilizationHandler(utilizationSvc service.UtilizationService, exportSvc service.ExportService) *UtilizationHandler {
	return &UtilizationHandler{utilizationSvc: utilizationSvc, exportSvc: exportSvc}
}

// GetReport 利用率报表
// GET /api/v1/reports/utilization?date_from=xxx&date_to=xxx&resource_type=xxx
func (h *UtilizationHandler) GetReport(c *gin.Context) {
	var req dto.UtilizationReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	rows, err := h.utilizationSvc.GetReport(c.Request.Context(), &req)
	if err != nil {
		h.handleUtilizationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rows})
}

// ExportReport 导出利用率报表 Excel
// GET /api/v1/reports/utilization/export?date_from=xxx&date_to=xxx
func (h *UtilizationHandler) ExportReport(c *gin.Context) {
	var req dto.UtilizationReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportUtilization(c.Request.Context(), &req)
	if err != nil {
		h.handleUtilizationError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// handleUtilizationError 统一处理报表模块业务错误
func (h *UtilizationHandler) handleUtilizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDateFormat):
		response.BadRequest(c, 15001, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15002, "结束日期不能早于开始日期")
	case errors.Is(err, service.ErrInvalidResourceTypeFilter):
		response.BadRequest(c, 16001, "资源类型筛选值无效")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
