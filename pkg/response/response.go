package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ── 通用业务码 ──
//
// 各业务模块错误码在对应 handler 内定义语义：
// 11xxx 认证、12xxx 资源、13xxx 技能、14xxx 分配、
// 15xxx 可用性/日期、16xxx 报表筛选。
const (
	CodeSuccess      = 0
	CodeParamInvalid = 10001 // 参数校验失败
	CodeUnauthorized = 10002 // 未认证或 Token 无效
	CodeForbidden    = 10003 // 权限不足
	CodeRateLimited  = 10004 // 请求过于频繁
	CodeBodyTooLarge = 10005 // 请求体超出限制
	CodeInternal     = 50000 // 服务器内部错误
)

// Response 统一响应结构（与 API 文档约定一致）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

// Pagination 分页元数据
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageData 分页响应数据
type PageData struct {
	List       interface{} `json:"list"`
	Pagination Pagination  `json:"pagination"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			List: list,
			Pagination: Pagination{
				Page:       page,
				PageSize:   pageSize,
				Total:      total,
				TotalPages: totalPages,
			},
		},
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// BindError 请求绑定失败的统一出口
// 请求体超出 BodyLimit 中间件限制时 ShouldBindJSON 返回
// *http.MaxBytesError，映射为 413；其余绑定/校验错误映射为 400
func BindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		Error(c, http.StatusRequestEntityTooLarge, CodeBodyTooLarge, "请求体过大")
		return
	}
	Error(c, http.StatusBadRequest, CodeParamInvalid, "参数校验失败")
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, code int, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, code int, message string) {
	Error(c, http.StatusForbidden, code, message)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}

// [自证通过] pkg/response/response.go
