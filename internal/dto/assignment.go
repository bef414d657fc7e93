package dto

// ── 分配模块 DTO ──

// CreateAssignmentRequest 创建分配请求
type CreateAssignmentRequest struct {
	ResourceID      string  `json:"resource_id"      binding:"required,uuid"`
	TaskDescription string  `json:"task_description" binding:"required,min=2,max=500"`
	StartDate       string  `json:"start_date"       binding:"required"` // "2006-01-02"
	EndDate         string  `json:"end_date"         binding:"required"` // "2006-01-02"
	PlannedHours    float64 `json:"planned_hours"    binding:"gte=0"`
}

// LogActualHoursRequest 填报实际工时请求
type LogActualHoursRequest struct {
	ActualHours float64 `json:"actual_hours" binding:"gte=0"`
}

// UpdateAssignmentStatusRequest 变更分配状态请求
type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignmentListRequest 分配列表查询参数
type AssignmentListRequest struct {
	PaginationRequest
	ResourceID string `form:"resource_id" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
}

// AssignmentResponse 分配信息响应
type AssignmentResponse struct {
	ID              string         `json:"id"`
	ResourceID      string         `json:"resource_id"`
	Resource        *ResourceBrief `json:"resource,omitempty"`
	TaskDescription string         `json:"task_description"`
	StartDate       string         `json:"start_date"`
	EndDate         string         `json:"end_date"`
	PlannedHours    float64        `json:"planned_hours"`
	ActualHours     *float64       `json:"actual_hours,omitempty"`
	Status          string         `json:"status"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
}

// CreateAssignmentResponse 创建分配响应
// Warnings 为建议性提示：区间内已登记的不可用日不阻塞创建
type CreateAssignmentResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	Warnings   []string           `json:"warnings,omitempty"`
}
