package dto

// ── 可用性模块 DTO ──

// SetUnavailabilityRequest 标记不可用请求
type SetUnavailabilityRequest struct {
	ResourceID string `json:"resource_id" binding:"required,uuid"`
	StartDate  string `json:"start_date"  binding:"required"` // "2006-01-02"
	EndDate    string `json:"end_date"    binding:"required"` // "2006-01-02"
	Type       string `json:"type"        binding:"required"`
	Notes      string `json:"notes"       binding:"omitempty,max=500"`
}

// ConflictItem 冲突的分配（建议性提示，不阻塞写入）
type ConflictItem struct {
	AssignmentID    string `json:"assignment_id"`
	TaskDescription string `json:"task_description"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
}

// SetUnavailabilityResponse 标记不可用响应
// ConflictCheckFailed 为 true 时 Conflicts 为 null：
// 冲突状态未知，调用方不得解读为"无冲突"
type SetUnavailabilityResponse struct {
	Created             int            `json:"created"`
	Conflicts           []ConflictItem `json:"conflicts"`
	ConflictCheckFailed bool           `json:"conflict_check_failed,omitempty"`
}

// UnavailabilityListRequest 不可用记录列表查询参数
type UnavailabilityListRequest struct {
	DateFrom string `form:"date_from" binding:"required"`
	DateTo   string `form:"date_to"   binding:"required"`
}

// UnavailabilityResponse 不可用记录响应
type UnavailabilityResponse struct {
	ID         string `json:"id"`
	ResourceID string `json:"resource_id"`
	Date       string `json:"date"`
	Type       string `json:"type"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at"`
}
