package dto

// ── 资源模块 DTO ──

// CreateResourceRequest 创建资源请求
type CreateResourceRequest struct {
	Name                string   `json:"name"                   binding:"required,min=2,max=100"`
	Code                string   `json:"code"                   binding:"required,min=2,max=30"`
	Type                string   `json:"type"                   binding:"required"`
	StandardHoursPerDay *float64 `json:"standard_hours_per_day" binding:"omitempty,gt=0,lte=24"`
	SkillIDs            []string `json:"skill_ids"              binding:"omitempty,dive,uuid"`
}

// UpdateResourceRequest 更新资源请求
type UpdateResourceRequest struct {
	Name                *string  `json:"name"                   binding:"omitempty,min=2,max=100"`
	Type                *string  `json:"type"`
	StandardHoursPerDay *float64 `json:"standard_hours_per_day" binding:"omitempty,gt=0,lte=24"`
	SkillIDs            []string `json:"skill_ids"              binding:"omitempty,dive,uuid"`
}

// ResourceListRequest 资源列表查询参数
type ResourceListRequest struct {
	Type       string `form:"type"`
	ActiveOnly bool   `form:"active_only"`
}

// ResourceResponse 资源信息响应
type ResourceResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Code                string          `json:"code"`
	Type                string          `json:"type"`
	StandardHoursPerDay float64         `json:"standard_hours_per_day"`
	IsActive            bool            `json:"is_active"`
	Skills              []SkillResponse `json:"skills"`
	CreatedAt           string          `json:"created_at"`
	UpdatedAt           string          `json:"updated_at"`
}

// ResourceBrief 资源简要信息（嵌入其他响应）
type ResourceBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`
}
