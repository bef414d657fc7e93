package dto

// ── 技能模块 DTO ──

// CreateSkillRequest 创建技能请求
type CreateSkillRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Category string `json:"category" binding:"required"`
}

// UpdateSkillRequest 更新技能请求
type UpdateSkillRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	Category *string `json:"category"`
}

// SkillListRequest 技能列表查询参数
type SkillListRequest struct {
	Category string `form:"category"`
}

// SkillResponse 技能信息响应
type SkillResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}
