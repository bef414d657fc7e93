package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gis-erp/backend/internal/model"
	"gis-erp/backend/internal/repository"
	"gis-erp/backend/internal/schedule"
)

// ── 日历订阅模块业务错误 ──

var ErrCalendarGenerateFail = errors.New("生成日历文件失败")

// ── CalendarService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 为单个资源生成 ICS 订阅源，包含指定窗口内的任务分配
//     （整天事件，排除已取消）与不可用登记。
//   - 不可用登记按连续同类型日期合并为一个事件，减少条目数。
// ─────────────────────────────────────────────────────────────

// CalendarService 日历订阅业务接口
type CalendarService interface {
	// ResourceFeed 生成资源的 ICS 日历订阅内容
	ResourceFeed(ctx context.Context, resourceID, dateFrom, dateTo string) (*bytes.Buffer, string, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

func (s *calendarService) ResourceFeed(ctx context.Context, resourceID, dateFrom, dateTo string) (*bytes.Buffer, string, error) {
	window, err := parseDateRange(dateFrom, dateTo)
	if err != nil {
		return nil, "", err
	}

	resource, err := s.repo.Resource.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrResourceNotFound
		}
		s.logger.Error("查询资源失败", zap.Error(err))
		return nil, "", err
	}

	assignments, err := s.repo.Assignment.ListOverlapping(ctx, resourceID, window.Start, window.End)
	if err != nil {
		s.logger.Error("查询任务分配失败", zap.Error(err))
		return nil, "", err
	}

	records, err := s.repo.Unavailability.ListByResourceAndRange(ctx, resourceID, window.Start, window.End)
	if err != nil {
		s.logger.Error("查询不可用记录失败", zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//GIS-ERP//Resource Schedule//CN")
	cal.SetName(fmt.Sprintf("%s 排程", resource.Name))

	now := time.Now().UTC()

	for _, a := range assignments {
		evt := cal.AddEvent(fmt.Sprintf("assignment-%s@gis-erp", a.AssignmentID))
		evt.SetDtStampTime(now)
		evt.SetAllDayStartAt(a.StartDate)
		// ICS 整天事件的 DTEND 为排他端点，需加一天
		evt.SetAllDayEndAt(a.EndDate.AddDate(0, 0, 1))
		evt.SetSummary(a.TaskDescription)
		evt.SetDescription(fmt.Sprintf("状态：%s，计划工时：%.1f", a.Status, a.PlannedHours))
	}

	for _, block := range mergeUnavailableBlocks(records) {
		evt := cal.AddEvent(fmt.Sprintf("unavailable-%s-%s@gis-erp", resourceID, schedule.FormatDate(block.start)))
		evt.SetDtStampTime(now)
		evt.SetAllDayStartAt(block.start)
		evt.SetAllDayEndAt(block.end.AddDate(0, 0, 1))
		evt.SetSummary(fmt.Sprintf("不可用（%s）", block.kind))
		if block.notes != "" {
			evt.SetDescription(block.notes)
		}
	}

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		s.logger.Error("序列化 ICS 失败", zap.Error(err))
		return nil, "", ErrCalendarGenerateFail
	}

	filename := fmt.Sprintf("%s_schedule.ics", resource.Code)
	return &buf, filename, nil
}

type unavailableBlock struct {
	start time.Time
	end   time.Time
	kind  model.UnavailabilityType
	notes string
}

// mergeUnavailableBlocks 将单日记录合并为连续同类型区块
// 仓储层不保证返回顺序，合并前先按日期排序
func mergeUnavailableBlocks(records []model.UnavailabilityRecord) []unavailableBlock {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	blocks := make([]unavailableBlock, 0)
	for _, r := range records {
		n := len(blocks)
		if n > 0 && blocks[n-1].kind == r.Type && r.Date.Sub(blocks[n-1].end) == 24*time.Hour {
			blocks[n-1].end = r.Date
			continue
		}
		blocks = append(blocks, unavailableBlock{start: r.Date, end: r.Date, kind: r.Type, notes: r.Notes})
	}
	return blocks
}
