package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/model"
	"gis-erp/backend/internal/repository"
	"gis-erp/backend/internal/schedule"
)

// ── 利用率模块业务错误 ──

var ErrInvalidResourceTypeFilter = errors.New("资源类型筛选值无效")

// ── UtilizationService 接口 ──────────────────────────────
//
// 设计说明：
//   - 纯读聚合，无写副作用，可与任意读写并发执行；
//     结果为调用时刻的快照，不保证与在途写入事务一致。
//   - 任一仓储读取失败则整个报表失败，不合成部分结果。
//   - 工作日历按策略注入（当前统一 7 天日历）。
//   - 输出按资源编码升序，呈现层可自行重排。
// ─────────────────────────────────────────────────────────────

// UtilizationService 利用率报表业务接口
type UtilizationService interface {
	// GetReport 计算窗口内各资源的利用率
	GetReport(ctx context.Context, req *dto.UtilizationReportRequest) ([]dto.UtilizationReportRow, error)
}

type utilizationService struct {
	repo     *repository.Repository
	calendar schedule.WorkCalendar
	logger   *zap.Logger
}

// NewUtilizationService 创建 UtilizationService 实例
func NewUtilizationService(repo *repository.Repository, calendar schedule.WorkCalendar, logger *zap.Logger) UtilizationService {
	if calendar == nil {
		calendar = schedule.UniformCalendar{}
	}
	return &utilizationService{repo: repo, calendar: calendar, logger: logger}
}

// ════════════════════════════════════════════════════════════
// GetReport — 窗口内各资源的利用率
// ════════════════════════════════════════════════════════════

func (s *utilizationService) GetReport(ctx context.Context, req *dto.UtilizationReportRequest) ([]dto.UtilizationReportRow, error) {
	window, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		return nil, err
	}

	// 1. 资源范围：在用资源，可按类型筛选
	filter := repository.ResourceFilter{ActiveOnly: true}
	if req.ResourceType != "" {
		rt := model.ResourceType(req.ResourceType)
		if !rt.Valid() {
			return nil, ErrInvalidResourceTypeFilter
		}
		filter.Type = &rt
	}

	resources, err := s.repo.Resource.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询资源列表失败", zap.Error(err))
		return nil, err
	}
	if len(resources) == 0 {
		return []dto.UtilizationReportRow{}, nil
	}

	resourceIDs := make([]string, 0, len(resources))
	for i := range resources {
		resourceIDs = append(resourceIDs, resources[i].ResourceID)
	}

	// 2. 批量取窗口内的分配与不可用记录，按资源分组
	assignments, err := s.repo.Assignment.ListOverlappingForResources(ctx, resourceIDs, window.Start, window.End)
	if err != nil {
		s.logger.Error("查询窗口内分配失败", zap.Error(err))
		return nil, err
	}

	unavailable, err := s.repo.Unavailability.ListForResourcesInRange(ctx, resourceIDs, window.Start, window.End)
	if err != nil {
		s.logger.Error("查询不可用记录失败", zap.Error(err))
		return nil, err
	}

	assignmentsByResource := make(map[string][]schedule.AssignmentHours, len(resources))
	for i := range assignments {
		a := &assignments[i]
		r, err := schedule.NewDateRange(a.StartDate, a.EndDate)
		if err != nil {
			// 脏数据防御：起止颠倒的分配不计入
			s.logger.Warn("跳过日期颠倒的分配",
				zap.String("assignment_id", a.AssignmentID),
			)
			continue
		}
		assignmentsByResource[a.ResourceID] = append(assignmentsByResource[a.ResourceID], schedule.AssignmentHours{
			Range:        r,
			PlannedHours: a.PlannedHours,
			ActualHours:  a.ActualHours,
		})
	}

	unavailableByResource := make(map[string][]model.UnavailabilityRecord, len(resources))
	for i := range unavailable {
		unavailableByResource[unavailable[i].ResourceID] = append(unavailableByResource[unavailable[i].ResourceID], unavailable[i])
	}

	// 3. 逐资源计算（无分配的资源输出全 0 行，而非缺行）
	rows := make([]dto.UtilizationReportRow, 0, len(resources))
	for i := range resources {
		res := &resources[i]

		in := schedule.UtilizationInput{
			Window:              window,
			StandardHoursPerDay: res.StandardHoursPerDay,
			Assignments:         assignmentsByResource[res.ResourceID],
		}
		for _, u := range unavailableByResource[res.ResourceID] {
			in.UnavailableDates = append(in.UnavailableDates, u.Date)
		}

		result := schedule.Compute(in, s.calendar)

		rows = append(rows, dto.UtilizationReportRow{
			ResourceID:            res.ResourceID,
			ResourceName:          res.Name,
			ResourceCode:          res.Code,
			ResourceType:          string(res.Type),
			AvailableHours:        result.AvailableHours,
			PlannedHours:          result.PlannedHours,
			ActualHours:           result.ActualHours,
			UtilizationPercentage: result.Percentage,
			Classification:        string(result.Band),
		})
	}

	return rows, nil
}
