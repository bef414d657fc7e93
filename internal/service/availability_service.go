package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/model"
	"gis-erp/backend/internal/repository"
	"gis-erp/backend/internal/schedule"
)

// ── 可用性模块业务错误 ──

var (
	ErrInvalidDateFormat         = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrInvalidDateRange          = errors.New("结束日期不能早于开始日期")
	ErrInvalidUnavailabilityType = errors.New("不可用类型无效")
	ErrUnavailabilityNotFound    = errors.New("不可用记录不存在")
)

// ── AvailabilityService 接口 ──────────────────────────────
//
// 设计说明：
//   - SetUnavailability 先校验、后写入、最后做冲突检查。
//     写入整批原子：任一天失败则全部回滚。
//   - 冲突检查是建议性的（现实优先于计划）：即使区间覆盖了
//     已有分配，记录照常写入，冲突列表交由人工决定是否改派。
//   - 冲突检查失败不回滚已成功的写入，响应以
//     conflict_check_failed 区分"无冲突"与"冲突未知"。
//   - 同一天重复登记按 upsert 覆盖（last write wins）。
// ─────────────────────────────────────────────────────────────

// AvailabilityService 可用性业务接口
type AvailabilityService interface {
	// SetUnavailability 标记资源在日期区间内不可用，返回写入天数与冲突提示
	SetUnavailability(ctx context.Context, req *dto.SetUnavailabilityRequest, callerID string) (*dto.SetUnavailabilityResponse, error)
	// ListUnavailability 查询资源在窗口内的不可用记录
	ListUnavailability(ctx context.Context, resourceID string, req *dto.UnavailabilityListRequest) ([]dto.UnavailabilityResponse, error)
	// DeleteUnavailability 删除资源单日不可用记录（物理删除，现实修正）
	DeleteUnavailability(ctx context.Context, resourceID string, date string) error
}

type availabilityService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAvailabilityService 创建 AvailabilityService 实例
func NewAvailabilityService(repo *repository.Repository, logger *zap.Logger) AvailabilityService {
	return &availabilityService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// SetUnavailability — 标记不可用 + 建议性冲突检查
// ════════════════════════════════════════════════════════════

func (s *availabilityService) SetUnavailability(ctx context.Context, req *dto.SetUnavailabilityRequest, callerID string) (*dto.SetUnavailabilityResponse, error) {
	// 1. 校验：日期区间与不可用类型，任何持久化之前完成
	dateRange, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	utype := model.UnavailabilityType(req.Type)
	if !utype.Valid() {
		return nil, ErrInvalidUnavailabilityType
	}

	// 2. 资源必须存在
	if _, err := s.repo.Resource.GetByID(ctx, req.ResourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("查询资源失败", zap.Error(err))
		return nil, err
	}

	// 3. 区间展开为逐日记录
	days, err := schedule.ExpandRange(dateRange)
	if err != nil {
		return nil, ErrInvalidDateRange
	}

	now := time.Now()
	records := make([]model.UnavailabilityRecord, 0, len(days))
	for _, d := range days {
		records = append(records, model.UnavailabilityRecord{
			ResourceID: req.ResourceID,
			Date:       d,
			Type:       utype,
			Notes:      req.Notes,
			CreatedAt:  now,
			CreatedBy:  &callerID,
		})
	}

	// 4. 整批 upsert：要么全部写入，要么全部回滚
	if err := s.repo.Unavailability.UpsertDays(ctx, records); err != nil {
		s.logger.Error("写入不可用记录失败",
			zap.String("resource_id", req.ResourceID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("保存不可用记录失败: %w", err)
	}

	resp := &dto.SetUnavailabilityResponse{Created: len(records)}

	// 5. 建议性冲突检查：失败不回滚写入，仅标记"冲突未知"
	conflicts, err := s.repo.Assignment.ListOverlapping(ctx, req.ResourceID, dateRange.Start, dateRange.End)
	if err != nil {
		s.logger.Warn("冲突检查失败，不可用记录已写入",
			zap.String("resource_id", req.ResourceID),
			zap.Error(err),
		)
		resp.Conflicts = nil
		resp.ConflictCheckFailed = true
		return resp, nil
	}

	resp.Conflicts = make([]dto.ConflictItem, 0, len(conflicts))
	for i := range conflicts {
		resp.Conflicts = append(resp.Conflicts, dto.ConflictItem{
			AssignmentID:    conflicts[i].AssignmentID,
			TaskDescription: conflicts[i].TaskDescription,
			StartDate:       schedule.FormatDate(conflicts[i].StartDate),
			EndDate:         schedule.FormatDate(conflicts[i].EndDate),
		})
	}

	return resp, nil
}

// ════════════════════════════════════════════════════════════
// ListUnavailability — 查询不可用记录
// ════════════════════════════════════════════════════════════

func (s *availabilityService) ListUnavailability(ctx context.Context, resourceID string, req *dto.UnavailabilityListRequest) ([]dto.UnavailabilityResponse, error) {
	dateRange, err := parseDateRange(req.DateFrom, req.DateTo)
	if err != nil {
		return nil, err
	}

	records, err := s.repo.Unavailability.ListByResourceAndRange(ctx, resourceID, dateRange.Start, dateRange.End)
	if err != nil {
		s.logger.Error("查询不可用记录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UnavailabilityResponse, 0, len(records))
	for i := range records {
		result = append(result, dto.UnavailabilityResponse{
			ID:         records[i].UnavailabilityID,
			ResourceID: records[i].ResourceID,
			Date:       schedule.FormatDate(records[i].Date),
			Type:       string(records[i].Type),
			Notes:      records[i].Notes,
			CreatedAt:  records[i].CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// DeleteUnavailability — 删除单日不可用记录
// ════════════════════════════════════════════════════════════

func (s *availabilityService) DeleteUnavailability(ctx context.Context, resourceID string, date string) error {
	d, err := schedule.ParseDate(date)
	if err != nil {
		return ErrInvalidDateFormat
	}

	affected, err := s.repo.Unavailability.DeleteDay(ctx, resourceID, d)
	if err != nil {
		s.logger.Error("删除不可用记录失败", zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrUnavailabilityNotFound
	}
	return nil
}

// parseDateRange 解析并校验闭区间日期参数
func parseDateRange(start, end string) (schedule.DateRange, error) {
	from, err := schedule.ParseDate(start)
	if err != nil {
		return schedule.DateRange{}, ErrInvalidDateFormat
	}
	to, err := schedule.ParseDate(end)
	if err != nil {
		return schedule.DateRange{}, ErrInvalidDateFormat
	}
	r, err := schedule.NewDateRange(from, to)
	if err != nil {
		return schedule.DateRange{}, ErrInvalidDateRange
	}
	return r, nil
}
