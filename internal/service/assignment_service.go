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

// ── 分配模块业务错误 ──

var (
	ErrAssignmentNotFound      = errors.New("分配记录不存在")
	ErrResourceInactive        = errors.New("资源已停用，不可分配")
	ErrInvalidAssignmentStatus = errors.New("分配状态无效")
	ErrInvalidStatusTransition = errors.New("分配状态流转不合法")
	ErrAssignmentNotEditable   = errors.New("已完成或已取消的分配不可填报工时")
)

// ── AssignmentService 接口 ──────────────────────────────
//
// 设计说明：
//   - 创建时对区间内已登记的不可用日给出建议性警告，
//     与可用性模块的冲突策略对称：提示但不阻塞。
//   - 状态机：planned → in_progress → completed；
//     planned/in_progress 可转 cancelled；终态不可再流转。
//   - cancelled 分配不参与冲突检测与利用率统计（仓储层过滤）。
// ─────────────────────────────────────────────────────────────

// AssignmentService 任务分配业务接口
type AssignmentService interface {
	Create(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.CreateAssignmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error)
	// LogActualHours 填报实际工时
	LogActualHours(ctx context.Context, id string, req *dto.LogActualHoursRequest, callerID string) (*dto.AssignmentResponse, error)
	// UpdateStatus 变更分配状态
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateAssignmentStatusRequest, callerID string) (*dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Create — 创建分配 + 不可用日建议性警告
// ════════════════════════════════════════════════════════════

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest, callerID string) (*dto.CreateAssignmentResponse, error) {
	dateRange, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	resource, err := s.repo.Resource.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		s.logger.Error("查询资源失败", zap.Error(err))
		return nil, err
	}
	if !resource.IsActive {
		return nil, ErrResourceInactive
	}

	assignment := &model.Assignment{
		ResourceID:      req.ResourceID,
		TaskDescription: req.TaskDescription,
		StartDate:       dateRange.Start,
		EndDate:         dateRange.End,
		PlannedHours:    req.PlannedHours,
		Status:          model.AssignmentStatusPlanned,
	}
	assignment.CreatedBy = &callerID
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		s.logger.Error("创建分配失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.CreateAssignmentResponse{
		Assignment: *toAssignmentResponse(assignment),
	}

	// 建议性警告：区间内已登记的不可用日（查询失败不影响创建结果）
	unavailable, err := s.repo.Unavailability.ListByResourceAndRange(ctx, req.ResourceID, dateRange.Start, dateRange.End)
	if err != nil {
		s.logger.Warn("查询不可用记录失败，跳过警告生成", zap.Error(err))
		return resp, nil
	}
	for i := range unavailable {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf(
			"资源在 %s 已登记不可用（%s）",
			schedule.FormatDate(unavailable[i].Date), unavailable[i].Type,
		))
	}

	return resp, nil
}

// ════════════════════════════════════════════════════════════
// GetByID / List
// ════════════════════════════════════════════════════════════

func (s *assignmentService) GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, err
	}
	return toAssignmentResponse(assignment), nil
}

func (s *assignmentService) List(ctx context.Context, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	filter := repository.AssignmentFilter{
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}
	if req.ResourceID != "" {
		filter.ResourceID = &req.ResourceID
	}
	if req.Status != "" {
		status := model.AssignmentStatus(req.Status)
		if !status.Valid() {
			return nil, 0, ErrInvalidAssignmentStatus
		}
		filter.Status = &status
	}
	if req.DateFrom != "" {
		from, err := schedule.ParseDate(req.DateFrom)
		if err != nil {
			return nil, 0, ErrInvalidDateFormat
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := schedule.ParseDate(req.DateTo)
		if err != nil {
			return nil, 0, ErrInvalidDateFormat
		}
		filter.DateTo = &to
	}

	assignments, total, err := s.repo.Assignment.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询分配列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, *toAssignmentResponse(&assignments[i]))
	}
	return result, total, nil
}

// ════════════════════════════════════════════════════════════
// LogActualHours — 填报实际工时
// ════════════════════════════════════════════════════════════

func (s *assignmentService) LogActualHours(ctx context.Context, id string, req *dto.LogActualHoursRequest, callerID string) (*dto.AssignmentResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, err
	}

	if assignment.Status == model.AssignmentStatusCompleted ||
		assignment.Status == model.AssignmentStatusCancelled {
		return nil, ErrAssignmentNotEditable
	}

	hours := req.ActualHours
	assignment.ActualHours = &hours
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("填报实际工时失败", zap.Error(err))
		return nil, err
	}

	return toAssignmentResponse(assignment), nil
}

// ════════════════════════════════════════════════════════════
// UpdateStatus — 状态流转
// ════════════════════════════════════════════════════════════

// validTransitions 分配状态机
var validTransitions = map[model.AssignmentStatus][]model.AssignmentStatus{
	model.AssignmentStatusPlanned:    {model.AssignmentStatusInProgress, model.AssignmentStatusCancelled},
	model.AssignmentStatusInProgress: {model.AssignmentStatusCompleted, model.AssignmentStatusCancelled},
}

func (s *assignmentService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateAssignmentStatusRequest, callerID string) (*dto.AssignmentResponse, error) {
	target := model.AssignmentStatus(req.Status)
	if !target.Valid() {
		return nil, ErrInvalidAssignmentStatus
	}

	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, err
	}

	allowed := false
	for _, next := range validTransitions[assignment.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrInvalidStatusTransition
	}

	assignment.Status = target
	assignment.UpdatedBy = &callerID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("变更分配状态失败", zap.Error(err))
		return nil, err
	}

	return toAssignmentResponse(assignment), nil
}

// toAssignmentResponse 分配实体转响应
func toAssignmentResponse(a *model.Assignment) *dto.AssignmentResponse {
	resp := &dto.AssignmentResponse{
		ID:              a.AssignmentID,
		ResourceID:      a.ResourceID,
		TaskDescription: a.TaskDescription,
		StartDate:       schedule.FormatDate(a.StartDate),
		EndDate:         schedule.FormatDate(a.EndDate),
		PlannedHours:    a.PlannedHours,
		ActualHours:     a.ActualHours,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
	if a.Resource != nil {
		resp.Resource = &dto.ResourceBrief{
			ID:   a.Resource.ResourceID,
			Name: a.Resource.Name,
			Code: a.Resource.Code,
			Type: string(a.Resource.Type),
		}
	}
	return resp
}
