package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"gis-erp/backend/internal/dto"
	"gis-erp/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestUtilizationService() (UtilizationService, *mockRepos) {
	repo, mocks := newTestRepository()
	svc := NewUtilizationService(repo, nil, zap.NewNop())
	return svc, mocks
}

func seedTypedResource(mocks *mockRepos, id, code string, rtype model.ResourceType, hoursPerDay float64) {
	mocks.resource.resources[id] = &model.Resource{
		ResourceID:          id,
		Name:                "资源" + code,
		Code:                code,
		Type:                rtype,
		StandardHoursPerDay: hoursPerDay,
		IsActive:            true,
	}
}

func hoursPtr(h float64) *float64 { return &h }

// ── GetReport 测试 ──

func TestUtilizationService_GetReport_Baseline(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)
	// 10天窗口 × 8h = 80h 可用；实际 40h → 50%
	mocks.assignment.assignments["asn-1"] = &model.Assignment{
		AssignmentID: "asn-1",
		ResourceID:   "res-001",
		StartDate:    testDate(t, "2024-01-01"),
		EndDate:      testDate(t, "2024-01-10"),
		PlannedHours: 50,
		ActualHours:  hoursPtr(40),
		Status:       model.AssignmentStatusInProgress,
	}

	rows, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-10",
	})
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("期望1行，实际=%d", len(rows))
	}

	row := rows[0]
	if row.AvailableHours != 80 {
		t.Errorf("期望可用80h，实际=%v", row.AvailableHours)
	}
	if row.ActualHours != 40 {
		t.Errorf("期望实际40h，实际=%v", row.ActualHours)
	}
	if row.UtilizationPercentage != 50.0 {
		t.Errorf("期望利用率50%%，实际=%v", row.UtilizationPercentage)
	}
	if row.Classification != "normal" {
		t.Errorf("50%%为正常档，实际=%s", row.Classification)
	}
}

func TestUtilizationService_GetReport_UnavailableReducesHours(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)

	// 直接造3条不可用记录
	for _, day := range []string{"2024-01-03", "2024-01-04", "2024-01-05"} {
		d := testDate(t, day)
		mocks.unavailability.records[unavailKey("res-001", d)] = &model.UnavailabilityRecord{
			ResourceID: "res-001",
			Date:       d,
			Type:       model.UnavailabilityTypeLeave,
		}
	}

	rows, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-10",
	})
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}
	// (10 - 3) × 8 = 56
	if rows[0].AvailableHours != 56 {
		t.Errorf("期望可用56h，实际=%v", rows[0].AvailableHours)
	}
}

func TestUtilizationService_GetReport_FullyUnavailableNoNaN(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)

	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		d := testDate(t, day)
		mocks.unavailability.records[unavailKey("res-001", d)] = &model.UnavailabilityRecord{
			ResourceID: "res-001",
			Date:       d,
			Type:       model.UnavailabilityTypeSick,
		}
	}
	mocks.assignment.assignments["asn-1"] = &model.Assignment{
		AssignmentID: "asn-1",
		ResourceID:   "res-001",
		StartDate:    testDate(t, "2024-01-01"),
		EndDate:      testDate(t, "2024-01-03"),
		PlannedHours: 24,
		ActualHours:  hoursPtr(10),
		Status:       model.AssignmentStatusInProgress,
	}

	rows, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-03",
	})
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}

	row := rows[0]
	if row.AvailableHours != 0 {
		t.Errorf("全不可用期望可用0h，实际=%v", row.AvailableHours)
	}
	if math.IsNaN(row.UtilizationPercentage) || math.IsInf(row.UtilizationPercentage, 0) {
		t.Fatalf("除零防护失效：利用率=%v", row.UtilizationPercentage)
	}
	if row.UtilizationPercentage != 0 {
		t.Errorf("可用为0时利用率应为0，实际=%v", row.UtilizationPercentage)
	}
	// 工时量照常输出
	if row.ActualHours != 10 {
		t.Errorf("期望实际10h，实际=%v", row.ActualHours)
	}
}

func TestUtilizationService_GetReport_PartialOverlapFullCount(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)
	// 分配与窗口部分重叠：工时全额计入，不按比例折算
	mocks.assignment.assignments["asn-1"] = &model.Assignment{
		AssignmentID: "asn-1",
		ResourceID:   "res-001",
		StartDate:    testDate(t, "2024-01-08"),
		EndDate:      testDate(t, "2024-01-20"),
		PlannedHours: 64,
		ActualHours:  hoursPtr(30),
		Status:       model.AssignmentStatusInProgress,
	}

	rows, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-10",
	})
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}
	if rows[0].PlannedHours != 64 {
		t.Errorf("部分重叠应全额计入，期望计划64h，实际=%v", rows[0].PlannedHours)
	}
	if rows[0].ActualHours != 30 {
		t.Errorf("部分重叠应全额计入，期望实际30h，实际=%v", rows[0].ActualHours)
	}
}

func TestUtilizationService_GetReport_OverAllocated(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)
	// 5天 × 8h = 40h 可用；实际 50h → 125% 超配
	mocks.assignment.assignments["asn-1"] = &model.Assignment{
		AssignmentID: "asn-1",
		ResourceID:   "res-001",
		StartDate:    testDate(t, "2024-01-01"),
		EndDate:      testDate(t, "2024-01-05"),
		PlannedHours: 40,
		ActualHours:  hoursPtr(50),
		Status:       model.AssignmentStatusInProgress,
	}

	rows, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-05",
	})
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}
	if rows[0].UtilizationPercentage != 125.0 {
		t.Errorf("期望125%%，实际=%v", rows[0].UtilizationPercentage)
	}
	if rows[0].Classification != "over_allocated" {
		t.Errorf("期望 over_allocated，实际=%s", rows[0].Classification)
	}
}

func TestUtilizationService_GetReport_IdleResourceZeroRow(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)
	seedTypedResource(mocks, "res-002", "FLD-01", model.ResourceTypeField, 10)

	rows, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-05",
	})
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}
	// 无分配的资源输出全0工时行，而不是缺行
	if len(rows) != 2 {
		t.Fatalf("期望2行，实际=%d", len(rows))
	}
	for _, row := range rows {
		if row.PlannedHours != 0 || row.ActualHours != 0 {
			t.Errorf("空闲资源期望0工时，实际 planned=%v actual=%v", row.PlannedHours, row.ActualHours)
		}
		if row.Classification != "under_utilized" {
			t.Errorf("0%%应为低利用档，实际=%s", row.Classification)
		}
	}
}

func TestUtilizationService_GetReport_TypeFilter(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)
	seedTypedResource(mocks, "res-002", "FLD-01", model.ResourceTypeField, 10)

	rows, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom:     "2024-01-01",
		DateTo:       "2024-01-05",
		ResourceType: "field",
	})
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("类型筛选期望1行，实际=%d", len(rows))
	}
	if rows[0].ResourceType != "field" {
		t.Errorf("期望 field，实际=%s", rows[0].ResourceType)
	}
}

func TestUtilizationService_GetReport_InactiveExcluded(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)
	mocks.resource.resources["res-001"].IsActive = false

	rows, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-05",
	})
	if err != nil {
		t.Fatalf("GetReport 应成功: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("停用资源不应出现在报表中，实际=%d行", len(rows))
	}
}

func TestUtilizationService_GetReport_InvalidTypeFilter(t *testing.T) {
	svc, _ := setupTestUtilizationService()

	_, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom:     "2024-01-01",
		DateTo:       "2024-01-05",
		ResourceType: "robot",
	})
	if !errors.Is(err, ErrInvalidResourceTypeFilter) {
		t.Errorf("期望 ErrInvalidResourceTypeFilter，实际: %v", err)
	}
}

func TestUtilizationService_GetReport_InvalidRange(t *testing.T) {
	svc, _ := setupTestUtilizationService()

	_, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-10",
		DateTo:   "2024-01-01",
	})
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("期望 ErrInvalidDateRange，实际: %v", err)
	}
}

func TestUtilizationService_GetReport_RepoFailure(t *testing.T) {
	svc, mocks := setupTestUtilizationService()
	seedTypedResource(mocks, "res-001", "ENG-01", model.ResourceTypeEngineering, 8)
	mocks.assignment.failOverlapping = true

	_, err := svc.GetReport(context.Background(), &dto.UtilizationReportRequest{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-05",
	})
	if !errors.Is(err, errMockDB) {
		t.Errorf("仓储失败应整体失败，期望底层错误，实际: %v", err)
	}
}
