package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"gis-erp/backend/internal/dto"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ── ExportService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 利用率报表导出为 .xlsx：数据区逐资源一行，
//     底部附汇总块（资源数、平均利用率、超配/低利用数）。
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置响应头后写入。
// ─────────────────────────────────────────────────────────────

// ExportService 导出业务接口
type ExportService interface {
	// ExportUtilization 导出利用率报表为 Excel
	// 返回值：buf（Excel 内容）, filename（建议文件名）, error
	ExportUtilization(ctx context.Context, req *dto.UtilizationReportRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	utilizationSvc UtilizationService
	logger         *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(utilizationSvc UtilizationService, logger *zap.Logger) ExportService {
	return &exportService{utilizationSvc: utilizationSvc, logger: logger}
}

func (s *exportService) ExportUtilization(ctx context.Context, req *dto.UtilizationReportRequest) (*bytes.Buffer, string, error) {
	rows, err := s.utilizationSvc.GetReport(ctx, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "利用率报表"
	index, err := f.NewSheet(sheet)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	// 表头
	headers := []string{"资源编码", "资源名称", "类型", "可用工时", "计划工时", "实际工时", "利用率(%)", "分级"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			s.logger.Error("写入表头失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}

	// 数据区
	for i, row := range rows {
		values := []interface{}{
			row.ResourceCode,
			row.ResourceName,
			row.ResourceType,
			row.AvailableHours,
			row.PlannedHours,
			row.ActualHours,
			row.UtilizationPercentage,
			row.Classification,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				s.logger.Error("写入数据行失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	// 汇总块
	var avgPct float64
	overCount, underCount := 0, 0
	for _, row := range rows {
		avgPct += row.UtilizationPercentage
		switch row.Classification {
		case "over_allocated":
			overCount++
		case "under_utilized":
			underCount++
		}
	}
	if len(rows) > 0 {
		avgPct /= float64(len(rows))
	}

	summaryStart := len(rows) + 3
	summary := [][]interface{}{
		{"资源总数", len(rows)},
		{"平均利用率(%)", avgPct},
		{"超配资源数", overCount},
		{"低利用资源数", underCount},
	}
	for i, pair := range summary {
		for j, v := range pair {
			cell, _ := excelize.CoordinatesToCellName(j+1, summaryStart+i)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				s.logger.Error("写入汇总块失败", zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("序列化 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("utilization_%s_%s.xlsx", req.DateFrom, req.DateTo)
	return buf, filename, nil
}
