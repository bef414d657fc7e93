package dto

// ── 利用率报表 DTO ──

// UtilizationReportRequest 利用率报表查询参数
type UtilizationReportRequest struct {
	DateFrom     string `form:"date_from"     binding:"required"` // "2006-01-02"
	DateTo       string `form:"date_to"       binding:"required"` // "2006-01-02"
	ResourceType string `form:"resource_type"`
}

// UtilizationReportRow 单资源利用率行（瞬态，不落库）
type UtilizationReportRow struct {
	ResourceID            string  `json:"resource_id"`
	ResourceName          string  `json:"resource_name"`
	ResourceCode          string  `json:"resource_code"`
	ResourceType          string  `json:"resource_type"`
	AvailableHours        float64 `json:"available_hours"`
	PlannedHours          float64 `json:"planned_hours"`
	ActualHours           float64 `json:"actual_hours"`
	UtilizationPercentage float64 `json:"utilization_percentage"`
	Classification        string  `json:"classification"` // over_allocated | normal | under_utilized
}
