package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/agrodesk/farm-manager/internal/repository"
)

// AdminReportHandler serves the dashboard aggregations. The assembled
// report is cached in Redis for a short interval when a client is
// available; with no Redis the queries simply run per request.
type AdminReportHandler struct {
	Reports *repository.ReportRepo
	Redis   *redis.Client
}

func NewAdminReportHandler(reports *repository.ReportRepo, rdb *redis.Client) *AdminReportHandler {
	return &AdminReportHandler{Reports: reports, Redis: rdb}
}

const (
	reportCacheKey = "reports:dashboard"
	reportCacheTTL = 60 * time.Second
)

type dashboardReport struct {
	Totals              *repository.Totals    `json:"totals"`
	AnimalsByType       []repository.CountRow `json:"animals_by_type"`
	AnimalsByFarm       []repository.CountRow `json:"animals_by_farm"`
	EmployeesByPosition []repository.CountRow `json:"employees_by_position"`
	SalaryBuckets       []repository.CountRow `json:"salary_buckets"`
	TenureBuckets       []repository.CountRow `json:"tenure_buckets"`
	HealthByType        []repository.CountRow `json:"health_by_type"`
	GeneratedAt         string                `json:"generated_at"`
}

// Dashboard handles GET /v1/admin/reports.
func (h *AdminReportHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if h.Redis != nil {
		if cached, err := h.Redis.Get(ctx, reportCacheKey).Bytes(); err == nil {
			var report dashboardReport
			if json.Unmarshal(cached, &report) == nil {
				return c.JSON(http.StatusOK, report)
			}
		}
	}

	report := dashboardReport{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}
	var err error
	if report.Totals, err = h.Reports.GetTotals(ctx); err != nil {
		return dbError(c, "report totals", err)
	}
	if report.AnimalsByType, err = h.Reports.AnimalsByType(ctx); err != nil {
		return dbError(c, "report animals by type", err)
	}
	if report.AnimalsByFarm, err = h.Reports.AnimalsByFarm(ctx); err != nil {
		return dbError(c, "report animals by farm", err)
	}
	if report.EmployeesByPosition, err = h.Reports.EmployeesByPosition(ctx); err != nil {
		return dbError(c, "report employees by position", err)
	}
	if report.SalaryBuckets, err = h.Reports.EmployeesBySalaryBucket(ctx); err != nil {
		return dbError(c, "report salary buckets", err)
	}
	if report.TenureBuckets, err = h.Reports.EmployeesByTenure(ctx); err != nil {
		return dbError(c, "report tenure buckets", err)
	}
	if report.HealthByType, err = h.Reports.HealthRecordsByType(ctx); err != nil {
		return dbError(c, "report health by type", err)
	}

	if h.Redis != nil {
		if body, err := json.Marshal(report); err == nil {
			h.Redis.Set(ctx, reportCacheKey, body, reportCacheTTL)
		}
	}
	return c.JSON(http.StatusOK, report)
}
