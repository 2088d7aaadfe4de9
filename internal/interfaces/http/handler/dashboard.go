package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bookkeep/backend/internal/domain/metrics"
	"github.com/bookkeep/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DashboardService is the application-layer contract the handler depends on
type DashboardService interface {
	GetMetrics(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID, target valueobject.Currency) (*metrics.MetricsResult, error)
	GetPerformance(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID, period metrics.Period, target valueobject.Currency) (*metrics.PerformanceResult, error)
	GetCloseReadiness(ctx context.Context, tenantID uuid.UUID, entityID *uuid.UUID, periodStart, periodEnd time.Time) (*metrics.CloseReadinessResult, error)
}

// DashboardHandler serves the dashboard read endpoints
type DashboardHandler struct {
	BaseHandler
	service DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

// GetMetrics handles GET /api/v1/dashboard/metrics
func (h *DashboardHandler) GetMetrics(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant could not be resolved")
		return
	}

	entityID, err := getEntityID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency, ok := parseCurrency(c.Query("currency"))
	if !ok {
		h.BadRequest(c, "currency must be a 3-letter ISO code")
		return
	}

	result, err := h.service.GetMetrics(c.Request.Context(), tenantID, entityID, currency)
	if err != nil {
		h.logger.Error("Dashboard metrics request failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetPerformance handles GET /api/v1/dashboard/performance
func (h *DashboardHandler) GetPerformance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant could not be resolved")
		return
	}

	entityID, err := getEntityID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency, ok := parseCurrency(c.Query("currency"))
	if !ok {
		h.BadRequest(c, "currency must be a 3-letter ISO code")
		return
	}

	period := metrics.Period(c.DefaultQuery("period", string(metrics.Period30d)))

	result, err := h.service.GetPerformance(c.Request.Context(), tenantID, entityID, period, currency)
	if err != nil {
		h.logger.Warn("Dashboard performance request failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("period", string(period)),
			zap.Error(err),
		)
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetCloseReadiness handles GET /api/v1/dashboard/close-readiness
func (h *DashboardHandler) GetCloseReadiness(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant could not be resolved")
		return
	}

	entityID, err := getEntityID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	periodStart, periodEnd, err := parseClosePeriod(c.Query("year"), c.Query("month"))
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.GetCloseReadiness(c.Request.Context(), tenantID, entityID, periodStart, periodEnd)
	if err != nil {
		h.logger.Error("Close readiness request failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// parseCurrency validates the optional currency query parameter. An
// empty value is allowed; the service applies its default.
func parseCurrency(raw string) (valueobject.Currency, bool) {
	if raw == "" {
		return "", true
	}
	if len(raw) != 3 {
		return "", false
	}
	return valueobject.Currency(raw), true
}

// parseClosePeriod resolves year/month query parameters into the full
// calendar month [first instant, last second].
func parseClosePeriod(rawYear, rawMonth string) (time.Time, time.Time, error) {
	year, err := strconv.Atoi(rawYear)
	if err != nil || year < 1970 || year > 9999 {
		return time.Time{}, time.Time{}, errInvalidClosePeriod
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, errInvalidClosePeriod
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end, nil
}

var errInvalidClosePeriod = errors.New("year and month query parameters are required; month must be 1-12")
