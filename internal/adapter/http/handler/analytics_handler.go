package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/restoledger/internal/aggregate"
	"github.com/iho/restoledger/internal/domain"
	"github.com/iho/restoledger/internal/usecase"
)

// AnalyticsService defines the behavior needed by AnalyticsHandler.
type AnalyticsService interface {
	SalesSeries(ctx context.Context, input usecase.SalesSeriesInput) (*usecase.SalesSeries, error)
	Summary(ctx context.Context, period aggregate.Granularity, date time.Time) (*usecase.SalesSummary, error)
	TopDishes(ctx context.Context, from, to time.Time, limit int) ([]usecase.DishSales, error)
}

// AnalyticsHandler serves sales charts and reports.
type AnalyticsHandler struct {
	analyticsUC AnalyticsService
	calendar    *aggregate.Calendar
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsUC AnalyticsService, calendar *aggregate.Calendar) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUC: analyticsUC, calendar: calendar}
}

// Sales returns a bucketed sales series.
// Query: from, to (YYYY-MM-DD), granularity (default daily), dish_id.
func (h *AnalyticsHandler) Sales(w http.ResponseWriter, r *http.Request) {
	g, err := granularityQuery(r, "granularity", aggregate.Daily)
	if err != nil {
		writeDomainError(w, "invalid granularity", err)
		return
	}

	from, to, err := h.dayRange(r)
	if err != nil {
		writeDomainError(w, "invalid date range", err)
		return
	}

	var dishID int64
	if raw := r.URL.Query().Get("dish_id"); raw != "" {
		dishID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || dishID < 0 {
			writeError(w, http.StatusBadRequest, "invalid dish_id", raw)
			return
		}
	}

	series, err := h.analyticsUC.SalesSeries(r.Context(), usecase.SalesSeriesInput{
		From:        from,
		To:          to,
		Granularity: g,
		DishID:      dishID,
	})
	if err != nil {
		writeDomainError(w, "failed to compute sales", err)
		return
	}

	writeJSON(w, http.StatusOK, series)
}

// Summary reports what was sold in the day, week or month containing date.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	period, err := granularityQuery(r, "period", aggregate.Daily)
	if err != nil {
		writeDomainError(w, "invalid period", err)
		return
	}

	date, err := parseDayQuery(r, h.calendar, "date")
	if err != nil {
		writeDomainError(w, "invalid date", err)
		return
	}

	summary, err := h.analyticsUC.Summary(r.Context(), period, date)
	if err != nil {
		writeDomainError(w, "failed to compute summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// TopDishes ranks dishes by revenue.
func (h *AnalyticsHandler) TopDishes(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.dayRange(r)
	if err != nil {
		writeDomainError(w, "invalid date range", err)
		return
	}
	limit := domain.ClampLimit(parseIntQuery(r, "limit", 10), 10, usecase.DefaultListLimit)

	dishes, err := h.analyticsUC.TopDishes(r.Context(), from, to, limit)
	if err != nil {
		writeDomainError(w, "failed to rank dishes", err)
		return
	}

	writeJSON(w, http.StatusOK, dishes)
}

func (h *AnalyticsHandler) dayRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseDayQuery(r, h.calendar, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDayQuery(r, h.calendar, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

func granularityQuery(r *http.Request, key string, def aggregate.Granularity) (aggregate.Granularity, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return aggregate.ParseGranularity(raw)
}
