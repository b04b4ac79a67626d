package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/nmcalabroso/fintrack/internal/models"
	"github.com/nmcalabroso/fintrack/internal/service"
)

// AnalyticsService defines the aggregation operations required by the
// analytics endpoints.
type AnalyticsService interface {
	Summary(ctx context.Context, identity *models.Identity) (*service.Summary, error)
	MonthlySummary(ctx context.Context, identity *models.Identity, mes, anio int) (*service.Summary, error)
	BreakdownByCategory(ctx context.Context, identity *models.Identity, kind service.Kind, mes, anio int) ([]service.CategoryTotal, error)
	MonthlyTrend(ctx context.Context, identity *models.Identity, meses int) ([]service.TrendPoint, error)
}

// AnalyticsHandler handles the read-only aggregation endpoints under
// /analisis.
type AnalyticsHandler struct {
	// AnalyticsService performs the underlying aggregations.
	AnalyticsService AnalyticsService
}

// GastoPorTipo is one group of the expense breakdown on the wire.
type GastoPorTipo struct {
	TipoGasto  string  `json:"tipo_gasto"`
	Total      float64 `json:"total"`
	Porcentaje float64 `json:"porcentaje"`
}

// InversionPorTipo is one group of the investment breakdown on the wire.
type InversionPorTipo struct {
	TipoInversion string  `json:"tipo_inversion"`
	Total         float64 `json:"total"`
	Porcentaje    float64 `json:"porcentaje"`
}

// monthParams parses the optional mes/anio query parameters. Zero means
// the parameter is absent. Out-of-range values are rejected.
func monthParams(w http.ResponseWriter, r *http.Request) (mes, anio int, ok bool) {
	q := r.URL.Query()
	if v := q.Get("mes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			http.Error(w, "mes must be between 1 and 12", http.StatusBadRequest)
			return 0, 0, false
		}
		mes = n
	}
	if v := q.Get("anio"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2000 {
			http.Error(w, "anio must be 2000 or later", http.StatusBadRequest)
			return 0, 0, false
		}
		anio = n
	}
	return mes, anio, true
}

// ResumenGeneral returns the all-time financial summary.
func (h *AnalyticsHandler) ResumenGeneral(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}

	summary, err := h.AnalyticsService.Summary(r.Context(), identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ResumenMensual returns the summary for one calendar month, defaulting
// to the current month.
func (h *AnalyticsHandler) ResumenMensual(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	mes, anio, ok := monthParams(w, r)
	if !ok {
		return
	}

	summary, err := h.AnalyticsService.MonthlySummary(r.Context(), identity, mes, anio)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GastosPorTipo returns expense totals grouped by category, descending.
func (h *AnalyticsHandler) GastosPorTipo(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	mes, anio, ok := monthParams(w, r)
	if !ok {
		return
	}

	groups, err := h.AnalyticsService.BreakdownByCategory(r.Context(), identity, service.KindExpense, mes, anio)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]GastoPorTipo, 0, len(groups))
	for _, g := range groups {
		out = append(out, GastoPorTipo{TipoGasto: g.Tipo, Total: g.Total, Porcentaje: g.Porcentaje})
	}
	writeJSON(w, http.StatusOK, out)
}

// InversionesPorTipo returns investment totals grouped by type, descending.
func (h *AnalyticsHandler) InversionesPorTipo(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}
	mes, anio, ok := monthParams(w, r)
	if !ok {
		return
	}

	groups, err := h.AnalyticsService.BreakdownByCategory(r.Context(), identity, service.KindInvestment, mes, anio)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]InversionPorTipo, 0, len(groups))
	for _, g := range groups {
		out = append(out, InversionPorTipo{TipoInversion: g.Tipo, Total: g.Total, Porcentaje: g.Porcentaje})
	}
	writeJSON(w, http.StatusOK, out)
}

// TendenciaMensual returns per-month totals for the last N months in
// ascending chronological order.
func (h *AnalyticsHandler) TendenciaMensual(w http.ResponseWriter, r *http.Request) {
	identity := identityOr401(w, r)
	if identity == nil {
		return
	}

	meses := service.DefaultTrendMonths
	if v := r.URL.Query().Get("meses"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < service.MinTrendMonths || n > service.MaxTrendMonths {
			http.Error(w, "meses must be between 1 and 24", http.StatusBadRequest)
			return
		}
		meses = n
	}

	trend, err := h.AnalyticsService.MonthlyTrend(r.Context(), identity, meses)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}
