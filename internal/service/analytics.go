package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/nmcalabroso/fintrack/internal/models"
)

// Kind selects which record type a category breakdown aggregates.
type Kind string

const (
	// KindExpense aggregates expense records.
	KindExpense Kind = "expense"
	// KindInvestment aggregates investment records.
	KindInvestment Kind = "investment"
)

// Summary is the financial summary over a period: total inflows, total
// outflows, their balance and the savings percentage.
type Summary struct {
	TotalInversiones float64 `json:"total_inversiones"`
	TotalGastos      float64 `json:"total_gastos"`
	Balance          float64 `json:"balance"`
	PorcentajeAhorro float64 `json:"porcentaje_ahorro"`
	Periodo          string  `json:"periodo"`
}

// CategoryTotal is one group of a per-category breakdown.
type CategoryTotal struct {
	Tipo       string
	Total      float64
	Porcentaje float64
}

// TrendPoint is one month of the monthly trend.
type TrendPoint struct {
	Mes              int     `json:"mes"`
	Anio             int     `json:"anio"`
	Periodo          string  `json:"periodo"`
	TotalInversiones float64 `json:"total_inversiones"`
	TotalGastos      float64 `json:"total_gastos"`
	Balance          float64 `json:"balance"`
}

// AllTimePeriod labels a summary with no month filter.
const AllTimePeriod = "Todo el tiempo"

// Trend bounds for the months-back parameter.
const (
	MinTrendMonths     = 1
	MaxTrendMonths     = 24
	DefaultTrendMonths = 6
)

// AnalyticsService aggregates the identity's own expense and investment
// records into summaries, per-category breakdowns and monthly trends.
// There is no admin-wide aggregation.
type AnalyticsService struct {
	expenses    ExpenseRepository
	investments InvestmentRepository
	now         func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService over the two record
// repositories.
func NewAnalyticsService(expenses ExpenseRepository, investments InvestmentRepository) *AnalyticsService {
	return &AnalyticsService{
		expenses:    expenses,
		investments: investments,
		now:         time.Now,
	}
}

// monthWindow returns the half-open interval [first day of the month,
// first day of the next month). December rolls over to January.
func monthWindow(anio int, mes int) (time.Time, time.Time) {
	from := time.Date(anio, time.Month(mes), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *AnalyticsService) totals(ctx context.Context, identity *models.Identity, from, to time.Time, allTime bool) (totalInv, totalGastos float64, err error) {
	var (
		investments []models.Investment
		expenses    []models.Expense
	)

	if allTime {
		investments, err = s.investments.ListByOwner(ctx, identity.ID)
	} else {
		investments, err = s.investments.ListByOwnerBetween(ctx, identity.ID, from, to)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("load investments: %w", err)
	}

	if allTime {
		expenses, err = s.expenses.ListByOwner(ctx, identity.ID)
	} else {
		expenses, err = s.expenses.ListByOwnerBetween(ctx, identity.ID, from, to)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("load expenses: %w", err)
	}

	for _, inv := range investments {
		totalInv += inv.Cantidad
	}
	for _, e := range expenses {
		totalGastos += e.Cantidad
	}
	return totalInv, totalGastos, nil
}

func buildSummary(totalInv, totalGastos float64, periodo string) *Summary {
	balance := totalInv - totalGastos

	// Zero inflows means zero savings, never a division error.
	porcentaje := 0.0
	if totalInv > 0 {
		porcentaje = round2(balance / totalInv * 100)
	}

	return &Summary{
		TotalInversiones: totalInv,
		TotalGastos:      totalGastos,
		Balance:          balance,
		PorcentajeAhorro: porcentaje,
		Periodo:          periodo,
	}
}

// Summary computes the all-time summary of the identity's records.
func (s *AnalyticsService) Summary(ctx context.Context, identity *models.Identity) (*Summary, error) {
	totalInv, totalGastos, err := s.totals(ctx, identity, time.Time{}, time.Time{}, true)
	if err != nil {
		return nil, err
	}
	return buildSummary(totalInv, totalGastos, AllTimePeriod), nil
}

// MonthlySummary computes the summary for one calendar month. Zero mes
// or anio default to the current month.
func (s *AnalyticsService) MonthlySummary(ctx context.Context, identity *models.Identity, mes, anio int) (*Summary, error) {
	now := s.now()
	if mes == 0 {
		mes = int(now.Month())
	}
	if anio == 0 {
		anio = now.Year()
	}

	from, to := monthWindow(anio, mes)
	totalInv, totalGastos, err := s.totals(ctx, identity, from, to, false)
	if err != nil {
		return nil, err
	}
	return buildSummary(totalInv, totalGastos, fmt.Sprintf("%d/%d", mes, anio)), nil
}

// BreakdownByCategory groups the identity's records of the given kind by
// category label, with each group's share of the grand total, sorted
// descending by total. When both mes and anio are non-zero only that
// calendar month is considered. No matching records yields an empty
// slice.
func (s *AnalyticsService) BreakdownByCategory(ctx context.Context, identity *models.Identity, kind Kind, mes, anio int) ([]CategoryTotal, error) {
	filtered := mes != 0 && anio != 0
	var from, to time.Time
	if filtered {
		from, to = monthWindow(anio, mes)
	}

	byTipo := make(map[string]float64)

	switch kind {
	case KindExpense:
		var (
			expenses []models.Expense
			err      error
		)
		if filtered {
			expenses, err = s.expenses.ListByOwnerBetween(ctx, identity.ID, from, to)
		} else {
			expenses, err = s.expenses.ListByOwner(ctx, identity.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("load expenses: %w", err)
		}
		for _, e := range expenses {
			byTipo[e.Tipo] += e.Cantidad
		}
	case KindInvestment:
		var (
			investments []models.Investment
			err         error
		)
		if filtered {
			investments, err = s.investments.ListByOwnerBetween(ctx, identity.ID, from, to)
		} else {
			investments, err = s.investments.ListByOwner(ctx, identity.ID)
		}
		if err != nil {
			return nil, fmt.Errorf("load investments: %w", err)
		}
		for _, inv := range investments {
			byTipo[inv.Tipo] += inv.Cantidad
		}
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	if len(byTipo) == 0 {
		return []CategoryTotal{}, nil
	}

	var grandTotal float64
	for _, total := range byTipo {
		grandTotal += total
	}

	result := make([]CategoryTotal, 0, len(byTipo))
	for tipo, total := range byTipo {
		porcentaje := 0.0
		if grandTotal > 0 {
			porcentaje = round2(total / grandTotal * 100)
		}
		result = append(result, CategoryTotal{Tipo: tipo, Total: total, Porcentaje: porcentaje})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Total > result[j].Total })
	return result, nil
}

// MonthlyTrend computes per-month totals for the last meses calendar
// months including the current one, ordered chronologically ascending.
// meses outside [1, 24] falls back to the default of 6.
func (s *AnalyticsService) MonthlyTrend(ctx context.Context, identity *models.Identity, meses int) ([]TrendPoint, error) {
	if meses < MinTrendMonths || meses > MaxTrendMonths {
		meses = DefaultTrendMonths
	}

	now := s.now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	// Newest first, reversed at the end so the oldest month leads.
	result := make([]TrendPoint, 0, meses)
	for i := 0; i < meses; i++ {
		month := currentMonth.AddDate(0, -i, 0)
		from, to := monthWindow(month.Year(), int(month.Month()))

		totalInv, totalGastos, err := s.totals(ctx, identity, from, to, false)
		if err != nil {
			return nil, err
		}

		result = append(result, TrendPoint{
			Mes:              int(month.Month()),
			Anio:             month.Year(),
			Periodo:          fmt.Sprintf("%d/%d", int(month.Month()), month.Year()),
			TotalInversiones: totalInv,
			TotalGastos:      totalGastos,
			Balance:          totalInv - totalGastos,
		})
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}
