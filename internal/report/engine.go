// Package report is the aggregation engine: a family of pure functions
// that turn a (possibly filtered) normalized record set into the named
// summary views the presentation layer renders.
//
// Every function is deterministic and side-effect-free, and tolerates
// an empty input by returning an empty result set (group-bys) or
// all-zero values (scalar metrics) — never a runtime fault.
package report

import (
	"sort"

	"pizzapulse/internal/core"
)

// DefaultTopN is how many best and worst performers the ranked views
// return.
const DefaultTopN = 5

type (
	// KeyMetrics are the whole-set scalar metrics. When the subset is
	// empty (zero orders) the ratio metrics report zero rather than an
	// undefined value.
	KeyMetrics struct {
		TotalRevenue      core.Money `json:"total_revenue_cents"`
		TotalOrders       int        `json:"total_orders"`
		TotalPizzas       int64      `json:"total_pizzas"`
		AvgOrderValue     float64    `json:"avg_order_value"`
		AvgPizzasPerOrder float64    `json:"avg_pizzas_per_order"`
	}

	// HourlyPoint is pizzas sold in one hour bucket.
	HourlyPoint struct {
		Hour   int   `json:"hour"`
		Pizzas int64 `json:"pizzas"`
	}

	// WeeklyPoint is distinct orders placed in one ISO week.
	WeeklyPoint struct {
		Week   int `json:"week"`
		Orders int `json:"orders"`
	}

	// MonthlyPoint is revenue in one calendar month (1-12, merged
	// across years, matching the monthly revenue chart).
	MonthlyPoint struct {
		Month   int        `json:"month"`
		Revenue core.Money `json:"revenue_cents"`
	}

	// SharePoint is revenue attributed to one categorical value along
	// with its proportion of the subset total.
	SharePoint struct {
		Name    string     `json:"name"`
		Revenue core.Money `json:"revenue_cents"`
		Share   float64    `json:"share"`
	}

	// PizzaRevenue is total revenue for one pizza name.
	PizzaRevenue struct {
		Name    string     `json:"name"`
		Revenue core.Money `json:"revenue_cents"`
	}

	// YearlyPoint is revenue and distinct orders for one calendar year.
	YearlyPoint struct {
		Year    int        `json:"year"`
		Revenue core.Money `json:"revenue_cents"`
		Orders  int        `json:"orders"`
	}
)

// ApplyFilter returns the subset of rows matching the predicate. It is
// a pure subset operation: the source is never mutated, and the all
// predicate returns the input slice unchanged.
func ApplyFilter(rows []core.Row, f core.Filter) []core.Row {
	if f.IsAll() {
		return rows
	}
	subset := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		if f.Matches(r) {
			subset = append(subset, r)
		}
	}
	return subset
}

// Metrics computes the whole-set key metrics.
func Metrics(rows []core.Row) KeyMetrics {
	var m KeyMetrics
	orders := make(map[string]struct{})
	for _, r := range rows {
		m.TotalRevenue = m.TotalRevenue.Add(r.TotalPrice)
		m.TotalPizzas += r.Quantity
		orders[r.OrderID] = struct{}{}
	}
	m.TotalOrders = len(orders)
	if m.TotalOrders > 0 {
		m.AvgOrderValue = m.TotalRevenue.Units() / float64(m.TotalOrders)
		m.AvgPizzasPerOrder = float64(m.TotalPizzas) / float64(m.TotalOrders)
	}
	return m
}

// HourlyTrend sums quantity per hour of day. Only hours present in the
// subset appear, ordered ascending.
func HourlyTrend(rows []core.Row) []HourlyPoint {
	sums := make(map[int]int64)
	for _, r := range rows {
		sums[r.Hour] += r.Quantity
	}
	points := make([]HourlyPoint, 0, len(sums))
	for hour, qty := range sums {
		points = append(points, HourlyPoint{Hour: hour, Pizzas: qty})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Hour < points[j].Hour })
	return points
}

// WeeklyTrend counts distinct orders per ISO week, ordered ascending.
func WeeklyTrend(rows []core.Row) []WeeklyPoint {
	orders := make(map[int]map[string]struct{})
	for _, r := range rows {
		if orders[r.Week] == nil {
			orders[r.Week] = make(map[string]struct{})
		}
		orders[r.Week][r.OrderID] = struct{}{}
	}
	points := make([]WeeklyPoint, 0, len(orders))
	for week, ids := range orders {
		points = append(points, WeeklyPoint{Week: week, Orders: len(ids)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Week < points[j].Week })
	return points
}

// MonthlyRevenue sums revenue per calendar month, ordered ascending.
func MonthlyRevenue(rows []core.Row) []MonthlyPoint {
	sums := make(map[int]int64)
	for _, r := range rows {
		sums[r.Month] += r.TotalPrice.Cents
	}
	points := make([]MonthlyPoint, 0, len(sums))
	for month, cents := range sums {
		points = append(points, MonthlyPoint{Month: month, Revenue: core.Money{Cents: cents}})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month < points[j].Month })
	return points
}

// CategorySplit sums revenue per pizza category with each category's
// share of the subset total, ordered alphabetically.
func CategorySplit(rows []core.Row) []SharePoint {
	return split(rows, func(r core.Row) string { return r.Category })
}

// SizeSplit sums revenue per pizza size with each size's share of the
// subset total, ordered alphabetically.
func SizeSplit(rows []core.Row) []SharePoint {
	return split(rows, func(r core.Row) string { return r.Size })
}

func split(rows []core.Row, key func(core.Row) string) []SharePoint {
	names, sums := groupRevenue(rows, key)
	var total int64
	for _, cents := range sums {
		total += cents
	}
	points := make([]SharePoint, 0, len(names))
	for _, name := range names {
		p := SharePoint{Name: name, Revenue: core.Money{Cents: sums[name]}}
		if total > 0 {
			p.Share = float64(sums[name]) / float64(total)
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Name < points[j].Name })
	return points
}

// TopPizzas returns the n highest-revenue pizza names, descending.
// Ties break by first appearance in the input (stable sort over groups
// in input order).
func TopPizzas(rows []core.Row, n int) []PizzaRevenue {
	return rankPizzas(rows, n, true)
}

// BottomPizzas returns the n lowest-revenue pizza names, ascending,
// with the same tie-break as TopPizzas.
func BottomPizzas(rows []core.Row, n int) []PizzaRevenue {
	return rankPizzas(rows, n, false)
}

func rankPizzas(rows []core.Row, n int, largest bool) []PizzaRevenue {
	names, sums := groupRevenue(rows, func(r core.Row) string { return r.Name })
	ranked := make([]PizzaRevenue, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, PizzaRevenue{Name: name, Revenue: core.Money{Cents: sums[name]}})
	}
	if largest {
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue.Cents > ranked[j].Revenue.Cents })
	} else {
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue.Cents < ranked[j].Revenue.Cents })
	}
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// YearlyComparison sums revenue and counts distinct orders per year,
// ordered ascending. Callers must pass the unfiltered dataset: this
// view intentionally ignores the active filter so years stay
// comparable.
func YearlyComparison(rows []core.Row) []YearlyPoint {
	revenue := make(map[int]int64)
	orders := make(map[int]map[string]struct{})
	for _, r := range rows {
		revenue[r.Year] += r.TotalPrice.Cents
		if orders[r.Year] == nil {
			orders[r.Year] = make(map[string]struct{})
		}
		orders[r.Year][r.OrderID] = struct{}{}
	}
	points := make([]YearlyPoint, 0, len(revenue))
	for year, cents := range revenue {
		points = append(points, YearlyPoint{
			Year:    year,
			Revenue: core.Money{Cents: cents},
			Orders:  len(orders[year]),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// groupRevenue sums revenue cents per key, returning keys in first
// appearance order so ranked views can break ties stably.
func groupRevenue(rows []core.Row, key func(core.Row) string) ([]string, map[string]int64) {
	sums := make(map[string]int64)
	order := make([]string, 0)
	for _, r := range rows {
		k := key(r)
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += r.TotalPrice.Cents
	}
	return order, sums
}
