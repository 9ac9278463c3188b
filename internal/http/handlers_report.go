package http

import (
	"net/http"
	"time"

	"pizzapulse/internal/log"
	"pizzapulse/internal/report"
)

// handleReport computes the full snapshot for a dataset under the
// filter given in the query string.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, err := s.sessions.Get(ctx, r.PathValue("key"))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	start := time.Now()
	snap, err := report.BuildSnapshot(ctx, ds, filter)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Snapshot computation failed",
			log.FieldOperation, log.OpReport,
			log.FieldDatasetKey, ds.Key,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "report computation failed")
		return
	}
	if s.metrics != nil {
		s.metrics.ReportsTotal.WithLabelValues("snapshot").Inc()
		s.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	}

	writeJSON(w, http.StatusOK, snap)
}

// handleReportView computes a single named view. Every view except
// "years" honors the filter; "years" always runs on the full dataset
// so cross-year comparison stays meaningful.
func (s *Server) handleReportView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := r.PathValue("view")

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, err := s.sessions.Get(ctx, r.PathValue("key"))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	subset := report.ApplyFilter(ds.Rows, filter)

	var result any
	switch view {
	case "metrics":
		result = report.Metrics(subset)
	case "hourly":
		result = report.HourlyTrend(subset)
	case "weekly":
		result = report.WeeklyTrend(subset)
	case "monthly":
		result = report.MonthlyRevenue(subset)
	case "categories":
		result = report.CategorySplit(subset)
	case "sizes":
		result = report.SizeSplit(subset)
	case "top":
		result = report.TopPizzas(subset, report.DefaultTopN)
	case "bottom":
		result = report.BottomPizzas(subset, report.DefaultTopN)
	case "years":
		result = report.YearlyComparison(ds.Rows)
	default:
		writeError(w, http.StatusNotFound, "unknown report view: "+view)
		return
	}

	if s.metrics != nil {
		s.metrics.ReportsTotal.WithLabelValues(view).Inc()
	}
	log.FromContext(ctx).DebugContext(ctx, "Report view computed",
		log.FieldView, view,
		log.FieldDatasetKey, ds.Key,
		log.FieldCategory, filter.Category)

	writeJSON(w, http.StatusOK, result)
}
