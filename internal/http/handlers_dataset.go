package http

import (
	"net/http"
	"time"

	"pizzapulse/internal/log"
)

// uploadResponse is returned by the dataset upload endpoint.
type uploadResponse struct {
	Key    string `json:"key"`
	Rows   int    `json:"rows"`
	Cached bool   `json:"cached"`
}

// handleUpload ingests a CSV upload into a normalized dataset. The
// response distinguishes a fresh ingest (201) from a content-hash hit
// on an already known dataset (200).
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	if !s.limiter.allow(clientIP(r)) {
		logger.WarnContext(ctx, "Upload rate limit exceeded", log.FieldClientIP, clientIP(r))
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	raw, err := readUpload(r, s.maxUploadBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	ds, cached, err := s.sessions.Ingest(ctx, raw)
	if err != nil {
		status := statusForError(err)
		if s.metrics != nil {
			result := "error"
			if status < http.StatusInternalServerError {
				result = "invalid"
			}
			s.metrics.IngestsTotal.WithLabelValues(result).Inc()
		}
		logger.WarnContext(ctx, "Dataset ingest failed",
			log.FieldOperation, log.OpIngest,
			log.FieldError, err.Error())
		writeError(w, status, err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.IngestsTotal.WithLabelValues("ok").Inc()
		s.metrics.IngestDuration.Observe(time.Since(start).Seconds())
		if cached {
			s.metrics.CacheHits.Inc()
		} else {
			s.metrics.CacheMisses.Inc()
		}
	}

	logger.InfoContext(ctx, "Dataset ingested",
		log.FieldOperation, log.OpIngest,
		log.FieldDatasetKey, ds.Key,
		log.FieldRows, len(ds.Rows),
		log.FieldCacheHit, cached)

	status := http.StatusCreated
	if cached {
		status = http.StatusOK
	}
	writeJSON(w, status, uploadResponse{Key: ds.Key, Rows: len(ds.Rows), Cached: cached})
}

// handleListDatasets returns the registry listing.
func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	infos, err := s.sessions.List(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Dataset listing failed",
			log.FieldOperation, log.OpList,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "dataset listing failed")
		return
	}
	writeJSON(w, http.StatusOK, infos)
}
