package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pizzapulse/internal/core"
	"pizzapulse/internal/storage"
)

const filterDateLayout = "2006-01-02"

// parseFilter builds the report filter from query parameters:
// category (optional), start and end (optional, both required
// together, YYYY-MM-DD, inclusive).
func parseFilter(query url.Values) (core.Filter, error) {
	f := core.Filter{
		Category: strings.TrimSpace(query.Get("category")),
	}

	startStr := strings.TrimSpace(query.Get("start"))
	endStr := strings.TrimSpace(query.Get("end"))
	if startStr == "" && endStr == "" {
		return f, nil
	}
	if startStr == "" || endStr == "" {
		return core.Filter{}, errors.New("start and end must be provided together")
	}

	start, err := time.Parse(filterDateLayout, startStr)
	if err != nil {
		return core.Filter{}, fmt.Errorf("invalid start date %q: expected YYYY-MM-DD", startStr)
	}
	end, err := time.Parse(filterDateLayout, endStr)
	if err != nil {
		return core.Filter{}, fmt.Errorf("invalid end date %q: expected YYYY-MM-DD", endStr)
	}
	if end.Before(start) {
		return core.Filter{}, errors.New("end date must not precede start date")
	}

	f.Dates = &core.DateRange{Start: start.UTC(), End: end.UTC()}
	return f, nil
}

// readUpload extracts the CSV bytes from a request, accepting either a
// raw body or a multipart form with a "file" field.
func readUpload(r *http.Request, maxBytes int64) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing multipart field %q: %w", "file", err)
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read upload: %w", err)
		}
		if int64(len(data)) > maxBytes {
			return nil, fmt.Errorf("upload exceeds the %d byte limit", maxBytes)
		}
		return data, nil
	}

	return io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBytes))
}

// clientIP extracts the originating client IP, honoring proxies.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx > 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusForError maps pipeline errors to HTTP statuses: missing input
// is a bad request, schema and parse failures are unprocessable,
// unknown datasets are not found.
func statusForError(err error) int {
	var (
		schemaErr *core.SchemaError
		parseErr  *core.ParseError
	)
	switch {
	case errors.Is(err, core.ErrNoInput):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr), errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrDatasetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
