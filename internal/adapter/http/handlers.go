package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/couchcryptid/soundscape-telemetry/internal/domain"
)

const (
	defaultReportLimit = 50
	maxReportLimit     = 500
	maxReportBody      = 64 << 10
)

type snapshotResponse struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	Loading  bool            `json:"loading"`
	Error    string          `json:"error,omitempty"`
	State    string          `json:"state"`
}

func (s *Server) currentResponse() snapshotResponse {
	snap, loading := s.deps.Source.Current()
	resp := snapshotResponse{
		Snapshot: snap,
		Loading:  loading,
		State:    s.deps.Source.State().String(),
	}
	if err := s.deps.Source.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.currentResponse())
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if _, err := s.deps.Source.Refresh(); err != nil {
		s.logger.Error("manual refresh failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, s.currentResponse())
		return
	}
	writeJSON(w, http.StatusOK, s.currentResponse())
}

func (s *Server) handleViewNames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"views": domain.ViewNames()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	snap, _ := s.deps.Source.Current()

	view, err := domain.View(snap, category)
	if errors.Is(err, domain.ErrUnknownView) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category":  category,
		"timestamp": snap.Timestamp,
		"data":      view,
	})
}

func (s *Server) handleQuietZones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var maxLevel float64
	if v := q.Get("max_level"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || !(parsed >= 0) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid max_level %q", v))
			return
		}
		maxLevel = parsed
	}

	var origin *domain.Coordinates
	if q.Has("lat") || q.Has("lon") {
		c, err := parseCoordinates(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		origin = &c
	}

	zones := domain.FilterQuietZones(s.deps.QuietZones, maxLevel, origin)
	writeJSON(w, http.StatusOK, map[string]any{
		"zones": zones,
		"count": len(zones),
	})
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	c, err := parseCoordinates(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, _ := s.deps.Source.Current()
	reading, err := domain.Locate(r.Context(), snap, c, s.deps.Geocoder, s.logger)
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinates):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrNoReadings):
		writeError(w, http.StatusServiceUnavailable, err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, err)
	default:
		writeJSON(w, http.StatusOK, reading)
	}
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var in domain.ReportSubmission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReportBody))
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode report: %w", err))
		return
	}

	report, err := domain.NewReport(in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	report = domain.EnrichReport(r.Context(), report, s.deps.Geocoder, s.logger)

	if err := s.deps.Reports.Save(r.Context(), report); err != nil {
		s.logger.Error("save noise report failed", "report_id", report.ID, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to save report"))
		return
	}

	s.deps.Metrics.ReportsSubmitted.WithLabelValues(report.Type).Inc()
	s.logger.Info("noise report submitted",
		"report_id", report.ID,
		"type", report.Type,
		"level", report.Level,
		"geo_source", report.GeoSource,
	)
	writeJSON(w, http.StatusCreated, report)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := defaultReportLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = min(n, maxReportLimit)
	}

	reports, err := s.deps.Reports.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list noise reports failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to list reports"))
		return
	}
	if reports == nil {
		reports = []domain.NoiseReport{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

// parseCoordinates reads the lat and lon query parameters; both are required.
func parseCoordinates(r *http.Request) (domain.Coordinates, error) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		return domain.Coordinates{}, fmt.Errorf("%w: lat and lon are required", domain.ErrInvalidCoordinates)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: lat %q is not a number", domain.ErrInvalidCoordinates, latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: lon %q is not a number", domain.ErrInvalidCoordinates, lonStr)
	}
	c := domain.Coordinates{Lat: lat, Lon: lon}
	return c, c.Validate()
}
