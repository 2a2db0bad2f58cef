package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/climate-trends-service/internal/dataset"
	"github.com/kjstillabower/climate-trends-service/internal/lifecycle"
	"github.com/kjstillabower/climate-trends-service/internal/models"
	"github.com/kjstillabower/climate-trends-service/internal/observability"
	"github.com/kjstillabower/climate-trends-service/internal/traffic"
	"github.com/kjstillabower/climate-trends-service/internal/validation"
)

// WeatherDataService is the pipeline behind the API routes.
type WeatherDataService interface {
	GetWeatherData(ctx context.Context, q validation.Query) (models.WeatherResponse, error)
	Cities(ctx context.Context) ([]string, error)
}

// HealthConfig holds thresholds for the health handler.
type HealthConfig struct {
	OverloadWindow       time.Duration
	OverloadThresholdPct int
	RateLimitRPS         int // 0 when rate limiter disabled
	DegradedWindow       time.Duration
	DegradedErrorPct     int
	DataDir              string
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	service          WeatherDataService
	healthConfig     *HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. healthConfig may be nil, in which case /health only
// reports shutdown.
func NewHandler(service WeatherDataService, healthConfig *HealthConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service:      service,
		healthConfig: healthConfig,
		logger:       logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetWeatherData handles GET /api/weather-data?state=&city=.
func (h *Handler) GetWeatherData(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerFromContext(r.Context())

	q, err := validation.QueryFromValues(r.URL.Query())
	if err != nil {
		logger.Debug("rejected weather data request", zap.Error(err))
		h.finishWeatherData(traffic.Rejected, "invalid")
		writeError(w, r, http.StatusBadRequest, validation.MissingQueryMessage)
		return
	}

	resp, err := h.service.GetWeatherData(r.Context(), q)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			logger.Debug("no dataset for city", zap.String("city", q.City))
			h.finishWeatherData(traffic.Rejected, "not_found")
			writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		logger.Error("weather data processing failed", zap.String("city", q.City), zap.Error(err))
		h.finishWeatherData(traffic.Failed, "error")
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	if status := writeJSON(w, r, http.StatusOK, resp); status != http.StatusOK {
		h.finishWeatherData(traffic.Failed, "error")
		return
	}
	h.finishWeatherData(traffic.Served, "ok")
}

func (h *Handler) finishWeatherData(o traffic.Outcome, label string) {
	traffic.Record(o)
	observability.RecordWeatherDataOutcome(label)
}

// GetCities handles GET /api/cities.
func (h *Handler) GetCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.Cities(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("list cities", zap.Error(err))
		traffic.Record(traffic.Failed)
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if cities == nil {
		cities = []string{}
	}
	traffic.Record(traffic.Served)
	writeJSON(w, r, http.StatusOK, models.CitiesResponse{Cities: cities})
}

type healthResult struct {
	status     string
	statusCode int
	reason     string
}

type healthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
	Timestamp string            `json:"timestamp"`
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	dataDirOK := true
	if h.healthConfig != nil && h.healthConfig.DataDir != "" {
		if _, err := os.ReadDir(h.healthConfig.DataDir); err != nil {
			dataDirOK = false
			checks["dataDir"] = "unhealthy"
		} else {
			checks["dataDir"] = "healthy"
		}
	}

	result := h.computeHealthStatus(dataDirOK)

	h.healthStatusMu.Lock()
	if prev := h.healthStatusPrev; prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	writeJSON(w, r, result.statusCode, healthResponse{
		Status:    result.status,
		Service:   observability.ServiceName,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates conditions in priority order:
// shutting-down > overloaded > degraded > healthy.
func (h *Handler) computeHealthStatus(dataDirOK bool) healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	cfg := h.healthConfig
	if cfg == nil {
		return healthResult{"healthy", http.StatusOK, ""}
	}

	// Requests on the limited path (denials included) against a share of limiter capacity.
	if cfg.RateLimitRPS > 0 && cfg.OverloadWindow > 0 {
		threshold := float64(cfg.RateLimitRPS) * cfg.OverloadWindow.Seconds() * float64(cfg.OverloadThresholdPct) / 100
		if float64(traffic.RequestCount(cfg.OverloadWindow)) > threshold {
			return healthResult{"overloaded", http.StatusServiceUnavailable, "overload_threshold"}
		}
	}

	if !dataDirOK {
		return healthResult{"degraded", http.StatusServiceUnavailable, "data_dir_unreadable"}
	}
	if cfg.DegradedWindow > 0 && cfg.DegradedErrorPct > 0 {
		failed, total := traffic.FailureRate(cfg.DegradedWindow)
		if total > 0 && float64(failed)*100/float64(total) >= float64(cfg.DegradedErrorPct) {
			return healthResult{"degraded", http.StatusServiceUnavailable, "error_rate_breach"}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON encodes v before touching the response so an unencodable value (NaN, ±Inf)
// becomes a 500 instead of a truncated 200. Returns the status actually written.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) int {
	body, err := json.Marshal(v)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error("encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return status
}

// writeError writes {"error": message} with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Error: message})
}
