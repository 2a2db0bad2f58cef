package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetrics_Usable verifies that metrics can be used without panic and that label
// dimensions match usage in the http and service packages.
func TestMetrics_Usable(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/api/weather-data", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/api/weather-data").Observe(0.01)
	RecordResolution(ResolutionExact)
	RecordResolution(ResolutionFuzzy)
	RecordResolution(ResolutionMiss)
	RecordDatasetLoad(5*time.Millisecond, true)
	RecordDatasetLoad(time.Millisecond, false)
	RecordSyntheticColumn("year")
	RecordWeatherDataOutcome("ok")
	RateLimitDeniedTotal.Inc()
	RegisterRateLimitGauges(time.Minute)
	RegisterRateLimitGauges(time.Minute) // second call is a no-op
}

func TestRecordResolution_Increments(t *testing.T) {
	before := testutil.ToFloat64(DatasetResolutionsTotal.WithLabelValues(ResolutionFuzzy))
	RecordResolution(ResolutionFuzzy)
	after := testutil.ToFloat64(DatasetResolutionsTotal.WithLabelValues(ResolutionFuzzy))
	if after-before != 1 {
		t.Errorf("fuzzy resolutions delta = %v, want 1", after-before)
	}
}

// TestMetricsHandler_ServesPrometheusFormat verifies that MetricsHandler serves
// Prometheus text exposition format with correct HTTP status and metric output.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/health", "2xx").Inc()

	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "httpRequestsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
}
