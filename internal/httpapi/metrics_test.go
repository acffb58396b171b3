package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nlpd/internal/worker"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rr := get(h, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rr.Code)
	}
	return rr.Body.String()
}

func TestMetricsUseRoutePattern(t *testing.T) {
	h := NewMux(&mockService{}, &mockHistory{})
	get(h, "/v1/analyses/a1")
	body := scrape(t, h)
	if !strings.Contains(body, `nlpd_http_requests_total{method="GET",path="/v1/analyses/{id}",status="200"}`) {
		t.Fatalf("route pattern label missing from metrics:\n%s", body)
	}
	if strings.Contains(body, `path="/v1/analyses/a1"`) {
		t.Fatalf("raw path leaked into labels")
	}
}

func TestBackpressureCounted(t *testing.T) {
	h := NewMux(&mockService{err: worker.ErrQueueFull}, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/sentiment", strings.NewReader(`{"texts":["a"]}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d", rr.Code)
	}
	if !strings.Contains(scrape(t, h), `nlpd_http_backpressure_total{reason="queue_full"}`) {
		t.Fatalf("backpressure counter missing")
	}
}
