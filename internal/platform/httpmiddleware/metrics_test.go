package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"linkcut.local/gee"
	"linkcut.local/internal/platform/metrics"
)

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := gee.New()
	r.Use(Metrics(), TraceName())
	r.GET("/m/:code", func(ctx *gee.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	matched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/m/:code", "200")
	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "UNMATCHED", "404")
	beforeMatched := testutil.ToFloat64(matched)
	beforeUnmatched := testutil.ToFloat64(unmatched)

	for _, path := range []string{"/m/a", "/m/b", "/nope/x"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(matched) - beforeMatched; got != 2 {
		t.Fatalf("matched requests: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(unmatched) - beforeUnmatched; got != 1 {
		t.Fatalf("unmatched requests: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPInflightRequests); got != 0 {
		t.Fatalf("inflight: got %v, want 0", got)
	}
}
