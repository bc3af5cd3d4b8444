package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", m.Handler())

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/ping", http.MethodGet, "200")); got != 3 {
		t.Fatalf("expected 3 requests, got %v", got)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Fatalf("exposition missing request counter:\n%s", w.Body.String())
	}
}

func TestRecordWrite(t *testing.T) {
	m := New()
	m.RecordWrite(true, 2, 3, 1)
	m.RecordWrite(false, 0, 0, 2)
	if got := testutil.ToFloat64(m.LinksCreated); got != 1 {
		t.Fatalf("links: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.FieldsCreated); got != 2 {
		t.Fatalf("fields: expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.ValuesWritten.WithLabelValues("updated")); got != 3 {
		t.Fatalf("updated values: expected 3, got %v", got)
	}
}
