package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRegistration(nil)
	m.ObserveRegistration(errors.New("bad table"))
	m.ObserveVerdict("ones", true)
	m.ObserveVerdict("ones", true)
	m.ObserveVerdict("ones", false)
	m.ObserveQuery("ones", "read", time.Now(), nil)

	if got := testutil.ToFloat64(m.registrations.WithLabelValues("accepted")); got != 1 {
		t.Errorf("Expected 1 accepted registration, got %v", got)
	}
	if got := testutil.ToFloat64(m.registrations.WithLabelValues("rejected")); got != 1 {
		t.Errorf("Expected 1 rejected registration, got %v", got)
	}
	if got := testutil.ToFloat64(m.verdicts.WithLabelValues("ones", "accepted")); got != 2 {
		t.Errorf("Expected 2 accepted verdicts, got %v", got)
	}
	if got := testutil.ToFloat64(m.verdicts.WithLabelValues("ones", "rejected")); got != 1 {
		t.Errorf("Expected 1 rejected verdict, got %v", got)
	}
	if got := testutil.ToFloat64(m.queries.WithLabelValues("ones", "read", "ok")); got != 1 {
		t.Errorf("Expected 1 ok read, got %v", got)
	}
}

func TestMetrics_Middleware(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/machines/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/machines/ones", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	// Requests are labeled by route pattern, not by concrete path.
	got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/machines/{name}", "404"))
	if got != 1 {
		t.Errorf("Expected 1 request for the pattern, got %v", got)
	}
}

func TestMetrics_HandlerExposition(t *testing.T) {
	m := New()
	m.ObserveVerdict("ones", true)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "espalier_test_verdicts_total") {
		t.Errorf("Expected exposition to include verdict counter, got:\n%s", body)
	}
}
