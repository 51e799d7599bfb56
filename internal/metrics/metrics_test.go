package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// scrape renders the registry through the HTTP handler and returns the body.
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)
	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read scrape body: %v", err)
	}
	return string(body)
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("weather", 120*time.Millisecond, nil)
	m.ObserveRequest("weather", 80*time.Millisecond, errors.New("503"))
	m.ObserveRequest("simulation", 600*time.Millisecond, nil)

	body := scrape(t, m)
	for _, want := range []string{
		`terrasim_requests_total{operation="weather",outcome="success"} 1`,
		`terrasim_requests_total{operation="weather",outcome="failure"} 1`,
		`terrasim_requests_total{operation="simulation",outcome="success"} 1`,
		`terrasim_request_duration_seconds_count{operation="weather"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestActiveRequestsGauge(t *testing.T) {
	m := New()

	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()

	if body := scrape(t, m); !strings.Contains(body, "terrasim_active_requests 1") {
		t.Errorf("scrape missing the active-requests gauge:\n%s", body)
	}
}

func TestCountSimulation(t *testing.T) {
	m := New()

	m.CountSimulation("Low")
	m.CountSimulation("Low")
	m.CountSimulation("High")

	body := scrape(t, m)
	for _, want := range []string{
		`terrasim_simulations_total{risk_level="Low"} 2`,
		`terrasim_simulations_total{risk_level="High"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

// Each Metrics value owns a private registry, so two instances never collide
// the way default-registry registration would.
func TestIndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.CountSimulation("Low")
	if body := scrape(t, b); strings.Contains(body, `terrasim_simulations_total{risk_level="Low"}`) {
		t.Error("second registry observed the first registry's series")
	}
}
