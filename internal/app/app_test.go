package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Krish00711/TerraSim/internal/errors"
	"github.com/Krish00711/TerraSim/internal/planning"
)

// newBackendServer serves the three workflow endpoints with canned payloads.
func newBackendServer(t *testing.T, simStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/crops", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]planning.Crop{
			{ID: "1", Name: "Wheat", Category: "cereal"},
		})
	})
	mux.HandleFunc("/api/weather", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(planning.WeatherSnapshot{Temp: 21, Humidity: 58, Rainfall: 1.1, Wind: 9})
	})
	mux.HandleFunc("/api/simulate", func(w http.ResponseWriter, r *http.Request) {
		if simStatus != http.StatusOK {
			http.Error(w, "engine overloaded", simStatus)
			return
		}
		json.NewEncoder(w).Encode(planning.SimulationResult{
			SuccessProbability: 0.837,
			ExpectedYield:      3400,
			RiskLevel:          "Low",
			Explanation:        "stable conditions",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestApp builds an Application from arguments with the session profile
// isolated in a temp directory.
func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	argv := append([]string{"terrasim"}, args...)
	argv = append(argv, "--profile", filepath.Join(t.TempDir(), "profile.yaml"), "--no-color")
	application, err := New(argv, &errBuf)
	if err != nil {
		t.Fatalf("New() error = %v (stderr: %s)", err, errBuf.String())
	}
	return application, &errBuf
}

func TestRunPipeline(t *testing.T) {
	srv := newBackendServer(t, http.StatusOK)

	application, errBuf := newTestApp(t,
		"--endpoint", srv.URL,
		"--crop", "wheat",
		"--terrain", "valley",
		"--lat", "45.5", "--lon", "-73.6",
	)

	var out bytes.Buffer
	code := application.Run(context.Background(), &out)
	if code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, want %d (stderr: %s)", code, apperrors.ExitSuccess, errBuf.String())
	}

	output := out.String()
	for _, want := range []string{"83.7%", "3400", "Low", "stable conditions"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRunPipeline_QuietShowsOnlyResult(t *testing.T) {
	srv := newBackendServer(t, http.StatusOK)

	application, _ := newTestApp(t,
		"--endpoint", srv.URL,
		"--crop", "wheat",
		"--lat", "45.5", "--lon", "-73.6",
		"--quiet",
	)

	var out bytes.Buffer
	if code := application.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d", code)
	}
	if strings.Contains(out.String(), "Fetching") {
		t.Errorf("quiet output still shows step progress:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "83.7%") {
		t.Errorf("quiet output missing the result:\n%s", out.String())
	}
}

func TestRunPipeline_SimulationFailure(t *testing.T) {
	srv := newBackendServer(t, http.StatusServiceUnavailable)

	application, errBuf := newTestApp(t,
		"--endpoint", srv.URL,
		"--crop", "wheat",
		"--lat", "45.5", "--lon", "-73.6",
		"--skip-weather",
	)

	var out bytes.Buffer
	code := application.Run(context.Background(), &out)
	if code != apperrors.ExitErrorRequest {
		t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorRequest)
	}
	if errBuf.Len() == 0 {
		t.Error("no diagnostic written to stderr")
	}
}

func TestRunPipeline_MissingInputs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no endpoint", args: []string{"--crop", "wheat"}},
		{name: "no crop", args: []string{"--endpoint", "http://localhost:5000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			application, errBuf := newTestApp(t, tt.args...)
			var out bytes.Buffer
			code := application.Run(context.Background(), &out)
			if code != apperrors.ExitErrorConfig {
				t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorConfig)
			}
			if !strings.Contains(errBuf.String(), "required") {
				t.Errorf("stderr = %q, want a required-input message", errBuf.String())
			}
		})
	}
}

func TestRunPipeline_LocationDenied(t *testing.T) {
	srv := newBackendServer(t, http.StatusOK)

	// No --lat/--lon and no locate command: the location step must fail
	// with the location exit code before any simulation happens.
	application, _ := newTestApp(t,
		"--endpoint", srv.URL,
		"--crop", "wheat",
	)

	var out bytes.Buffer
	code := application.Run(context.Background(), &out)
	if code != apperrors.ExitErrorLocation {
		t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorLocation)
	}
}

func TestNew_InvalidArguments(t *testing.T) {
	var errBuf bytes.Buffer
	if _, err := New([]string{"terrasim", "--terrain", "swamp"}, &errBuf); err == nil {
		t.Error("New() accepted an unknown terrain")
	}
	if _, err := New([]string{"terrasim", "--definitely-not-a-flag"}, &errBuf); err == nil {
		t.Error("New() accepted an unknown flag")
	}
}

func TestHasVersionFlag(t *testing.T) {
	if !HasVersionFlag([]string{"--version"}) {
		t.Error("HasVersionFlag missed --version")
	}
	if HasVersionFlag([]string{"--verbose"}) {
		t.Error("HasVersionFlag matched --verbose")
	}

	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.Contains(buf.String(), "terrasim") {
		t.Errorf("PrintVersion output = %q", buf.String())
	}
}
