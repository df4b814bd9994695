package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/services"
)

type stubSystemService struct {
	report domain.SystemHealthReport
	err    error
}

func (s *stubSystemService) HealthReport(context.Context) (domain.SystemHealthReport, error) {
	return s.report, s.err
}

var _ services.SystemService = (*stubSystemService)(nil)

type healthProbeResult struct {
	status int
	body   struct {
		Status      string   `json:"status"`
		Version     string   `json:"version"`
		CommitSHA   string   `json:"commitSha"`
		Environment string   `json:"environment"`
		Details     []string `json:"details"`
		Checks      map[string]struct {
			Status string `json:"status"`
		} `json:"checks"`
	}
}

func probeHealth(t *testing.T, h *HealthHandlers, path string) healthProbeResult {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	switch path {
	case "/healthz":
		h.Healthz(rr, req)
	case "/readyz":
		h.Readyz(rr, req)
	default:
		t.Fatalf("unknown probe path %s", path)
	}

	result := healthProbeResult{status: rr.Code}
	if err := json.Unmarshal(rr.Body.Bytes(), &result.body); err != nil {
		t.Fatalf("probe %s returned invalid JSON: %v", path, err)
	}
	return result
}

func TestHealthzReportsBuildMetadata(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHealthHandlers(
		WithHealthBuildInfo(services.BuildInfo{
			Version:     "1.0.0",
			CommitSHA:   "abc123",
			Environment: "prod",
			StartedAt:   start,
		}),
		WithHealthClock(func() time.Time { return start.Add(30 * time.Second) }),
	)

	got := probeHealth(t, h, "/healthz")
	if got.status != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", got.status)
	}
	if got.body.Status != domain.HealthStatusOK {
		t.Errorf("status field = %q, want ok", got.body.Status)
	}
	if got.body.Version != "1.0.0" || got.body.CommitSHA != "abc123" || got.body.Environment != "prod" {
		t.Errorf("unexpected build metadata %s/%s/%s", got.body.Version, got.body.CommitSHA, got.body.Environment)
	}
}

func TestReadyzReflectsDependencyState(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC)
	cases := []struct {
		name        string
		report      domain.SystemHealthReport
		wantStatus  int
		wantDetails []string
	}{
		{
			name: "all dependencies healthy",
			report: domain.SystemHealthReport{
				Status:      domain.HealthStatusOK,
				Version:     "1.0.0",
				Uptime:      time.Minute,
				GeneratedAt: now,
				Checks: map[string]domain.SystemHealthCheck{
					"firestore": {Status: domain.HealthStatusOK, Latency: 10 * time.Millisecond, CheckedAt: now},
				},
			},
			wantStatus:  http.StatusOK,
			wantDetails: nil,
		},
		{
			name: "degraded dependency returns 503 with details",
			report: domain.SystemHealthReport{
				Status: domain.HealthStatusDegraded,
				Checks: map[string]domain.SystemHealthCheck{
					"pubsub": {Status: domain.HealthStatusDegraded, Error: "publish failed"},
				},
			},
			wantStatus:  http.StatusServiceUnavailable,
			wantDetails: []string{"pubsub: publish failed"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandlers(
				WithHealthSystemService(&stubSystemService{report: tc.report}),
				WithHealthClock(func() time.Time { return now }),
			)

			got := probeHealth(t, h, "/readyz")
			if got.status != tc.wantStatus {
				t.Fatalf("readyz status = %d, want %d", got.status, tc.wantStatus)
			}
			if got.body.Status != tc.report.Status {
				t.Errorf("status field = %q, want %q", got.body.Status, tc.report.Status)
			}
			if len(got.body.Details) != len(tc.wantDetails) {
				t.Fatalf("details = %v, want %v", got.body.Details, tc.wantDetails)
			}
			for i, want := range tc.wantDetails {
				if got.body.Details[i] != want {
					t.Errorf("details[%d] = %q, want %q", i, got.body.Details[i], want)
				}
			}
			for name, check := range tc.report.Checks {
				if got.body.Checks[name].Status != check.Status {
					t.Errorf("check %s status = %q, want %q", name, got.body.Checks[name].Status, check.Status)
				}
			}
		})
	}
}

func TestReadyzWithoutSystemServiceActsAsLiveness(t *testing.T) {
	h := NewHealthHandlers(
		WithHealthClock(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }),
	)

	got := probeHealth(t, h, "/readyz")
	if got.status != http.StatusOK {
		t.Fatalf("readyz status = %d, want 200", got.status)
	}
}
