package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/xlov-lab/experience-api/internal/domain"
)

func routerErrorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON error body: %v", err)
	}
	code, _ := body["error"].(string)
	return code
}

func TestRouterMountsHealthAndProgramGroups(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	health := NewHealthHandlers(
		WithHealthSystemService(&stubSystemService{
			report: domain.SystemHealthReport{
				Status:      domain.HealthStatusOK,
				Uptime:      5 * time.Second,
				GeneratedAt: now,
				Checks: map[string]domain.SystemHealthCheck{
					"firestore": {Status: domain.HealthStatusOK},
				},
			},
		}),
		WithHealthClock(func() time.Time { return now }),
	)
	router := NewRouter(WithHealthHandlers(health))

	cases := []struct {
		path       string
		wantStatus int
		wantCode   string
	}{
		{path: "/healthz", wantStatus: http.StatusOK},
		{path: "/readyz", wantStatus: http.StatusOK},
		{path: "/api/v1/spectrum", wantStatus: http.StatusNotImplemented, wantCode: "not_implemented"},
		{path: "/api/v1/canvas/portrait", wantStatus: http.StatusNotImplemented, wantCode: "not_implemented"},
		{path: "/api/v1/mirror", wantStatus: http.StatusNotImplemented, wantCode: "not_implemented"},
		{path: "/does/not/exist", wantStatus: http.StatusNotFound, wantCode: errorNotFoundCode},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if rr.Code != tc.wantStatus {
				t.Fatalf("GET %s = %d, want %d", tc.path, rr.Code, tc.wantStatus)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("GET %s content-type = %s, want application/json", tc.path, ct)
			}
			if tc.wantCode != "" {
				if code := routerErrorCode(t, rr); code != tc.wantCode {
					t.Errorf("GET %s error code = %q, want %q", tc.path, code, tc.wantCode)
				}
			}
		})
	}
}

func TestRouterUsesConfiguredRegistrars(t *testing.T) {
	router := NewRouter(WithStatsRoutes(func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	}))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("GET /api/v1/stats = %d, want 204", rr.Code)
	}
}
