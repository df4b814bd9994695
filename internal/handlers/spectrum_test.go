package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/services"
	"github.com/xlov-lab/experience-api/internal/spectrum"
)

type stubSpectrumService struct {
	analyzeFunc func(ctx context.Context, answers domain.AnswerSet) (services.SpectrumAnalysis, error)
}

func (s *stubSpectrumService) Analyze(ctx context.Context, answers domain.AnswerSet) (services.SpectrumAnalysis, error) {
	if s.analyzeFunc != nil {
		return s.analyzeFunc(ctx, answers)
	}
	return services.SpectrumAnalysis{}, nil
}

func sampleAnalysis() services.SpectrumAnalysis {
	return services.SpectrumAnalysis{
		Result: domain.SpectrumResult{
			Axes: []domain.AxisScore{
				{Axis: domain.Axis{ID: domain.AxisLight, Label: "빛", LeftLabel: "달빛", RightLabel: "햇빛"}, Value: 72},
			},
			Archetype: domain.Archetype{Key: "blazing_lava", Name: "타오르는 라바", Emoji: "🔥"},
			Match: domain.MemberMatch{
				SoulMate: domain.MemberMatchItem{MemberID: "umuti", Percentage: 91, ClosestAxis: "빛"},
				Hidden:   domain.MemberMatchItem{MemberID: "haru", Percentage: 78, ClosestAxis: "온도"},
				Opposite: domain.MemberMatchItem{MemberID: "rui", Percentage: 34, ClosestAxis: "질감"},
				Ranked: []domain.MemberMatchItem{
					{MemberID: "umuti", Percentage: 91},
					{MemberID: "haru", Percentage: 78},
					{MemberID: "hyun", Percentage: 55},
					{MemberID: "rui", Percentage: 34},
				},
			},
		},
		Scent: domain.ScentRecipe{Name: "Blazing Horizon"},
		Personality: domain.PersonalityAnalysis{
			Scenarios: domain.PersonalityScenarios{Conflict: "정면돌파 🔥"},
			Chemistry: domain.ChemistryStory{Travel: "바다로 🌊"},
		},
	}
}

func TestSpectrumHandlersAnalyze_Success(t *testing.T) {
	var received domain.AnswerSet
	svc := &stubSpectrumService{
		analyzeFunc: func(_ context.Context, answers domain.AnswerSet) (services.SpectrumAnalysis, error) {
			received = answers
			return sampleAnalysis(), nil
		},
	}

	handler := NewSpectrumHandlers(svc)
	body := bytes.NewBufferString(`{"answers":{"light-1":2,"light-2":-1}}`)
	req := httptest.NewRequest(http.MethodPost, "/spectrum/analyze", body)
	resp := httptest.NewRecorder()

	handler.analyze(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if received["light-1"] != 2 || received["light-2"] != -1 {
		t.Fatalf("unexpected answers forwarded: %v", received)
	}

	var payload analyzeSpectrumResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected JSON response: %v", err)
	}
	if payload.Result.Archetype.Key != "blazing_lava" {
		t.Fatalf("expected blazing_lava archetype, got %s", payload.Result.Archetype.Key)
	}
	if payload.Result.MemberMatch.SoulMate.MemberID != "umuti" {
		t.Fatalf("expected umuti soul mate, got %s", payload.Result.MemberMatch.SoulMate.MemberID)
	}
	if len(payload.Result.MemberMatch.Ranked) != 4 {
		t.Fatalf("expected 4 ranked entries, got %d", len(payload.Result.MemberMatch.Ranked))
	}
	if payload.Scent.Name != "Blazing Horizon" {
		t.Fatalf("unexpected scent name %s", payload.Scent.Name)
	}
	if payload.Personality.Scenarios.Conflict == "" {
		t.Fatal("expected populated scenarios")
	}
}

func TestSpectrumHandlersAnalyze_InvalidJSON(t *testing.T) {
	handler := NewSpectrumHandlers(&stubSpectrumService{})
	req := httptest.NewRequest(http.MethodPost, "/spectrum/analyze", bytes.NewBufferString("{not json"))
	resp := httptest.NewRecorder()

	handler.analyze(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if body["error"] != "invalid_request" {
		t.Fatalf("expected invalid_request, got %v", body["error"])
	}
}

func TestSpectrumHandlersAnalyze_NoAnswers(t *testing.T) {
	svc := &stubSpectrumService{
		analyzeFunc: func(context.Context, domain.AnswerSet) (services.SpectrumAnalysis, error) {
			return services.SpectrumAnalysis{}, spectrum.ErrNoAnswers
		},
	}

	handler := NewSpectrumHandlers(svc)
	req := httptest.NewRequest(http.MethodPost, "/spectrum/analyze", bytes.NewBufferString(`{"answers":{}}`))
	resp := httptest.NewRecorder()

	handler.analyze(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestSpectrumHandlersAnalyze_InvalidAnswer(t *testing.T) {
	svc := &stubSpectrumService{
		analyzeFunc: func(context.Context, domain.AnswerSet) (services.SpectrumAnalysis, error) {
			return services.SpectrumAnalysis{}, &spectrum.InvalidAnswerError{QuestionID: "light-1", Value: 9, Reason: "value out of range"}
		},
	}

	handler := NewSpectrumHandlers(svc)
	req := httptest.NewRequest(http.MethodPost, "/spectrum/analyze", bytes.NewBufferString(`{"answers":{"light-1":9}}`))
	resp := httptest.NewRecorder()

	handler.analyze(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if body["error"] != "invalid_answer" {
		t.Fatalf("expected invalid_answer, got %v", body["error"])
	}
}

func TestSpectrumHandlersAnalyze_GenerationFailure(t *testing.T) {
	svc := &stubSpectrumService{
		analyzeFunc: func(context.Context, domain.AnswerSet) (services.SpectrumAnalysis, error) {
			return services.SpectrumAnalysis{}, &services.GenerationError{Stage: "scent", Err: errors.New("model unavailable")}
		},
	}

	handler := NewSpectrumHandlers(svc)
	req := httptest.NewRequest(http.MethodPost, "/spectrum/analyze", bytes.NewBufferString(`{"answers":{"light-1":2}}`))
	resp := httptest.NewRecorder()

	handler.analyze(resp, req)

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if body["error"] != "generation_failed" {
		t.Fatalf("expected generation_failed, got %v", body["error"])
	}
}
