package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/httpx"
	"github.com/xlov-lab/experience-api/internal/services"
)

const maxSpectrumRequestBody = 16 * 1024

// SpectrumHandlers exposes the personality spectrum analysis endpoint.
type SpectrumHandlers struct {
	spectrum services.SpectrumService
}

// NewSpectrumHandlers constructs a spectrum handler set.
func NewSpectrumHandlers(svc services.SpectrumService) *SpectrumHandlers {
	return &SpectrumHandlers{spectrum: svc}
}

// Routes registers the spectrum endpoints beneath /spectrum.
func (h *SpectrumHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/analyze", h.analyze)
}

func (h *SpectrumHandlers) analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.spectrum == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "spectrum service not available", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxSpectrumRequestBody)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req analyzeSpectrumRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	analysis, err := h.spectrum.Analyze(ctx, domain.AnswerSet(req.Answers))
	if err != nil {
		writeExperienceError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, analyzeSpectrumResponse{
		Result:      buildSpectrumResultPayload(analysis.Result),
		Scent:       analysis.Scent,
		Personality: buildPersonalityPayload(analysis.Personality),
	})
}

type analyzeSpectrumRequest struct {
	Answers map[string]int `json:"answers"`
}

type analyzeSpectrumResponse struct {
	Result      spectrumResultPayload `json:"result"`
	Scent       domain.ScentRecipe    `json:"scent"`
	Personality personalityPayload    `json:"personality"`
}

type axisScorePayload struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	LeftLabel  string `json:"leftLabel"`
	RightLabel string `json:"rightLabel"`
	LeftIcon   string `json:"leftIcon,omitempty"`
	RightIcon  string `json:"rightIcon,omitempty"`
	Value      int    `json:"value"`
}

type archetypePayload struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

type matchItemPayload struct {
	MemberID    string `json:"memberId"`
	Percentage  int    `json:"percentage"`
	ClosestAxis string `json:"closestAxis"`
}

type memberMatchPayload struct {
	SoulMate matchItemPayload   `json:"soulMate"`
	Hidden   matchItemPayload   `json:"hidden"`
	Opposite matchItemPayload   `json:"opposite"`
	Ranked   []matchItemPayload `json:"ranked"`
}

type spectrumResultPayload struct {
	Axes        []axisScorePayload `json:"axes"`
	Archetype   archetypePayload   `json:"archetype"`
	MemberMatch memberMatchPayload `json:"memberMatch"`
}

type personalityPayload struct {
	Scenarios domain.PersonalityScenarios `json:"scenarios"`
	Chemistry domain.ChemistryStory       `json:"chemistry"`
}

func buildSpectrumResultPayload(result domain.SpectrumResult) spectrumResultPayload {
	axes := make([]axisScorePayload, 0, len(result.Axes))
	for _, score := range result.Axes {
		axes = append(axes, axisScorePayload{
			ID:         string(score.Axis.ID),
			Label:      score.Axis.Label,
			LeftLabel:  score.Axis.LeftLabel,
			RightLabel: score.Axis.RightLabel,
			LeftIcon:   score.Axis.LeftIcon,
			RightIcon:  score.Axis.RightIcon,
			Value:      score.Value,
		})
	}

	ranked := make([]matchItemPayload, 0, len(result.Match.Ranked))
	for _, item := range result.Match.Ranked {
		ranked = append(ranked, buildMatchItemPayload(item))
	}

	return spectrumResultPayload{
		Axes: axes,
		Archetype: archetypePayload{
			Key:         result.Archetype.Key,
			Name:        result.Archetype.Name,
			Description: result.Archetype.Description,
			Emoji:       result.Archetype.Emoji,
		},
		MemberMatch: memberMatchPayload{
			SoulMate: buildMatchItemPayload(result.Match.SoulMate),
			Hidden:   buildMatchItemPayload(result.Match.Hidden),
			Opposite: buildMatchItemPayload(result.Match.Opposite),
			Ranked:   ranked,
		},
	}
}

func buildMatchItemPayload(item domain.MemberMatchItem) matchItemPayload {
	return matchItemPayload{
		MemberID:    item.MemberID,
		Percentage:  item.Percentage,
		ClosestAxis: item.ClosestAxis,
	}
}

func buildPersonalityPayload(analysis domain.PersonalityAnalysis) personalityPayload {
	return personalityPayload{
		Scenarios: analysis.Scenarios,
		Chemistry: analysis.Chemistry,
	}
}
