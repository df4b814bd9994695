package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/httpx"
	"github.com/xlov-lab/experience-api/internal/services"
)

const maxCanvasRequestBody = 32 * 1024

// CanvasHandlers exposes the portrait + scent generation endpoint.
type CanvasHandlers struct {
	canvas services.CanvasService
}

// NewCanvasHandlers constructs a canvas handler set.
func NewCanvasHandlers(svc services.CanvasService) *CanvasHandlers {
	return &CanvasHandlers{canvas: svc}
}

// Routes registers the canvas endpoints beneath /canvas.
func (h *CanvasHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/generate", h.generate)
}

func (h *CanvasHandlers) generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.canvas == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "canvas service not available", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCanvasRequestBody)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req canvasGenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	outcome, err := h.canvas.Generate(ctx, services.CanvasGenerateCommand{
		MemberID: req.MemberID,
		Answers:  req.Responses.toDomain(),
	})
	if err != nil {
		writeExperienceError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, canvasGenerateResponse{
		ImageURL:   outcome.ImageURL,
		Scent:      outcome.Scent,
		MemberID:   outcome.MemberID,
		MemberName: outcome.MemberName,
	})
}

type canvasAnswersRequest struct {
	Color     string `json:"color"`
	Season    string `json:"season"`
	TimeOfDay string `json:"timeOfDay"`
	Texture   string `json:"texture"`
	Emotion   string `json:"emotion"`
	OneWord   string `json:"oneWord"`
}

func (a canvasAnswersRequest) toDomain() domain.CanvasAnswers {
	return domain.CanvasAnswers{
		Color:     a.Color,
		Season:    a.Season,
		TimeOfDay: a.TimeOfDay,
		Texture:   a.Texture,
		Emotion:   a.Emotion,
		OneWord:   a.OneWord,
	}
}

type canvasGenerateRequest struct {
	MemberID  string               `json:"memberId"`
	Responses canvasAnswersRequest `json:"responses"`
}

type canvasGenerateResponse struct {
	ImageURL   string             `json:"imageUrl"`
	Scent      domain.ScentRecipe `json:"scent"`
	MemberID   string             `json:"memberId"`
	MemberName string             `json:"memberName"`
}
