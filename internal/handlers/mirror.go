package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/httpx"
	"github.com/xlov-lab/experience-api/internal/services"
)

// Selfies arrive base64-encoded inline, so this limit is deliberately large.
const maxMirrorRequestBody = 12 * 1024 * 1024

// MirrorHandlers exposes the selfie style-transfer endpoint.
type MirrorHandlers struct {
	mirror services.MirrorService
}

// NewMirrorHandlers constructs a mirror handler set.
func NewMirrorHandlers(svc services.MirrorService) *MirrorHandlers {
	return &MirrorHandlers{mirror: svc}
}

// Routes registers the mirror endpoints beneath /mirror.
func (h *MirrorHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/transform", h.transform)
}

func (h *MirrorHandlers) transform(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.mirror == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "mirror service not available", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxMirrorRequestBody)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req mirrorTransformRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	outcome, err := h.mirror.Transform(ctx, services.MirrorTransformCommand{
		MemberID:       req.MemberID,
		SelfieBase64:   req.SelfieBase64,
		SelfieMIMEType: req.SelfieMIMEType,
		Intensity:      domain.StyleIntensity(req.Intensity),
	})
	if err != nil {
		writeExperienceError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, mirrorTransformResponse{
		Result:     outcome.Result,
		Scent:      outcome.Scent,
		MemberID:   outcome.MemberID,
		MemberName: outcome.MemberName,
	})
}

type mirrorTransformRequest struct {
	MemberID       string `json:"memberId"`
	SelfieBase64   string `json:"selfieBase64"`
	SelfieMIMEType string `json:"selfieMimeType"`
	Intensity      string `json:"intensity"`
}

type mirrorTransformResponse struct {
	Result     domain.MirrorResult `json:"result"`
	Scent      domain.ScentRecipe  `json:"scent"`
	MemberID   string              `json:"memberId"`
	MemberName string              `json:"memberName"`
}
