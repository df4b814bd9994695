package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/httpx"
	"github.com/xlov-lab/experience-api/internal/services"
)

const maxResponseRequestBody = 32 * 1024

// ResponseHandlers exposes the fan response log and participation stats.
type ResponseHandlers struct {
	responses services.ResponseService
}

// NewResponseHandlers constructs a response handler set.
func NewResponseHandlers(svc services.ResponseService) *ResponseHandlers {
	return &ResponseHandlers{responses: svc}
}

// Routes registers the response log endpoints beneath /responses.
func (h *ResponseHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/", h.record)
	r.Get("/", h.list)
}

// StatsRoutes registers the participation counter beneath /stats.
func (h *ResponseHandlers) StatsRoutes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.stats)
}

func (h *ResponseHandlers) record(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.responses == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "response service not available", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxResponseRequestBody)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	var req recordResponseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "invalid JSON payload", http.StatusBadRequest))
		return
	}

	recorded, err := h.responses.Record(ctx, services.RecordResponseCommand{
		MemberID:          req.MemberID,
		Answers:           req.Responses.toDomain(),
		GeneratedImageURL: req.GeneratedImageURL,
	})
	if err != nil {
		writeExperienceError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, recordResponseResponse{
		Success: true,
		Data:    buildFanResponsePayload(recorded),
	})
}

func (h *ResponseHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.responses == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "response service not available", http.StatusServiceUnavailable))
		return
	}

	query := services.ResponseListQuery{
		Member: strings.TrimSpace(r.URL.Query().Get("member")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "limit must be a non-negative integer", http.StatusBadRequest))
			return
		}
		query.Limit = limit
	}

	listed, err := h.responses.List(ctx, query)
	if err != nil {
		writeExperienceError(ctx, w, err)
		return
	}

	payload := make([]fanResponsePayload, 0, len(listed))
	for _, response := range listed {
		payload = append(payload, buildFanResponsePayload(response))
	}
	writeJSONResponse(w, http.StatusOK, listResponsesResponse{Data: payload})
}

func (h *ResponseHandlers) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.responses == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "response service not available", http.StatusServiceUnavailable))
		return
	}

	stats, err := h.responses.Stats(ctx)
	if err != nil {
		writeExperienceError(ctx, w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, statsResponse{
		TotalParticipants: stats.Total,
		PerMember:         stats.PerMember,
	})
}

type recordResponseRequest struct {
	MemberID          string               `json:"memberId"`
	Responses         canvasAnswersRequest `json:"responses"`
	GeneratedImageURL string               `json:"generatedImageUrl"`
}

type recordResponseResponse struct {
	Success bool               `json:"success"`
	Data    fanResponsePayload `json:"data"`
}

type listResponsesResponse struct {
	Data []fanResponsePayload `json:"data"`
}

type statsResponse struct {
	TotalParticipants int64            `json:"totalParticipants"`
	PerMember         map[string]int64 `json:"perMember"`
}

type fanResponsePayload struct {
	ID                string `json:"id"`
	Member            string `json:"member"`
	Color             string `json:"color"`
	Season            string `json:"season"`
	TimeOfDay         string `json:"timeOfDay"`
	Texture           string `json:"texture"`
	Emotion           string `json:"emotion"`
	OneWord           string `json:"oneWord"`
	GeneratedImageURL string `json:"generatedImageUrl,omitempty"`
	CreatedAt         string `json:"createdAt"`
}

func buildFanResponsePayload(response domain.FanResponse) fanResponsePayload {
	payload := fanResponsePayload{
		ID:                response.ID,
		Member:            response.Member,
		Color:             response.Color,
		Season:            response.Season,
		TimeOfDay:         response.TimeOfDay,
		Texture:           response.Texture,
		Emotion:           response.Emotion,
		OneWord:           response.OneWord,
		GeneratedImageURL: response.GeneratedImageURL,
	}
	if !response.CreatedAt.IsZero() {
		payload.CreatedAt = response.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return payload
}
