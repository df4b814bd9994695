// Package handlers wires the experience services onto chi routers.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/xlov-lab/experience-api/internal/platform/httpx"
	"github.com/xlov-lab/experience-api/internal/services"
	"github.com/xlov-lab/experience-api/internal/spectrum"
)

const defaultMaxBodySize = 64 * 1024

var (
	errBodyTooLarge = errors.New("request body too large")
	errEmptyBody    = errors.New("request body is required")
)

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	if limit <= 0 {
		limit = defaultMaxBodySize
	}
	reader := io.LimitReader(r.Body, limit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
	case errors.Is(err, errEmptyBody):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body is required", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	}
}

// writeExperienceError translates service failures into the error envelope.
// Generation failures are surfaced as 502 so clients know a retry may succeed.
func writeExperienceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	var invalidAnswer *spectrum.InvalidAnswerError
	var generation *services.GenerationError

	switch {
	case errors.Is(err, services.ErrUnknownMember):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_member", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrUnknownIntensity),
		errors.Is(err, services.ErrEmptySelfie),
		errors.Is(err, services.ErrInvalidSelfie),
		errors.Is(err, services.ErrEmptyAnswers),
		errors.Is(err, spectrum.ErrNoAnswers):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.As(err, &invalidAnswer):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_answer", invalidAnswer.Error(), http.StatusBadRequest))
	case errors.As(err, &generation):
		httpx.WriteError(ctx, w, httpx.NewError("generation_failed", "generation temporarily failed, please retry", http.StatusBadGateway))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "unexpected failure", http.StatusInternalServerError))
	}
}
