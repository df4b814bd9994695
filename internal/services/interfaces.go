// Package services implements the application logic of the three experience
// programs and the surrounding response log.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/genai"
	"github.com/xlov-lab/experience-api/internal/platform/storage"
)

// SpectrumService scores a sparse answer set and enriches the result with
// generated scent, scenarios, and chemistry content.
type SpectrumService interface {
	Analyze(ctx context.Context, answers domain.AnswerSet) (SpectrumAnalysis, error)
}

// CanvasService turns a member selection plus six styling answers into a
// generated portrait and matching fragrance.
type CanvasService interface {
	Generate(ctx context.Context, cmd CanvasGenerateCommand) (CanvasOutcome, error)
}

// MirrorService applies a member's signature style to a fan selfie.
type MirrorService interface {
	Transform(ctx context.Context, cmd MirrorTransformCommand) (MirrorOutcome, error)
}

// ResponseService owns the append-only fan response log and the public
// participation counters.
type ResponseService interface {
	Record(ctx context.Context, cmd RecordResponseCommand) (domain.FanResponse, error)
	List(ctx context.Context, query ResponseListQuery) ([]domain.FanResponse, error)
	Stats(ctx context.Context) (domain.ParticipationStats, error)
}

// SystemService provides health reports and build metadata for the health endpoints.
type SystemService interface {
	HealthReport(ctx context.Context) (domain.SystemHealthReport, error)
}

// Generator is the generation collaborator shared by the three programs.
// *genai.Client satisfies it.
type Generator interface {
	GenerateText(ctx context.Context, prompt, systemInstruction string) (string, error)
	GenerateJSON(ctx context.Context, prompt, systemInstruction string, out any) error
	GenerateImage(ctx context.Context, prompt string, refs ...genai.ImageRef) (string, error)
}

// ReferenceImageStore loads member reference portraits for image generation.
type ReferenceImageStore interface {
	MemberReferenceImage(ctx context.Context, memberID string) (storage.Asset, error)
}

// AggregationJobPublisher enqueues background aggregation work after a
// response is recorded.
type AggregationJobPublisher interface {
	PublishAggregationJob(ctx context.Context, message AggregationJobMessage) (string, error)
}

// AggregationJobMessage is the Pub/Sub payload queued per recorded response.
type AggregationJobMessage struct {
	ResponseID string    `json:"responseId"`
	Member     string    `json:"member"`
	Program    string    `json:"program"`
	QueuedAt   time.Time `json:"queuedAt"`
}

// SpectrumAnalysis bundles the scored result with the generated narrative content.
type SpectrumAnalysis struct {
	Result      domain.SpectrumResult
	Scent       domain.ScentRecipe
	Personality domain.PersonalityAnalysis
}

// CanvasGenerateCommand carries the Canvas questionnaire submission.
type CanvasGenerateCommand struct {
	MemberID string
	Answers  domain.CanvasAnswers
}

// CanvasOutcome is the generated Canvas result.
type CanvasOutcome struct {
	ImageURL   string
	Scent      domain.ScentRecipe
	MemberID   string
	MemberName string
}

// MirrorTransformCommand carries a selfie submission for style transfer.
type MirrorTransformCommand struct {
	MemberID       string
	SelfieBase64   string
	SelfieMIMEType string
	Intensity      domain.StyleIntensity
}

// MirrorOutcome is the generated Mirror result.
type MirrorOutcome struct {
	Result     domain.MirrorResult
	Scent      domain.ScentRecipe
	MemberID   string
	MemberName string
}

// RecordResponseCommand carries a finalized questionnaire submission.
type RecordResponseCommand struct {
	MemberID          string
	Answers           domain.CanvasAnswers
	GeneratedImageURL string
}

// ResponseListQuery narrows and bounds response listings.
type ResponseListQuery struct {
	Member string
	Limit  int
}

// Validation failures shared across services.
var (
	// ErrUnknownMember is returned when the member id is not in the catalog.
	ErrUnknownMember = errors.New("services: unknown member")
	// ErrUnknownIntensity is returned when the style intensity is not one of the catalog options.
	ErrUnknownIntensity = errors.New("services: unknown style intensity")
	// ErrEmptySelfie is returned when a mirror command carries no selfie payload.
	ErrEmptySelfie = errors.New("services: selfie image is required")
	// ErrInvalidSelfie is returned when the selfie payload is not valid base64.
	ErrInvalidSelfie = errors.New("services: selfie image is not valid base64")
	// ErrEmptyAnswers is returned when a submission carries no answers.
	ErrEmptyAnswers = errors.New("services: answers are required")
)

// GenerationError marks a failure of the generation collaborator; handlers
// translate it to a retryable upstream error.
type GenerationError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("generation %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error.
func (e *GenerationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newGenerationError(stage string, err error) *GenerationError {
	return &GenerationError{Stage: stage, Err: err}
}
