// Package genai wraps the Google GenAI SDK behind the three generation
// primitives the experience programs need: free text, strict JSON, and
// portrait images with inline references.
package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"github.com/xlov-lab/experience-api/internal/platform/requestctx"
)

const (
	// jsonMaxAttempts bounds retries of the JSON call; malformed model
	// output is the common failure, not transport errors.
	jsonMaxAttempts = 3
	// jsonBackoffStep is multiplied by the attempt number, so waits run
	// 1s then 2s between the three attempts.
	jsonBackoffStep = time.Second

	// maxImageRefs is the number of inline reference images the image
	// model accepts from us: subject plus optional style reference.
	maxImageRefs = 2

	imageAspectRatio = "3:4"
	imageSize        = "2K"
)

var (
	// ErrEmptyResponse is returned when the model responds without usable text.
	ErrEmptyResponse = errors.New("genai: empty model response")
	// ErrNoImage is returned when the image model produced no inline image part.
	ErrNoImage = errors.New("genai: no image in model response")
	// ErrTooManyRefs is returned when more reference images are supplied than the model accepts.
	ErrTooManyRefs = errors.New("genai: too many reference images")
)

// ImageRef is an inline reference image passed alongside an image prompt.
type ImageRef struct {
	MIMEType string
	Data     []byte
}

// ModelCaller abstracts the SDK call so tests can substitute canned responses.
type ModelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type sdkCaller struct {
	client *genai.Client
}

func (c sdkCaller) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.client.Models.GenerateContent(ctx, model, contents, config)
}

// Client issues generation calls against configured text and image models.
type Client struct {
	caller     ModelCaller
	textModel  string
	imageModel string
	sleep      func(ctx context.Context, d time.Duration) error
}

// Config carries construction parameters for the client.
type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

// Option customises Client construction.
type Option func(*Client)

// WithModelCaller injects a caller implementation (primarily for tests).
func WithModelCaller(caller ModelCaller) Option {
	return func(c *Client) {
		c.caller = caller
	}
}

// NewClient constructs a Client backed by the Google GenAI SDK.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.TextModel) == "" {
		return nil, errors.New("genai: text model is required")
	}
	if strings.TrimSpace(cfg.ImageModel) == "" {
		return nil, errors.New("genai: image model is required")
	}

	c := &Client{
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.caller == nil {
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("genai: api key is required")
		}
		sdk, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
		if err != nil {
			return nil, fmt.Errorf("genai: create client: %w", err)
		}
		c.caller = sdkCaller{client: sdk}
	}

	return c, nil
}

// GenerateText runs a single text generation call and returns the first text part.
func (c *Client) GenerateText(ctx context.Context, prompt, systemInstruction string) (string, error) {
	resp, err := c.caller.GenerateContent(ctx, c.textModel,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		textConfig(systemInstruction),
	)
	if err != nil {
		return "", fmt.Errorf("genai: generate text: %w", err)
	}
	text := firstText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateJSON asks the text model for strict JSON and unmarshals it into out.
// Each attempt strips markdown fences and falls back to structural repair
// before counting as failed; attempts are separated by a linear backoff.
func (c *Client) GenerateJSON(ctx context.Context, prompt, systemInstruction string, out any) error {
	instruction := strings.TrimSpace(systemInstruction) + "\n\n" +
		"CRITICAL: You MUST respond with ONLY valid JSON. No markdown, no code blocks, no explanations."

	var lastErr error
	for attempt := 1; attempt <= jsonMaxAttempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, time.Duration(attempt-1)*jsonBackoffStep); err != nil {
				return err
			}
		}

		raw, err := c.GenerateText(ctx, prompt, instruction)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return err
			}
			continue
		}

		if err := decodeJSON(raw, out); err != nil {
			lastErr = err
			requestctx.Logger(ctx).Warn("genai: discarding malformed json response",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}
		return nil
	}
	return fmt.Errorf("genai: generate json after %d attempts: %w", jsonMaxAttempts, lastErr)
}

// GenerateImage runs the image model with up to two inline reference images
// and returns the generated image as a data URI.
func (c *Client) GenerateImage(ctx context.Context, prompt string, refs ...ImageRef) (string, error) {
	if len(refs) > maxImageRefs {
		return "", ErrTooManyRefs
	}

	parts := make([]*genai.Part, 0, 1+len(refs))
	parts = append(parts, &genai.Part{Text: prompt})
	for _, ref := range refs {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: ref.MIMEType, Data: ref.Data},
		})
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: imageAspectRatio,
			ImageSize:   imageSize,
		},
	}

	resp, err := c.caller.GenerateContent(ctx, c.imageModel,
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("genai: generate image: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.InlineData == nil {
				continue
			}
			encoded := base64.StdEncoding.EncodeToString(part.InlineData.Data)
			return fmt.Sprintf("data:%s;base64,%s", part.InlineData.MIMEType, encoded), nil
		}
	}
	return "", ErrNoImage
}

func textConfig(systemInstruction string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if strings.TrimSpace(systemInstruction) != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		}
	}
	return config
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

func decodeJSON(raw string, out any) error {
	cleaned := stripFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}
	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return fmt.Errorf("genai: unparseable json: %w", repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("genai: decode repaired json: %w", err)
	}
	return nil
}

func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(cleaned, "```json"):
		cleaned = cleaned[len("```json"):]
	case strings.HasPrefix(cleaned, "```"):
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
