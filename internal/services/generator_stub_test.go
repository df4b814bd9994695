package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/xlov-lab/experience-api/internal/platform/genai"
)

// stubGenerator scripts generation outcomes keyed by a substring of the
// prompt, which keeps concurrent fan-out calls deterministic.
type stubGenerator struct {
	mu sync.Mutex

	jsonByPrompt map[string]string
	jsonErr      error
	imageURL     string
	imageErr     error
	textByPrompt map[string]string

	imageCalls []imageCall
	jsonCalls  []string
}

type imageCall struct {
	prompt string
	refs   []genai.ImageRef
}

func newStubGenerator() *stubGenerator {
	return &stubGenerator{
		jsonByPrompt: make(map[string]string),
		textByPrompt: make(map[string]string),
	}
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key, text := range g.textByPrompt {
		if strings.Contains(prompt, key) {
			return text, nil
		}
	}
	return "", errors.New("stub generator: no scripted text")
}

func (g *stubGenerator) GenerateJSON(_ context.Context, prompt, _ string, out any) error {
	g.mu.Lock()
	g.jsonCalls = append(g.jsonCalls, prompt)
	err := g.jsonErr
	var payload string
	for key, doc := range g.jsonByPrompt {
		if strings.Contains(prompt, key) {
			payload = doc
			break
		}
	}
	g.mu.Unlock()

	if err != nil {
		return err
	}
	if payload == "" {
		return errors.New("stub generator: no scripted json for prompt")
	}
	return json.Unmarshal([]byte(payload), out)
}

func (g *stubGenerator) GenerateImage(_ context.Context, prompt string, refs ...genai.ImageRef) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.imageCalls = append(g.imageCalls, imageCall{prompt: prompt, refs: refs})
	if g.imageErr != nil {
		return "", g.imageErr
	}
	return g.imageURL, nil
}

func (g *stubGenerator) imageCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.imageCalls)
}

func (g *stubGenerator) lastImageCall() (imageCall, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.imageCalls) == 0 {
		return imageCall{}, false
	}
	return g.imageCalls[len(g.imageCalls)-1], true
}
