package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/genai"
	"github.com/xlov-lab/experience-api/internal/platform/requestctx"
)

// defaultCanvasInfluence is used when the model omits the member influence.
const defaultCanvasInfluence = 70

// CanvasServiceDeps bundles collaborators required to construct a canvas service.
type CanvasServiceDeps struct {
	Generator Generator
	Assets    ReferenceImageStore
}

type canvasService struct {
	generator Generator
	assets    ReferenceImageStore
}

var _ CanvasService = (*canvasService)(nil)

// NewCanvasService assembles the canvas generation service.
func NewCanvasService(deps CanvasServiceDeps) (CanvasService, error) {
	if deps.Generator == nil {
		return nil, errors.New("canvas service: generator is required")
	}
	if deps.Assets == nil {
		return nil, errors.New("canvas service: asset store is required")
	}
	return &canvasService{
		generator: deps.Generator,
		assets:    deps.Assets,
	}, nil
}

func (s *canvasService) Generate(ctx context.Context, cmd CanvasGenerateCommand) (CanvasOutcome, error) {
	member, ok := domain.MemberByID(strings.TrimSpace(cmd.MemberID))
	if !ok {
		return CanvasOutcome{}, fmt.Errorf("%w: %q", ErrUnknownMember, cmd.MemberID)
	}
	if emptyCanvasAnswers(cmd.Answers) {
		return CanvasOutcome{}, ErrEmptyAnswers
	}

	reference, err := s.assets.MemberReferenceImage(ctx, member.ID)
	if err != nil {
		return CanvasOutcome{}, fmt.Errorf("canvas service: load reference image: %w", err)
	}

	imagePrompt := buildImagePrompt(member, cmd.Answers)
	scentPrompt := buildCanvasScentPrompt(member, cmd.Answers)

	var (
		imageURL  string
		scentData generatedScent
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		url, err := s.generator.GenerateImage(groupCtx, imagePrompt, genai.ImageRef{
			MIMEType: reference.MIMEType,
			Data:     reference.Data,
		})
		if err != nil {
			return newGenerationError("image", err)
		}
		imageURL = url
		return nil
	})
	group.Go(func() error {
		if err := s.generator.GenerateJSON(groupCtx, scentPrompt,
			"You are a master perfumer. Respond only with valid JSON.",
			&scentData,
		); err != nil {
			return newGenerationError("scent", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		requestctx.Logger(ctx).Warn("canvas generation failed",
			zap.String("member", member.ID),
			zap.Error(err),
		)
		return CanvasOutcome{}, err
	}

	return CanvasOutcome{
		ImageURL:   imageURL,
		Scent:      canvasScentRecipe(scentData, member.ID),
		MemberID:   member.ID,
		MemberName: member.Name,
	}, nil
}

func emptyCanvasAnswers(answers domain.CanvasAnswers) bool {
	return strings.TrimSpace(answers.Color) == "" &&
		strings.TrimSpace(answers.Season) == "" &&
		strings.TrimSpace(answers.TimeOfDay) == "" &&
		strings.TrimSpace(answers.Texture) == "" &&
		strings.TrimSpace(answers.Emotion) == "" &&
		strings.TrimSpace(answers.OneWord) == ""
}

func canvasScentRecipe(generated generatedScent, memberID string) domain.ScentRecipe {
	influence := make(domain.MemberInfluence, len(domain.Members))
	for _, member := range domain.Members {
		influence[member.ID] = 0
	}
	if value, ok := generated.MemberInfluence[memberID]; ok && value > 0 {
		influence[memberID] = value
	} else {
		influence[memberID] = defaultCanvasInfluence
	}

	return domain.ScentRecipe{
		Name:            generated.Name,
		Description:     generated.Description,
		Top:             mapGeneratedNotes(generated.Top),
		Middle:          mapGeneratedNotes(generated.Middle),
		Base:            mapGeneratedNotes(generated.Base),
		MemberInfluence: influence,
		Mood:            generated.Mood,
		Season:          generated.Season,
		TimeOfDay:       generated.TimeOfDay,
	}
}

func buildCanvasScentPrompt(member domain.Member, answers domain.CanvasAnswers) string {
	signatureName := "Unknown"
	signatureDescription := ""
	if signature, ok := domain.SignatureScent(member.ID); ok {
		signatureName = signature.Name
		signatureDescription = signature.Description
	}

	return fmt.Sprintf(`You are a master perfumer creating a custom fragrance based on user responses about a K-pop idol member.

MEMBER: %s (ID: %s)
MEMBER'S SIGNATURE SCENT: %s - %s

USER'S RESPONSES ABOUT THE MEMBER:
- color: %s
- season: %s
- timeOfDay: %s
- texture: %s
- emotion: %s
- oneWord: %s

AVAILABLE SCENT NOTES (choose from these):
%s

Based on the user's creative interpretation of the member, create a unique fragrance that:
1. Reflects the user's vision of the member
2. Incorporates elements from the member's signature scent
3. Creates a cohesive olfactory story

OUTPUT FORMAT (JSON only):
{
  "name": "Creative fragrance name in English",
  "description": "Poetic Korean description of the scent (1-2 sentences)",
  "top": [
    { "name": "향료 한글명", "nameEn": "Note English Name", "intensity": 70-90 }
  ],
  "middle": [
    { "name": "향료 한글명", "nameEn": "Note English Name", "intensity": 60-85 }
  ],
  "base": [
    { "name": "향료 한글명", "nameEn": "Note English Name", "intensity": 70-95 }
  ],
  "mood": ["감성키워드1", "감성키워드2", "감성키워드3", "감성키워드4"],
  "season": "봄/여름/가을/겨울",
  "timeOfDay": "새벽/아침/오후/저녁/밤",
  "memberInfluence": { "%s": 70, "user": 30 }
}

Create 2 notes for top, 2 for middle, and 2-3 for base.
Intensity values should range from 50-100 based on prominence.`,
		member.Name, member.ID,
		signatureName, signatureDescription,
		answers.Color, answers.Season, answers.TimeOfDay, answers.Texture, answers.Emotion, answers.OneWord,
		availableScentNotes(),
		member.ID,
	)
}
