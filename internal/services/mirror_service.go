package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/genai"
	"github.com/xlov-lab/experience-api/internal/platform/requestctx"
)

const defaultSelfieMIMEType = "image/jpeg"

// MirrorServiceDeps bundles collaborators required to construct a mirror service.
type MirrorServiceDeps struct {
	Generator Generator
	Assets    ReferenceImageStore
}

type mirrorService struct {
	generator Generator
	assets    ReferenceImageStore
}

var _ MirrorService = (*mirrorService)(nil)

// NewMirrorService assembles the selfie style-transfer service.
func NewMirrorService(deps MirrorServiceDeps) (MirrorService, error) {
	if deps.Generator == nil {
		return nil, errors.New("mirror service: generator is required")
	}
	if deps.Assets == nil {
		return nil, errors.New("mirror service: asset store is required")
	}
	return &mirrorService{
		generator: deps.Generator,
		assets:    deps.Assets,
	}, nil
}

func (s *mirrorService) Transform(ctx context.Context, cmd MirrorTransformCommand) (MirrorOutcome, error) {
	member, ok := domain.MemberByID(strings.TrimSpace(cmd.MemberID))
	if !ok {
		return MirrorOutcome{}, fmt.Errorf("%w: %q", ErrUnknownMember, cmd.MemberID)
	}
	intensity, ok := domain.StyleIntensityByID(cmd.Intensity)
	if !ok {
		return MirrorOutcome{}, fmt.Errorf("%w: %q", ErrUnknownIntensity, cmd.Intensity)
	}
	styleGuide, ok := domain.MemberStyleGuides[member.ID]
	if !ok {
		return MirrorOutcome{}, fmt.Errorf("%w: no style guide for %q", ErrUnknownMember, member.ID)
	}

	selfieBase64 := strings.TrimSpace(cmd.SelfieBase64)
	if selfieBase64 == "" {
		return MirrorOutcome{}, ErrEmptySelfie
	}
	selfieData, err := base64.StdEncoding.DecodeString(selfieBase64)
	if err != nil {
		return MirrorOutcome{}, fmt.Errorf("%w: %v", ErrInvalidSelfie, err)
	}
	selfieMIMEType := strings.TrimSpace(cmd.SelfieMIMEType)
	if selfieMIMEType == "" {
		selfieMIMEType = defaultSelfieMIMEType
	}

	reference, err := s.assets.MemberReferenceImage(ctx, member.ID)
	if err != nil {
		return MirrorOutcome{}, fmt.Errorf("mirror service: load reference image: %w", err)
	}

	transformPrompt := buildTransformPrompt(member.Name, styleGuide, intensity)
	scentPrompt := buildMirrorScentPrompt(member, styleGuide, intensity.ID)
	analysisPrompt := buildStyleAnalysisPrompt(member.Name, styleGuide, intensity.ID)

	var (
		transformedURL string
		scentData      generatedScent
		styleApplied   domain.AppliedStyle
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		url, err := s.generator.GenerateImage(groupCtx, transformPrompt,
			genai.ImageRef{MIMEType: selfieMIMEType, Data: selfieData},
			genai.ImageRef{MIMEType: reference.MIMEType, Data: reference.Data},
		)
		if err != nil {
			return newGenerationError("transform", err)
		}
		transformedURL = url
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
	group.Go(func() error {
		if err := s.generator.GenerateJSON(groupCtx, analysisPrompt,
			"Respond only with valid JSON describing the applied style.",
			&styleApplied,
		); err != nil {
			return newGenerationError("style_analysis", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		requestctx.Logger(ctx).Warn("mirror generation failed",
			zap.String("member", member.ID),
			zap.String("intensity", string(intensity.ID)),
			zap.Error(err),
		)
		return MirrorOutcome{}, err
	}

	influence := intensity.ID.InfluencePercent()

	return MirrorOutcome{
		Result: domain.MirrorResult{
			OriginalImage:    fmt.Sprintf("data:%s;base64,%s", selfieMIMEType, selfieBase64),
			TransformedImage: transformedURL,
			StyleApplied:     styleApplied,
			MemberInfluence:  influence,
		},
		Scent:      mirrorScentRecipe(scentData, member.ID, influence),
		MemberID:   member.ID,
		MemberName: member.Name,
	}, nil
}

func mirrorScentRecipe(generated generatedScent, memberID string, influence int) domain.ScentRecipe {
	memberInfluence := make(domain.MemberInfluence, len(domain.Members))
	for _, member := range domain.Members {
		memberInfluence[member.ID] = 0
	}
	memberInfluence[memberID] = influence

	return domain.ScentRecipe{
		Name:            generated.Name,
		Description:     generated.Description,
		Top:             mapGeneratedNotes(generated.Top),
		Middle:          mapGeneratedNotes(generated.Middle),
		Base:            mapGeneratedNotes(generated.Base),
		MemberInfluence: memberInfluence,
		Mood:            generated.Mood,
		Season:          generated.Season,
		TimeOfDay:       generated.TimeOfDay,
	}
}

func buildTransformPrompt(memberName string, styleGuide domain.MemberStyleGuide, intensity domain.StyleIntensityInfo) string {
	percent := intensity.ID.InfluencePercent()

	var intensityDescription string
	switch intensity.ID {
	case domain.StyleIntensityLight:
		intensityDescription = "subtle, natural enhancement keeping the original look mostly intact"
	case domain.StyleIntensityMedium:
		intensityDescription = "balanced blend of original features with the members style"
	default:
		intensityDescription = "dramatic transformation heavily featuring the members signature style"
	}

	return fmt.Sprintf(`Transform this selfie photo with %s's signature style at %d%% intensity.

STYLE GUIDE FOR %s:
- Makeup Features: %s
- Styling Features: %s
- Color Palette: %s
- Mood Keywords: %s

INTENSITY: %s (%s) - %s

IMPORTANT GUIDELINES:
1. Preserve the person's identity and facial features
2. Apply %s's makeup style subtly at %d%% strength
3. Adjust lighting and color grading to match the mood
4. Keep the image natural-looking and flattering
5. For %s intensity: %s

Create a beautiful, harmonious transformation that feels authentic to both the person and %s's aesthetic.`,
		memberName, percent,
		strings.ToUpper(memberName),
		strings.Join(styleGuide.MakeupFeatures, ", "),
		strings.Join(styleGuide.StylingFeatures, ", "),
		strings.Join(styleGuide.ColorPalette, ", "),
		strings.Join(styleGuide.MoodKeywords, ", "),
		intensity.Label, intensity.LabelEn, intensityDescription,
		memberName, percent,
		intensity.ID, intensity.Description,
		memberName,
	)
}

func buildMirrorScentPrompt(member domain.Member, styleGuide domain.MemberStyleGuide, intensity domain.StyleIntensity) string {
	signatureName := "Unknown"
	signatureDescription := ""
	if signature, ok := domain.SignatureScent(member.ID); ok {
		signatureName = signature.Name
		signatureDescription = signature.Description
	}

	moodPair := styleGuide.MoodKeywords
	if len(moodPair) > 2 {
		moodPair = moodPair[:2]
	}

	return fmt.Sprintf(`You are a master perfumer creating a custom fragrance that captures the essence of a style transformation.

TRANSFORMATION CONTEXT:
- Member Style: %s
- Mood Keywords: %s
- Color Palette: %s
- Base Scent Reference: %s - %s
- Style Intensity: %s (%d%% of member's influence)

AVAILABLE SCENT NOTES:
%s

Create a fragrance that:
1. Blends the user's natural essence with %s's signature style
2. Reflects the %s transformation intensity
3. Captures the %s mood

OUTPUT FORMAT (JSON only):
{
  "name": "Creative fragrance name in English",
  "description": "향수의 감성적인 한국어 설명 (1-2문장)",
  "top": [
    { "name": "향료 한글명", "nameEn": "Note English Name", "intensity": 70-90 }
  ],
  "middle": [
    { "name": "향료 한글명", "nameEn": "Note English Name", "intensity": 60-85 }
  ],
  "base": [
    { "name": "향료 한글명", "nameEn": "Note English Name", "intensity": 70-95 }
  ],
  "mood": ["분위기1", "분위기2", "분위기3"],
  "season": "봄/여름/가을/겨울",
  "timeOfDay": "새벽/아침/오후/저녁/밤"
}

Create 2 notes for top, 2 for middle, and 2 for base.`,
		member.Name,
		strings.Join(styleGuide.MoodKeywords, ", "),
		strings.Join(styleGuide.ColorPalette, ", "),
		signatureName, signatureDescription,
		intensity, intensity.InfluencePercent(),
		availableScentNotes(),
		member.Name,
		intensity,
		strings.Join(moodPair, " and "),
	)
}

func buildStyleAnalysisPrompt(memberName string, styleGuide domain.MemberStyleGuide, intensity domain.StyleIntensity) string {
	return fmt.Sprintf(`Based on %s's style applied at %s intensity, describe the transformation:

MEMBER STYLE:
- Makeup: %s
- Styling: %s
- Mood: %s

OUTPUT (JSON only):
{
  "makeup": ["적용된 메이크업 1", "적용된 메이크업 2", "적용된 메이크업 3"],
  "styling": ["적용된 스타일링 1", "적용된 스타일링 2"],
  "mood": "전체적인 분위기 한 문장 설명"
}`,
		memberName, intensity,
		strings.Join(styleGuide.MakeupFeatures, ", "),
		strings.Join(styleGuide.StylingFeatures, ", "),
		strings.Join(styleGuide.MoodKeywords, ", "),
	)
}
