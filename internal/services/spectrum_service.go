package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/requestctx"
	"github.com/xlov-lab/experience-api/internal/spectrum"
)

// SpectrumServiceDeps bundles collaborators required to construct a spectrum service.
type SpectrumServiceDeps struct {
	Generator Generator
}

type spectrumService struct {
	generator Generator
}

var _ SpectrumService = (*spectrumService)(nil)

// NewSpectrumService assembles the spectrum analysis service.
func NewSpectrumService(deps SpectrumServiceDeps) (SpectrumService, error) {
	if deps.Generator == nil {
		return nil, errors.New("spectrum service: generator is required")
	}
	return &spectrumService{generator: deps.Generator}, nil
}

func (s *spectrumService) Analyze(ctx context.Context, answers domain.AnswerSet) (SpectrumAnalysis, error) {
	result, err := spectrum.Analyze(answers)
	if err != nil {
		return SpectrumAnalysis{}, err
	}

	scores := make(map[domain.AxisID]int, len(result.Axes))
	for _, axis := range result.Axes {
		scores[axis.Axis.ID] = axis.Value
	}

	soulMate := result.Match.SoulMate
	soulMateName := soulMate.MemberID
	if member, ok := domain.MemberByID(soulMate.MemberID); ok {
		soulMateName = member.Name
	}

	var (
		scentData generatedScent
		scenarios domain.PersonalityScenarios
		chemistry domain.ChemistryStory
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		prompt := buildSpectrumScentPrompt(scores, result.Archetype, soulMateName, soulMate.Percentage)
		if err := s.generator.GenerateJSON(groupCtx, prompt,
			"당신은 전문 조향사입니다. 성격 분석을 기반으로 맞춤 향수 레시피를 생성합니다.",
			&scentData,
		); err != nil {
			return newGenerationError("scent", err)
		}
		return nil
	})
	group.Go(func() error {
		prompt := buildScenariosPrompt(scores, result.Archetype)
		if err := s.generator.GenerateJSON(groupCtx, prompt,
			`당신은 재미있고 공감되는 성격 분석 전문가입니다. MBTI 밈 스타일로 성격을 묘사하며, 사용자가 "아 맞아! 완전 나야!"라고 반응하게 만듭니다.`,
			&scenarios,
		); err != nil {
			return newGenerationError("scenarios", err)
		}
		return nil
	})
	group.Go(func() error {
		prompt := buildChemistryPrompt(scores, result.Archetype, soulMate)
		if err := s.generator.GenerateJSON(groupCtx, prompt,
			"당신은 K-POP 팬픽 작가입니다. 구체적이고 재미있는 에피소드를 상상하며, 팬들이 공감하고 설레는 스토리를 만듭니다.",
			&chemistry,
		); err != nil {
			return newGenerationError("chemistry", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		requestctx.Logger(ctx).Warn("spectrum generation failed",
			zap.String("archetype", result.Archetype.Key),
			zap.Error(err),
		)
		return SpectrumAnalysis{}, err
	}

	scent := domain.ScentRecipe{
		Name:            scentData.Name,
		Description:     scentData.Description,
		Top:             mapGeneratedNotes(scentData.Top),
		Middle:          mapGeneratedNotes(scentData.Middle),
		Base:            mapGeneratedNotes(scentData.Base),
		MemberInfluence: matchInfluence(result.Match),
		Mood:            scentData.Mood,
		Season:          scentData.Season,
		TimeOfDay:       scentData.TimeOfDay,
	}

	return SpectrumAnalysis{
		Result: result,
		Scent:  scent,
		Personality: domain.PersonalityAnalysis{
			Scenarios: scenarios,
			Chemistry: chemistry,
		},
	}, nil
}

// matchInfluence projects the ranked match percentages onto the member catalog.
func matchInfluence(match domain.MemberMatch) domain.MemberInfluence {
	influence := make(domain.MemberInfluence, len(domain.Members))
	for _, member := range domain.Members {
		influence[member.ID] = 0
	}
	for _, item := range match.Ranked {
		influence[item.MemberID] = item.Percentage
	}
	return influence
}

func halfWord(score int, below, above string) string {
	if score < 50 {
		return below
	}
	return above
}

func bandWord(score int, low, high, mid string) string {
	switch {
	case score < 35:
		return low
	case score > 65:
		return high
	default:
		return mid
	}
}

func buildSpectrumScentPrompt(scores map[domain.AxisID]int, archetype domain.Archetype, soulMateName string, soulMatePercentage int) string {
	return fmt.Sprintf(`당신은 조향사입니다. 사용자의 성격 스펙트럼을 기반으로 맞춤 향수 레시피를 생성해주세요.

사용자 스펙트럼:
- 빛의 방향 (달↔태양): %d/100 (%s)
- 감정의 온도 (이슬↔불꽃): %d/100 (%s)
- 존재의 질감 (물↔바위): %d/100 (%s)
- 시간의 결 (새벽↔황혼): %d/100 (%s)

아키타입: %s - %s

가장 유사한 멤버: %s (%d%%)

다음 JSON 형식으로 응답해주세요:
{
  "name": "향수 이름 (영문 2-4단어)",
  "description": "이 향의 설명 (한국어, 1-2문장)",
  "top": [
    {"name": "한국어 이름", "nameEn": "English Name", "intensity": 60-90, "color": "#HEX"}
  ],
  "middle": [
    {"name": "한국어 이름", "nameEn": "English Name", "intensity": 50-80, "color": "#HEX"}
  ],
  "base": [
    {"name": "한국어 이름", "nameEn": "English Name", "intensity": 40-70, "color": "#HEX"}
  ],
  "mood": ["분위기1", "분위기2", "분위기3"],
  "season": "어울리는 계절",
  "timeOfDay": "어울리는 시간대"
}

규칙:
- TOP 노트 2-3개: 첫인상의 향 (시트러스, 허브, 그린 계열)
- MIDDLE 노트 2-3개: 핵심 캐릭터 (플로럴, 스파이시, 프루티 계열)
- BASE 노트 2-3개: 지속성 (우디, 앰버, 머스크 계열)
- 빛 값이 낮으면 차분하고 신비로운 향, 높으면 밝고 발랄한 향
- 온도 값이 낮으면 쿨하고 프레시한 향, 높으면 따뜻하고 관능적인 향
- 질감 값이 낮으면 가볍고 유연한 향, 높으면 묵직하고 깊은 향
- 시간 값이 낮으면 청량하고 새벽 느낌, 높으면 풍부하고 저녁 느낌`,
		scores[domain.AxisLight], halfWord(scores[domain.AxisLight], "내향적", "외향적"),
		scores[domain.AxisTemperature], halfWord(scores[domain.AxisTemperature], "차분", "열정적"),
		scores[domain.AxisTexture], halfWord(scores[domain.AxisTexture], "유연", "단단"),
		scores[domain.AxisTime], halfWord(scores[domain.AxisTime], "여유로움", "역동적"),
		archetype.Name, archetype.Description,
		soulMateName, soulMatePercentage,
	)
}

func buildScenariosPrompt(scores map[domain.AxisID]int, archetype domain.Archetype) string {
	return fmt.Sprintf(`당신은 성격 분석 전문가입니다. 사용자의 성격 스펙트럼을 기반으로 4가지 상황에서 어떻게 행동할지 재미있고 공감되게 묘사해주세요.

사용자 프로필:
- 빛의 방향 (달↔태양): %d/100 (%s)
- 감정의 온도 (이슬↔불꽃): %d/100 (%s)
- 존재의 질감 (물↔바위): %d/100 (%s)
- 시간의 결 (새벽↔황혼): %d/100 (%s)

아키타입: %s %s
특징: %s

다음 4가지 상황에서 이 사용자가 어떻게 행동할지 재미있고 공감되게 묘사해주세요 (각 2-3문장, 이모지 활용):

1. 갈등 상황에서: 친구와 의견이 충돌했을 때 어떻게 반응할까요?
2. 스트레스 받을 때: 압박감이 심할 때 어떻게 대처할까요?
3. 새로운 도전 앞에서: 처음 해보는 일을 제안받았을 때 어떻게 반응할까요?
4. 휴식이 필요할 때: 재충전이 필요할 때 어떤 방식으로 쉴까요?

톤앤매너: 친구가 설명해주듯 재미있게, MBTI 밈 스타일 ("완전 이거다 ㅋㅋ", "아 맞아! 이게 나지!")

JSON 형식으로 응답:
{
  "conflict": "갈등 상황 설명 (2-3문장, 이모지 포함)",
  "stress": "스트레스 상황 설명 (2-3문장, 이모지 포함)",
  "challenge": "도전 상황 설명 (2-3문장, 이모지 포함)",
  "rest": "휴식 방법 설명 (2-3문장, 이모지 포함)"
}`,
		scores[domain.AxisLight], bandWord(scores[domain.AxisLight], "완전 내향", "완전 외향", "중립"),
		scores[domain.AxisTemperature], bandWord(scores[domain.AxisTemperature], "쿨함", "뜨거움", "적당함"),
		scores[domain.AxisTexture], bandWord(scores[domain.AxisTexture], "유연함", "단단함", "균형"),
		scores[domain.AxisTime], bandWord(scores[domain.AxisTime], "여유로움", "역동적", "적당함"),
		archetype.Emoji, archetype.Name,
		archetype.Description,
	)
}

func buildChemistryPrompt(scores map[domain.AxisID]int, archetype domain.Archetype, soulMate domain.MemberMatchItem) string {
	soulMateName := soulMate.MemberID
	if member, ok := domain.MemberByID(soulMate.MemberID); ok {
		soulMateName = member.Name
	}

	profile := map[domain.AxisID]int{
		domain.AxisLight:       50,
		domain.AxisTemperature: 50,
		domain.AxisTexture:     50,
		domain.AxisTime:        50,
	}
	for _, candidate := range domain.MemberProfiles {
		if candidate.MemberID == soulMate.MemberID {
			for axis, value := range candidate.Values {
				profile[axis] = value
			}
			break
		}
	}

	return fmt.Sprintf(`당신은 K-POP 팬픽 작가입니다. 사용자와 가장 궁합이 좋은 멤버의 케미스트리를 구체적이고 재미있게 상상해서 작성해주세요.

사용자 프로필:
- 빛: %d/100, 온도: %d/100, 질감: %d/100, 시간: %d/100
- 아키타입: %s %s

Soul Mate 멤버: %s
- 빛: %d/100, 온도: %d/100, 질감: %d/100, 시간: %d/100
- 유사도: %d%%

다음 3가지 에피소드를 구체적으로 상상해서 작성 (각 3-4문장, 이모지 활용):

1. 함께 여행 간다면?: 어디로 가고, 무엇을 하며, 어떤 케미가 발생할까요?
2. 같이 일한다면?: 프로젝트를 함께 진행할 때 어떤 시너지가 날까요?
3. 힘든 일 생겼을 때?: 한 명이 힘들 때 다른 한 명은 어떻게 도와줄까요?

톤앤매너: "완전 케미 ㅋㅋ", "아 이거 진짜!", "소울메이트 맞네" 같은 공감 표현 사용

JSON 형식으로 응답:
{
  "travel": "여행 에피소드 (3-4문장, 이모지 포함)",
  "work": "협업 에피소드 (3-4문장, 이모지 포함)",
  "support": "위로 에피소드 (3-4문장, 이모지 포함)"
}`,
		scores[domain.AxisLight], scores[domain.AxisTemperature], scores[domain.AxisTexture], scores[domain.AxisTime],
		archetype.Emoji, archetype.Name,
		soulMateName,
		profile[domain.AxisLight], profile[domain.AxisTemperature], profile[domain.AxisTexture], profile[domain.AxisTime],
		soulMate.Percentage,
	)
}
