package domain

// StyleIntensity selects how strongly a member's style is applied to a selfie.
type StyleIntensity string

const (
	StyleIntensityLight  StyleIntensity = "light"
	StyleIntensityMedium StyleIntensity = "medium"
	StyleIntensityBold   StyleIntensity = "bold"
)

// StyleIntensityInfo is display metadata for one intensity option.
type StyleIntensityInfo struct {
	ID          StyleIntensity
	Label       string
	LabelEn     string
	Description string
}

// StyleIntensities lists the three selectable intensities in display order.
var StyleIntensities = []StyleIntensityInfo{
	{
		ID:          StyleIntensityLight,
		Label:       "은은하게",
		LabelEn:     "Light",
		Description: "자연스러운 터치로 멤버의 분위기만 살짝",
	},
	{
		ID:          StyleIntensityMedium,
		Label:       "적당히",
		LabelEn:     "Medium",
		Description: "멤버의 스타일과 나의 개성이 조화롭게",
	},
	{
		ID:          StyleIntensityBold,
		Label:       "과감하게",
		LabelEn:     "Bold",
		Description: "멤버의 시그니처 스타일로 강렬한 변신",
	},
}

// StyleIntensityByID looks up an intensity option.
func StyleIntensityByID(id StyleIntensity) (StyleIntensityInfo, bool) {
	for _, info := range StyleIntensities {
		if info.ID == id {
			return info, true
		}
	}
	return StyleIntensityInfo{}, false
}

// InfluencePercent maps an intensity to the member-influence percentage used
// both in prompts and in the returned recipe.
func (s StyleIntensity) InfluencePercent() int {
	switch s {
	case StyleIntensityLight:
		return 30
	case StyleIntensityMedium:
		return 60
	case StyleIntensityBold:
		return 90
	default:
		return 0
	}
}

// MemberStyleGuide captures a member's visual signature used to steer the
// selfie transformation.
type MemberStyleGuide struct {
	MemberID        string
	MemberName      string
	MakeupFeatures  []string
	StylingFeatures []string
	ColorPalette    []string
	MoodKeywords    []string
}

// MemberStyleGuides maps member IDs to their style guides.
var MemberStyleGuides = map[string]MemberStyleGuide{
	"umuti": {
		MemberID:        "umuti",
		MemberName:      "우무티",
		MakeupFeatures:  []string{"깊은 스모키 아이", "강렬한 아이라이너", "볼드 립", "컨투어링"},
		StylingFeatures: []string{"다크 시크", "엣지있는 액세서리", "레더 디테일", "올블랙 룩"},
		ColorPalette:    []string{"#1a1a2e", "#16213e", "#0f0f23", "#e94560"},
		MoodKeywords:    []string{"미스터리", "카리스마", "강렬함", "섹시"},
	},
	"rui": {
		MemberID:        "rui",
		MemberName:      "루이",
		MakeupFeatures:  []string{"청순한 내추럴 메이크업", "투명 글로시 립", "은은한 블러셔", "청초한 눈매"},
		StylingFeatures: []string{"로맨틱 무드", "파스텔 톤", "플로럴 디테일", "소프트한 질감"},
		ColorPalette:    []string{"#fdf5e6", "#f8e8ee", "#d4a5a5", "#9a8c98"},
		MoodKeywords:    []string{"청순", "우아", "로맨틱", "소프트"},
	},
	"hyun": {
		MemberID:        "hyun",
		MemberName:      "현",
		MakeupFeatures:  []string{"내추럴한 그루밍", "깔끔한 눈썹", "건강한 피부 톤", "남성적 컨투어"},
		StylingFeatures: []string{"캐주얼 시크", "스트릿 무드", "스포티 액센트", "데님 스타일"},
		ColorPalette:    []string{"#2d3436", "#636e72", "#b2bec3", "#dfe6e9"},
		MoodKeywords:    []string{"시크", "댄디", "스마트", "쿨"},
	},
	"haru": {
		MemberID:        "haru",
		MemberName:      "하루",
		MakeupFeatures:  []string{"생기있는 복숭아 메이크업", "스파클 아이", "글리터 포인트", "러블리 입술"},
		StylingFeatures: []string{"큐트 팝", "비비드 컬러", "유니크한 액세서리", "플레이풀 레이어링"},
		ColorPalette:    []string{"#ff6b6b", "#feca57", "#48dbfb", "#ff9ff3"},
		MoodKeywords:    []string{"활발", "귀여움", "에너지", "유쾌"},
	},
}

// AppliedStyle summarizes what the transformation actually changed.
type AppliedStyle struct {
	Makeup  []string `json:"makeup"`
	Styling []string `json:"styling"`
	Mood    string   `json:"mood"`
}

// MirrorResult is the full outcome of one selfie transformation.
type MirrorResult struct {
	OriginalImage    string       `json:"originalImage"`
	TransformedImage string       `json:"transformedImage"`
	StyleApplied     AppliedStyle `json:"styleApplied"`
	MemberInfluence  int          `json:"memberInfluence"`
}
