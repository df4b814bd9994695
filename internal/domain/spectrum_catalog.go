package domain

// SpectrumAxes lists the four axes in presentation order.
var SpectrumAxes = []Axis{
	{
		ID:         AxisLight,
		Label:      "빛의 방향",
		LeftLabel:  "달",
		RightLabel: "태양",
		LeftIcon:   "🌙",
		RightIcon:  "☀️",
	},
	{
		ID:         AxisTemperature,
		Label:      "감정의 온도",
		LeftLabel:  "이슬",
		RightLabel: "불꽃",
		LeftIcon:   "💧",
		RightIcon:  "🔥",
	},
	{
		ID:         AxisTexture,
		Label:      "존재의 질감",
		LeftLabel:  "물",
		RightLabel: "바위",
		LeftIcon:   "🌊",
		RightIcon:  "🪨",
	},
	{
		ID:         AxisTime,
		Label:      "시간의 결",
		LeftLabel:  "새벽",
		RightLabel: "황혼",
		LeftIcon:   "🌅",
		RightIcon:  "🌇",
	},
}

// SpectrumQuestions is the fixed 12-question corpus, three per axis.
var SpectrumQuestions = []Question{
	{
		ID:   "light-1",
		Text: "에너지를 얻는 방식은?",
		Axis: AxisLight,
		Options: []QuestionOption{
			{Value: -2, Label: "혼자만의 시간이 절대적으로 필요해"},
			{Value: -1, Label: "대체로 혼자 있을 때 충전돼"},
			{Value: 0, Label: "상황에 따라 달라"},
			{Value: 1, Label: "사람들과 있을 때 기운이 나"},
			{Value: 2, Label: "사람들 속에서 에너지가 폭발해"},
		},
	},
	{
		ID:   "light-2",
		Text: "새로운 사람을 만날 때?",
		Axis: AxisLight,
		Options: []QuestionOption{
			{Value: -2, Label: "많이 긴장되고 피하고 싶어"},
			{Value: -1, Label: "조금 긴장되지만 괜찮아"},
			{Value: 0, Label: "상대에 따라 다르게 느껴"},
			{Value: 1, Label: "새로운 만남이 기대돼"},
			{Value: 2, Label: "새 친구를 사귀는 게 너무 좋아"},
		},
	},
	{
		ID:   "light-3",
		Text: "주말에 가장 하고 싶은 건?",
		Axis: AxisLight,
		Options: []QuestionOption{
			{Value: -2, Label: "집에서 나만의 시간 보내기"},
			{Value: -1, Label: "조용한 카페에서 책 읽기"},
			{Value: 0, Label: "그때그때 달라"},
			{Value: 1, Label: "친구들과 가볍게 만나기"},
			{Value: 2, Label: "많은 사람들과 파티하기"},
		},
	},
	{
		ID:   "temp-1",
		Text: "감정을 표현하는 방식은?",
		Axis: AxisTemperature,
		Options: []QuestionOption{
			{Value: -2, Label: "거의 표현하지 않아"},
			{Value: -1, Label: "절제해서 표현하는 편"},
			{Value: 0, Label: "상황에 맞게 조절해"},
			{Value: 1, Label: "솔직하게 표현하는 편"},
			{Value: 2, Label: "감정이 바로바로 드러나"},
		},
	},
	{
		ID:   "temp-2",
		Text: "누군가 힘들어할 때?",
		Axis: AxisTemperature,
		Options: []QuestionOption{
			{Value: -2, Label: "거리를 두고 지켜봐"},
			{Value: -1, Label: "조용히 곁에 있어줘"},
			{Value: 0, Label: "상대가 원하는 대로 맞춰"},
			{Value: 1, Label: "따뜻한 말로 위로해"},
			{Value: 2, Label: "꼭 안아주고 싶어"},
		},
	},
	{
		ID:   "temp-3",
		Text: "좋아하는 분위기는?",
		Axis: AxisTemperature,
		Options: []QuestionOption{
			{Value: -2, Label: "쿨하고 절제된 분위기"},
			{Value: -1, Label: "차분하고 정돈된 분위기"},
			{Value: 0, Label: "어떤 분위기든 괜찮아"},
			{Value: 1, Label: "따뜻하고 편안한 분위기"},
			{Value: 2, Label: "정열적이고 뜨거운 분위기"},
		},
	},
	{
		ID:   "texture-1",
		Text: "변화에 대한 태도는?",
		Axis: AxisTexture,
		Options: []QuestionOption{
			{Value: -2, Label: "변화가 자연스럽고 좋아"},
			{Value: -1, Label: "유연하게 적응하는 편"},
			{Value: 0, Label: "상황에 따라 달라"},
			{Value: 1, Label: "안정적인 게 더 좋아"},
			{Value: 2, Label: "확고한 것이 좋아"},
		},
	},
	{
		ID:   "texture-2",
		Text: "결정을 내릴 때?",
		Axis: AxisTexture,
		Options: []QuestionOption{
			{Value: -2, Label: "흐름에 맡기는 편"},
			{Value: -1, Label: "직감을 따르는 편"},
			{Value: 0, Label: "때에 따라 다르게"},
			{Value: 1, Label: "신중하게 고민하는 편"},
			{Value: 2, Label: "원칙과 논리로 결정해"},
		},
	},
	{
		ID:   "texture-3",
		Text: "나를 표현하자면?",
		Axis: AxisTexture,
		Options: []QuestionOption{
			{Value: -2, Label: "흐르는 물처럼 유연해"},
			{Value: -1, Label: "부드럽게 맞춰가는 편"},
			{Value: 0, Label: "상황에 따라 달라져"},
			{Value: 1, Label: "꽤 단단한 편이야"},
			{Value: 2, Label: "바위처럼 흔들리지 않아"},
		},
	},
	{
		ID:   "time-1",
		Text: "일을 처리하는 방식은?",
		Axis: AxisTime,
		Options: []QuestionOption{
			{Value: -2, Label: "천천히 완벽하게"},
			{Value: -1, Label: "여유롭게 진행하는 편"},
			{Value: 0, Label: "상황에 맞게 조절해"},
			{Value: 1, Label: "빠르게 처리하는 편"},
			{Value: 2, Label: "에너지 넘치게 돌진해"},
		},
	},
	{
		ID:   "time-2",
		Text: "하루 중 가장 좋아하는 시간?",
		Axis: AxisTime,
		Options: []QuestionOption{
			{Value: -2, Label: "고요한 새벽이 좋아"},
			{Value: -1, Label: "조용한 아침이 좋아"},
			{Value: 0, Label: "딱히 상관없어"},
			{Value: 1, Label: "활기찬 오후가 좋아"},
			{Value: 2, Label: "화려한 밤이 좋아"},
		},
	},
	{
		ID:   "time-3",
		Text: "이상적인 삶의 템포는?",
		Axis: AxisTime,
		Options: []QuestionOption{
			{Value: -2, Label: "느리고 깊은 삶"},
			{Value: -1, Label: "여유로운 흐름"},
			{Value: 0, Label: "균형 잡힌 리듬"},
			{Value: 1, Label: "활발한 일상"},
			{Value: 2, Label: "역동적이고 빠른 삶"},
		},
	},
}

// MemberProfiles lists the fixed reference points for similarity matching.
// Declaration order doubles as the tie-break order when two members score the
// same percentage.
var MemberProfiles = []MemberProfile{
	{MemberID: "umuti", Values: map[AxisID]int{AxisLight: 75, AxisTemperature: 85, AxisTexture: 70, AxisTime: 80}},
	{MemberID: "rui", Values: map[AxisID]int{AxisLight: 25, AxisTemperature: 20, AxisTexture: 75, AxisTime: 30}},
	{MemberID: "hyun", Values: map[AxisID]int{AxisLight: 35, AxisTemperature: 65, AxisTexture: 25, AxisTime: 25}},
	{MemberID: "haru", Values: map[AxisID]int{AxisLight: 80, AxisTemperature: 50, AxisTexture: 30, AxisTime: 85}},
}

// Archetypes is the ordered condition catalog. Classification walks this
// slice front to back and returns the first archetype whose conditions all
// hold, so the order here is load-bearing.
var Archetypes = []Archetype{
	{
		Key:         "quiet_mist",
		Name:        "고요한 안개",
		Description: "깊은 내면에서 잔잔하게 퍼져나가는 부드러운 존재",
		Emoji:       "🌫️",
		Conditions:  map[AxisID]AxisLevel{AxisLight: AxisLevelLow, AxisTemperature: AxisLevelLow, AxisTexture: AxisLevelLow, AxisTime: AxisLevelLow},
	},
	{
		Key:         "warm_mist",
		Name:        "따스한 안개",
		Description: "고요한 외면 속에 따뜻한 마음을 품은 존재",
		Emoji:       "🕯️",
		Conditions:  map[AxisID]AxisLevel{AxisLight: AxisLevelLow, AxisTemperature: AxisLevelHigh, AxisTexture: AxisLevelLow, AxisTime: AxisLevelLow},
	},
	{
		Key:         "blazing_lava",
		Name:        "빛나는 용암",
		Description: "뜨겁고 강렬한 에너지로 주변을 밝히는 존재",
		Emoji:       "🌋",
		Conditions:  map[AxisID]AxisLevel{AxisLight: AxisLevelHigh, AxisTemperature: AxisLevelHigh, AxisTexture: AxisLevelHigh, AxisTime: AxisLevelHigh},
	},
	{
		Key:         "quiet_ice",
		Name:        "고요한 얼음",
		Description: "차분하고 단단한 내면을 지닌 깊은 존재",
		Emoji:       "🧊",
		Conditions:  map[AxisID]AxisLevel{AxisLight: AxisLevelLow, AxisTemperature: AxisLevelLow, AxisTexture: AxisLevelHigh, AxisTime: AxisLevelLow},
	},
	{
		Key:         "sparkling_wave",
		Name:        "반짝이는 파도",
		Description: "밝고 유연하게 세상을 누비는 자유로운 존재",
		Emoji:       "🌊",
		Conditions:  map[AxisID]AxisLevel{AxisLight: AxisLevelHigh, AxisTemperature: AxisLevelLow, AxisTexture: AxisLevelLow, AxisTime: AxisLevelHigh},
	},
	{
		Key:         "balanced_rainbow",
		Name:        "조화로운 무지개",
		Description: "다양한 색을 품고 균형을 이루는 존재",
		Emoji:       "🌈",
		Conditions:  map[AxisID]AxisLevel{AxisLight: AxisLevelMid, AxisTemperature: AxisLevelMid, AxisTexture: AxisLevelMid, AxisTime: AxisLevelMid},
	},
}

// DefaultArchetype is the catch-all returned when no catalog entry matches.
var DefaultArchetype = Archetype{
	Key:         "default",
	Name:        "신비로운 오로라",
	Description: "예측할 수 없는 아름다움을 지닌 독특한 존재",
	Emoji:       "✨",
	Conditions:  map[AxisID]AxisLevel{},
}

// AxisByID returns the axis metadata for the given identifier.
func AxisByID(id AxisID) (Axis, bool) {
	for _, axis := range SpectrumAxes {
		if axis.ID == id {
			return axis, true
		}
	}
	return Axis{}, false
}

// QuestionByID returns the question with the given identifier.
func QuestionByID(id string) (Question, bool) {
	for _, q := range SpectrumQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionsByAxis returns the questions belonging to one axis in corpus order.
func QuestionsByAxis(axis AxisID) []Question {
	var questions []Question
	for _, q := range SpectrumQuestions {
		if q.Axis == axis {
			questions = append(questions, q)
		}
	}
	return questions
}
