package domain

import "strings"

// ScentNote is one fragrance component with its visual colour.
type ScentNote struct {
	Name      string `json:"name"`
	NameEn    string `json:"nameEn"`
	Intensity int    `json:"intensity"`
	Color     string `json:"color"`
}

// MemberInfluence records how much each member contributed to a recipe,
// keyed by member ID, percentages summing to roughly 100.
type MemberInfluence map[string]int

// ScentRecipe is the full three-layer fragrance description returned by all
// programs.
type ScentRecipe struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Top             []ScentNote     `json:"top"`
	Middle          []ScentNote     `json:"middle"`
	Base            []ScentNote     `json:"base"`
	MemberInfluence MemberInfluence `json:"memberInfluence"`
	Mood            []string        `json:"mood"`
	Season          string          `json:"season"`
	TimeOfDay       string          `json:"timeOfDay"`
}

// ScentNoteRef is one library entry: a known note with its display colour.
type ScentNoteRef struct {
	Name   string
	NameEn string
	Color  string
}

// ScentNoteCategory groups library notes by olfactory family.
type ScentNoteCategory struct {
	Key   string
	Notes []ScentNoteRef
}

// ScentNoteLibrary lists every note the generation prompts may reference,
// grouped by category in presentation order.
var ScentNoteLibrary = []ScentNoteCategory{
	{Key: "citrus", Notes: []ScentNoteRef{
		{Name: "베르가못", NameEn: "Bergamot", Color: "#FFD700"},
		{Name: "자몽", NameEn: "Grapefruit", Color: "#FF6B6B"},
		{Name: "오렌지", NameEn: "Orange", Color: "#FFA500"},
		{Name: "레몬", NameEn: "Lemon", Color: "#FFF44F"},
		{Name: "유자", NameEn: "Yuzu", Color: "#F0E68C"},
		{Name: "그린애플", NameEn: "Green Apple", Color: "#7CFC00"},
		{Name: "만다린", NameEn: "Mandarin", Color: "#FF8C00"},
	}},
	{Key: "floral", Notes: []ScentNoteRef{
		{Name: "로즈", NameEn: "Rose", Color: "#FFB6C1"},
		{Name: "재스민", NameEn: "Jasmine", Color: "#FFFACD"},
		{Name: "피오니", NameEn: "Peony", Color: "#FFD1DC"},
		{Name: "매그놀리아", NameEn: "Magnolia", Color: "#FFF5EE"},
		{Name: "아이리스", NameEn: "Iris", Color: "#E6E6FA"},
		{Name: "바이올렛", NameEn: "Violet", Color: "#EE82EE"},
		{Name: "일랑일랑", NameEn: "Ylang Ylang", Color: "#FFFFE0"},
		{Name: "프리지아", NameEn: "Freesia", Color: "#FFFAF0"},
		{Name: "오렌지 블로썸", NameEn: "Orange Blossom", Color: "#FFF8DC"},
		{Name: "네롤리", NameEn: "Neroli", Color: "#FAFAD2"},
		{Name: "튜베로즈", NameEn: "Tuberose", Color: "#FFFAFA"},
	}},
	{Key: "green", Notes: []ScentNoteRef{
		{Name: "그린티", NameEn: "Green Tea", Color: "#90EE90"},
		{Name: "대나무", NameEn: "Bamboo", Color: "#7CFC00"},
		{Name: "민트", NameEn: "Mint", Color: "#98FF98"},
		{Name: "바질", NameEn: "Basil", Color: "#228B22"},
		{Name: "갈바넘", NameEn: "Galbanum", Color: "#9ACD32"},
		{Name: "그린 리프", NameEn: "Green Leaf", Color: "#32CD32"},
	}},
	{Key: "woody", Notes: []ScentNoteRef{
		{Name: "샌달우드", NameEn: "Sandalwood", Color: "#C19A6B"},
		{Name: "시더우드", NameEn: "Cedarwood", Color: "#8B4513"},
		{Name: "베티버", NameEn: "Vetiver", Color: "#556B2F"},
		{Name: "화이트시더", NameEn: "White Cedar", Color: "#D2B48C"},
		{Name: "캐시미어우드", NameEn: "Cashmere Wood", Color: "#DEB887"},
		{Name: "오드우드", NameEn: "Oud Wood", Color: "#4A3728"},
		{Name: "파촐리", NameEn: "Patchouli", Color: "#6B4423"},
	}},
	{Key: "warm", Notes: []ScentNoteRef{
		{Name: "앰버", NameEn: "Amber", Color: "#FFBF00"},
		{Name: "바닐라", NameEn: "Vanilla", Color: "#F3E5AB"},
		{Name: "시나몬", NameEn: "Cinnamon", Color: "#D2691E"},
		{Name: "통카빈", NameEn: "Tonka Bean", Color: "#8B4513"},
		{Name: "카라멜", NameEn: "Caramel", Color: "#FFD700"},
		{Name: "허니", NameEn: "Honey", Color: "#EB9605"},
	}},
	{Key: "musk", Notes: []ScentNoteRef{
		{Name: "화이트머스크", NameEn: "White Musk", Color: "#FFFAFA"},
		{Name: "머스크", NameEn: "Musk", Color: "#F5F5DC"},
		{Name: "프레시머스크", NameEn: "Fresh Musk", Color: "#F0FFFF"},
		{Name: "스킨머스크", NameEn: "Skin Musk", Color: "#FFE4E1"},
		{Name: "파우더리머스크", NameEn: "Powdery Musk", Color: "#FFF0F5"},
	}},
	{Key: "cool", Notes: []ScentNoteRef{
		{Name: "라벤더", NameEn: "Lavender", Color: "#E6E6FA"},
		{Name: "유칼립투스", NameEn: "Eucalyptus", Color: "#87CEEB"},
		{Name: "아쿠아", NameEn: "Aqua", Color: "#00CED1"},
		{Name: "씨솔트", NameEn: "Sea Salt", Color: "#B0E0E6"},
		{Name: "오존", NameEn: "Ozone", Color: "#ADD8E6"},
		{Name: "마린", NameEn: "Marine", Color: "#4682B4"},
	}},
	{Key: "spicy", Notes: []ScentNoteRef{
		{Name: "핑크페퍼", NameEn: "Pink Pepper", Color: "#FF69B4"},
		{Name: "카다멈", NameEn: "Cardamom", Color: "#DAA520"},
		{Name: "인센스", NameEn: "Incense", Color: "#696969"},
		{Name: "진저", NameEn: "Ginger", Color: "#FFD700"},
		{Name: "사프란", NameEn: "Saffron", Color: "#FF4500"},
		{Name: "블랙페퍼", NameEn: "Black Pepper", Color: "#2F4F4F"},
	}},
}

// FindScentNote looks a note up by Korean or English name.
func FindScentNote(name string) (ScentNoteRef, bool) {
	for _, category := range ScentNoteLibrary {
		for _, note := range category.Notes {
			if note.Name == name || strings.EqualFold(note.NameEn, name) {
				return note, true
			}
		}
	}
	return ScentNoteRef{}, false
}

// AllScentNotes flattens the library in declaration order.
func AllScentNotes() []ScentNoteRef {
	var notes []ScentNoteRef
	for _, category := range ScentNoteLibrary {
		notes = append(notes, category.Notes...)
	}
	return notes
}

// MemberSignatureScents maps each member to their canonical fragrance, used
// as the anchor reference in every scent generation prompt.
var MemberSignatureScents = map[string]ScentRecipe{
	"umuti": {
		Name:        "Warm Embrace",
		Description: "따뜻한 황금빛 포옹처럼 감싸주는 향",
		Top: []ScentNote{
			{Name: "베르가못", NameEn: "Bergamot", Intensity: 85, Color: "#FFD700"},
			{Name: "오렌지", NameEn: "Orange", Intensity: 70, Color: "#FFA500"},
		},
		Middle: []ScentNote{
			{Name: "재스민", NameEn: "Jasmine", Intensity: 75, Color: "#FFFACD"},
			{Name: "일랑일랑", NameEn: "Ylang Ylang", Intensity: 60, Color: "#FFFFE0"},
		},
		Base: []ScentNote{
			{Name: "앰버", NameEn: "Amber", Intensity: 90, Color: "#FFBF00"},
			{Name: "샌달우드", NameEn: "Sandalwood", Intensity: 80, Color: "#C19A6B"},
			{Name: "바닐라", NameEn: "Vanilla", Intensity: 50, Color: "#F3E5AB"},
		},
		MemberInfluence: MemberInfluence{"umuti": 100, "rui": 0, "hyun": 0, "haru": 0},
		Mood:            []string{"따뜻한", "포근한", "황금빛", "포용적인"},
		Season:          "가을",
		TimeOfDay:       "오후",
	},
	"rui": {
		Name:        "Midnight Blue",
		Description: "차가운 달빛 아래 신비로운 밤의 향",
		Top: []ScentNote{
			{Name: "라벤더", NameEn: "Lavender", Intensity: 80, Color: "#E6E6FA"},
			{Name: "민트", NameEn: "Mint", Intensity: 65, Color: "#98FF98"},
		},
		Middle: []ScentNote{
			{Name: "아이리스", NameEn: "Iris", Intensity: 85, Color: "#E6E6FA"},
			{Name: "바이올렛", NameEn: "Violet", Intensity: 70, Color: "#EE82EE"},
		},
		Base: []ScentNote{
			{Name: "머스크", NameEn: "Musk", Intensity: 90, Color: "#F5F5DC"},
			{Name: "시더우드", NameEn: "Cedarwood", Intensity: 75, Color: "#8B4513"},
			{Name: "베티버", NameEn: "Vetiver", Intensity: 60, Color: "#556B2F"},
		},
		MemberInfluence: MemberInfluence{"umuti": 0, "rui": 100, "hyun": 0, "haru": 0},
		Mood:            []string{"차가운", "신비로운", "세련된", "깊은"},
		Season:          "겨울",
		TimeOfDay:       "밤",
	},
	"hyun": {
		Name:        "Dawn Mist",
		Description: "새벽 안개처럼 부드럽고 몽환적인 향",
		Top: []ScentNote{
			{Name: "피오니", NameEn: "Peony", Intensity: 85, Color: "#FFD1DC"},
			{Name: "프리지아", NameEn: "Freesia", Intensity: 70, Color: "#FFFAF0"},
		},
		Middle: []ScentNote{
			{Name: "로즈", NameEn: "Rose", Intensity: 80, Color: "#FFB6C1"},
			{Name: "매그놀리아", NameEn: "Magnolia", Intensity: 65, Color: "#FFF5EE"},
		},
		Base: []ScentNote{
			{Name: "화이트머스크", NameEn: "White Musk", Intensity: 90, Color: "#FFFAFA"},
			{Name: "캐시미어우드", NameEn: "Cashmere Wood", Intensity: 70, Color: "#DEB887"},
		},
		MemberInfluence: MemberInfluence{"umuti": 0, "rui": 0, "hyun": 100, "haru": 0},
		Mood:            []string{"부드러운", "몽환적인", "로맨틱한", "새벽빛"},
		Season:          "봄",
		TimeOfDay:       "새벽",
	},
	"haru": {
		Name:        "Spring Breeze",
		Description: "싱그러운 봄바람처럼 생기 넘치는 향",
		Top: []ScentNote{
			{Name: "자몽", NameEn: "Grapefruit", Intensity: 85, Color: "#FF6B6B"},
			{Name: "그린애플", NameEn: "Green Apple", Intensity: 75, Color: "#7CFC00"},
		},
		Middle: []ScentNote{
			{Name: "그린티", NameEn: "Green Tea", Intensity: 80, Color: "#90EE90"},
			{Name: "대나무", NameEn: "Bamboo", Intensity: 65, Color: "#7CFC00"},
		},
		Base: []ScentNote{
			{Name: "화이트시더", NameEn: "White Cedar", Intensity: 75, Color: "#D2B48C"},
			{Name: "프레시머스크", NameEn: "Fresh Musk", Intensity: 85, Color: "#F0FFFF"},
		},
		MemberInfluence: MemberInfluence{"umuti": 0, "rui": 0, "hyun": 0, "haru": 100},
		Mood:            []string{"싱그러운", "생기있는", "청량한", "활발한"},
		Season:          "봄",
		TimeOfDay:       "아침",
	},
}

// SignatureScent returns a member's canonical fragrance, if one is declared.
func SignatureScent(memberID string) (ScentRecipe, bool) {
	recipe, ok := MemberSignatureScents[memberID]
	return recipe, ok
}
