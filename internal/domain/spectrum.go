package domain

// AxisID identifies one of the four personality spectrum axes.
type AxisID string

const (
	// AxisLight spans introvert moonlight to extrovert sunlight.
	AxisLight AxisID = "light"
	// AxisTemperature spans cool dew to passionate flame.
	AxisTemperature AxisID = "temperature"
	// AxisTexture spans flowing water to unshakable rock.
	AxisTexture AxisID = "texture"
	// AxisTime spans quiet dawn to vivid dusk.
	AxisTime AxisID = "time"
)

// Axis is static metadata for one spectrum dimension. The value itself lives
// in AxisScore; axes are configuration and never change at runtime.
type Axis struct {
	ID         AxisID
	Label      string
	LeftLabel  string
	RightLabel string
	LeftIcon   string
	RightIcon  string
}

// QuestionOption pairs a display label with its weight in [-2, +2].
type QuestionOption struct {
	Value int
	Label string
}

// Question belongs to exactly one axis and offers five weighted options.
type Question struct {
	ID      string
	Text    string
	Axis    AxisID
	Options []QuestionOption
}

// AnswerSet maps question IDs to the selected option value. Unanswered
// questions are simply absent; they are excluded from aggregation rather
// than treated as zero.
type AnswerSet map[string]int

// AxisLevel buckets an axis score into one of three bands.
type AxisLevel string

const (
	// AxisLevelLow covers scores strictly below the low threshold.
	AxisLevelLow AxisLevel = "low"
	// AxisLevelMid covers the neutral band, thresholds inclusive.
	AxisLevelMid AxisLevel = "mid"
	// AxisLevelHigh covers scores strictly above the high threshold.
	AxisLevelHigh AxisLevel = "high"
)

// Archetype is a named personality category. Conditions is a partial
// predicate: axes it does not mention match any level. The default archetype
// has an empty condition set and is only used as the catch-all.
type Archetype struct {
	Key         string
	Name        string
	Description string
	Emoji       string
	Conditions  map[AxisID]AxisLevel
}

// MemberProfile is a fixed reference point in [0,100]^4 for one member.
type MemberProfile struct {
	MemberID string
	Values   map[AxisID]int
}

// AxisScore tags a derived 0-100 value with its axis metadata.
type AxisScore struct {
	Axis  Axis
	Value int
}

// MemberMatchItem is the similarity verdict for a single member.
type MemberMatchItem struct {
	MemberID   string
	Percentage int
	// ClosestAxis is the label of the axis where user and member differ the
	// least; callers use it to phrase the match reason.
	ClosestAxis string
}

// MemberMatch exposes the three named roles from the ranked similarity list.
type MemberMatch struct {
	SoulMate MemberMatchItem
	Hidden   MemberMatchItem
	Opposite MemberMatchItem
	Ranked   []MemberMatchItem
}

// SpectrumResult is the immutable output record of one scoring request.
type SpectrumResult struct {
	Axes      []AxisScore
	Archetype Archetype
	Match     MemberMatch
}

// PersonalityScenarios holds the four generated behaviour vignettes.
type PersonalityScenarios struct {
	Conflict  string `json:"conflict"`
	Stress    string `json:"stress"`
	Challenge string `json:"challenge"`
	Rest      string `json:"rest"`
}

// ChemistryStory holds the three generated soul-mate episodes.
type ChemistryStory struct {
	Travel  string `json:"travel"`
	Work    string `json:"work"`
	Support string `json:"support"`
}

// PersonalityAnalysis bundles the generated narrative content attached to a
// spectrum result.
type PersonalityAnalysis struct {
	Scenarios PersonalityScenarios
	Chemistry ChemistryStory
}
