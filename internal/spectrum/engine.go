// Package spectrum implements the personality scoring pipeline: answer
// aggregation into axis scores, archetype classification, and member
// similarity matching. Everything here is pure and deterministic; generated
// narrative content lives in the services layer.
package spectrum

import (
	"fmt"
	"math"
	"sort"

	"github.com/xlov-lab/experience-api/internal/domain"
)

const (
	axisCount = 4
	axisMax   = 100

	// Axis scores strictly below lowThreshold classify as low, strictly
	// above highThreshold as high. The thresholds themselves are mid.
	lowThreshold  = 35
	highThreshold = 65

	// neutralScore is used for an axis with no answered questions.
	neutralScore = 50

	// maxDistance is the Euclidean diameter of the score space,
	// sqrt(axisCount * axisMax^2).
	maxDistance = 200.0

	optionMin = -2
	optionMax = 2
)

// ErrNoAnswers is returned when an answer set contains no recognized answers.
var ErrNoAnswers = fmt.Errorf("spectrum: no answers provided")

// InvalidAnswerError reports an answer that cannot participate in scoring,
// either because the question is unknown or the value is out of range.
type InvalidAnswerError struct {
	QuestionID string
	Value      int
	Reason     string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("spectrum: invalid answer %q=%d: %s", e.QuestionID, e.Value, e.Reason)
}

// Scores aggregates answers into one 0-100 score per axis. Each answered
// question contributes its option value to its axis; the axis average in
// [-2,+2] maps linearly onto [0,100]. Axes with no answers score neutral.
func Scores(answers domain.AnswerSet) (map[domain.AxisID]int, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	for id, value := range answers {
		if _, ok := domain.QuestionByID(id); !ok {
			return nil, &InvalidAnswerError{QuestionID: id, Value: value, Reason: "unknown question"}
		}
		if value < optionMin || value > optionMax {
			return nil, &InvalidAnswerError{QuestionID: id, Value: value, Reason: "value out of range"}
		}
	}

	type accumulator struct {
		sum   int
		count int
	}
	acc := make(map[domain.AxisID]*accumulator, axisCount)
	for _, axis := range domain.SpectrumAxes {
		acc[axis.ID] = &accumulator{}
	}
	for _, q := range domain.SpectrumQuestions {
		value, ok := answers[q.ID]
		if !ok {
			continue
		}
		acc[q.Axis].sum += value
		acc[q.Axis].count++
	}

	scores := make(map[domain.AxisID]int, axisCount)
	for axisID, a := range acc {
		if a.count == 0 {
			scores[axisID] = neutralScore
			continue
		}
		avg := float64(a.sum) / float64(a.count)
		scores[axisID] = int(math.Round((avg + float64(optionMax)) / float64(optionMax-optionMin) * axisMax))
	}
	return scores, nil
}

// Level buckets a 0-100 score into low, mid, or high.
func Level(score int) domain.AxisLevel {
	switch {
	case score < lowThreshold:
		return domain.AxisLevelLow
	case score > highThreshold:
		return domain.AxisLevelHigh
	default:
		return domain.AxisLevelMid
	}
}

// Classify walks the archetype catalog in declared order and returns the
// first entry whose conditions all hold. Conditions are partial: an axis the
// archetype does not mention matches any level. Falls back to the default
// archetype when nothing matches.
func Classify(scores map[domain.AxisID]int) domain.Archetype {
	levels := make(map[domain.AxisID]domain.AxisLevel, axisCount)
	for axisID, score := range scores {
		levels[axisID] = Level(score)
	}

	for _, archetype := range domain.Archetypes {
		matched := true
		for axisID, want := range archetype.Conditions {
			if levels[axisID] != want {
				matched = false
				break
			}
		}
		if matched {
			return archetype
		}
	}
	return domain.DefaultArchetype
}

// Match ranks every member profile by Euclidean similarity to the user's
// scores. Missing axes default to neutral. The sort is stable, so members
// with equal percentages keep catalog order. Roles: soul mate is the best
// match, hidden the runner-up (falling back to the best when only one member
// exists), opposite the worst.
func Match(scores map[domain.AxisID]int) domain.MemberMatch {
	ranked := make([]domain.MemberMatchItem, 0, len(domain.MemberProfiles))

	for _, profile := range domain.MemberProfiles {
		var sumSquares float64
		closestAxis := ""
		minDiff := math.Inf(1)
		for _, axis := range domain.SpectrumAxes {
			userVal, ok := scores[axis.ID]
			if !ok {
				userVal = neutralScore
			}
			diff := float64(userVal - profile.Values[axis.ID])
			sumSquares += diff * diff
			if abs := math.Abs(diff); abs < minDiff {
				minDiff = abs
				closestAxis = axis.Label
			}
		}
		distance := math.Sqrt(sumSquares)
		percentage := int(math.Round(math.Max(0, (1-distance/maxDistance)*axisMax)))

		ranked = append(ranked, domain.MemberMatchItem{
			MemberID:    profile.MemberID,
			Percentage:  percentage,
			ClosestAxis: closestAxis,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percentage > ranked[j].Percentage
	})

	match := domain.MemberMatch{Ranked: ranked}
	if len(ranked) == 0 {
		return match
	}
	match.SoulMate = ranked[0]
	match.Hidden = ranked[0]
	if len(ranked) > 1 {
		match.Hidden = ranked[1]
	}
	match.Opposite = ranked[len(ranked)-1]
	return match
}

// Analyze runs the full pipeline: scores, archetype, and member match.
func Analyze(answers domain.AnswerSet) (domain.SpectrumResult, error) {
	scores, err := Scores(answers)
	if err != nil {
		return domain.SpectrumResult{}, err
	}

	axes := make([]domain.AxisScore, 0, axisCount)
	for _, axis := range domain.SpectrumAxes {
		axes = append(axes, domain.AxisScore{Axis: axis, Value: scores[axis.ID]})
	}

	return domain.SpectrumResult{
		Axes:      axes,
		Archetype: Classify(scores),
		Match:     Match(scores),
	}, nil
}
