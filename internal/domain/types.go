package domain

import "time"

// ProgramType identifies one of the three experience programs.
type ProgramType string

const (
	// ProgramCanvas is the prompt-driven portrait + scent program.
	ProgramCanvas ProgramType = "canvas"
	// ProgramMirror is the selfie style-transfer + scent program.
	ProgramMirror ProgramType = "mirror"
	// ProgramSpectrum is the personality quiz + member matching program.
	ProgramSpectrum ProgramType = "spectrum"
)

// Member describes one virtual idol member selectable across all programs.
type Member struct {
	ID             string
	Name           string
	EnglishName    string
	ReferenceImage string
	AccentColor    string
	Description    string
}

// CanvasAnswers carries the six free-form styling answers collected by the
// Canvas questionnaire.
type CanvasAnswers struct {
	Color     string
	Season    string
	TimeOfDay string
	Texture   string
	Emotion   string
	OneWord   string
}

// FanResponse is one finalized questionnaire submission stored for the
// participation counter and later aggregation.
type FanResponse struct {
	ID                string
	Member            string
	Color             string
	Season            string
	TimeOfDay         string
	Texture           string
	Emotion           string
	OneWord           string
	GeneratedImageURL string
	CreatedAt         time.Time
}

// ParticipationStats aggregates response counts for the public counter.
type ParticipationStats struct {
	Total     int64
	PerMember map[string]int64
}

// Health statuses reported per dependency and for the service overall.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
	HealthStatusError    = "error"
)

// SystemHealthCheck is the outcome of probing one dependency (Firestore,
// Pub/Sub, the generation API).
type SystemHealthCheck struct {
	Status    string
	Detail    string
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// SystemHealthReport folds all dependency probes plus build metadata into the
// readiness payload.
type SystemHealthReport struct {
	Status      string
	Checks      map[string]SystemHealthCheck
	Version     string
	CommitSHA   string
	Environment string
	Uptime      time.Duration
	GeneratedAt time.Time
}
