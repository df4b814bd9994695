// Package repositories defines the persistence contracts consumed by the
// service layer and a dependency-probe health repository shared by the
// readiness endpoint.
package repositories

import (
	"context"

	domain "github.com/xlov-lab/experience-api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
}

// ResponseRepository persists finalized fan questionnaire submissions.
type ResponseRepository interface {
	Insert(ctx context.Context, response domain.FanResponse) error
	List(ctx context.Context, filter ResponseListFilter) ([]domain.FanResponse, error)
}

// ParticipationRepository maintains the running participation counters.
type ParticipationRepository interface {
	// Increment bumps both the member counter and the overall total in one
	// atomic step and returns the updated stats.
	Increment(ctx context.Context, memberID string) (domain.ParticipationStats, error)
	Stats(ctx context.Context) (domain.ParticipationStats, error)
}

// HealthRepository exposes status of downstream dependencies for health checks.
type HealthRepository interface {
	Collect(ctx context.Context) (domain.SystemHealthReport, error)
}

// ResponseListFilter narrows and bounds response listings. Results are always
// ordered newest first.
type ResponseListFilter struct {
	// Member restricts the listing to one member when non-empty.
	Member string
	// Limit caps the number of returned documents; zero means the
	// repository default.
	Limit int
}
