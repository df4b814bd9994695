package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	domain "github.com/xlov-lab/experience-api/internal/domain"
)

const defaultDependencyTimeout = 1500 * time.Millisecond

// DependencyCheck probes one downstream dependency. Timeout bounds a single
// probe; zero means the repository default applies.
type DependencyCheck struct {
	Name    string
	Timeout time.Duration
	Check   func(context.Context) error
}

// DependencyHealthOption customises the dependency-backed health repository.
type DependencyHealthOption func(*dependencyHealthRepository)

// WithDependencyTimeout sets the probe timeout used when a check carries none.
func WithDependencyTimeout(timeout time.Duration) DependencyHealthOption {
	return func(repo *dependencyHealthRepository) {
		if timeout > 0 {
			repo.probeTimeout = timeout
		}
	}
}

// WithDependencyClock injects a custom clock, primarily for tests.
func WithDependencyClock(clock func() time.Time) DependencyHealthOption {
	return func(repo *dependencyHealthRepository) {
		if clock != nil {
			repo.clock = clock
		}
	}
}

type dependencyHealthRepository struct {
	checks       []DependencyCheck
	probeTimeout time.Duration
	clock        func() time.Time
}

var _ HealthRepository = (*dependencyHealthRepository)(nil)

// NewDependencyHealthRepository builds a HealthRepository that runs every
// registered probe concurrently on Collect.
func NewDependencyHealthRepository(checks []DependencyCheck, opts ...DependencyHealthOption) (HealthRepository, error) {
	if len(checks) == 0 {
		return nil, errors.New("health repository: no dependency checks registered")
	}
	for i, check := range checks {
		if strings.TrimSpace(check.Name) == "" {
			return nil, fmt.Errorf("health repository: check %d has no name", i)
		}
		if check.Check == nil {
			return nil, fmt.Errorf("health repository: check %q has no probe function", check.Name)
		}
	}

	repo := &dependencyHealthRepository{
		checks:       append([]DependencyCheck(nil), checks...),
		probeTimeout: defaultDependencyTimeout,
		clock:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}
	return repo, nil
}

// Collect probes every dependency in parallel and folds the individual
// outcomes into one report. Probe failures are recorded, not returned.
func (r *dependencyHealthRepository) Collect(ctx context.Context) (domain.SystemHealthReport, error) {
	if ctx == nil {
		return domain.SystemHealthReport{}, errors.New("health repository: context is required")
	}

	outcomes := make([]domain.SystemHealthCheck, len(r.checks))
	group, groupCtx := errgroup.WithContext(ctx)
	for i := range r.checks {
		i := i
		group.Go(func() error {
			outcomes[i] = r.probe(groupCtx, r.checks[i])
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return domain.SystemHealthReport{}, err
	}

	results := make(map[string]domain.SystemHealthCheck, len(outcomes))
	overall := domain.HealthStatusOK
	for i, outcome := range outcomes {
		results[r.checks[i].Name] = outcome
		overall = worseStatus(overall, outcome.Status)
	}

	return domain.SystemHealthReport{
		Status:      overall,
		Checks:      results,
		GeneratedAt: r.clock(),
	}, nil
}

func (r *dependencyHealthRepository) probe(ctx context.Context, check DependencyCheck) domain.SystemHealthCheck {
	timeout := check.Timeout
	if timeout <= 0 {
		timeout = r.probeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := r.clock()
	err := check.Check(probeCtx)
	finished := r.clock()
	if err == nil && probeCtx.Err() != nil {
		err = probeCtx.Err()
	}

	result := domain.SystemHealthCheck{
		Status:    domain.HealthStatusOK,
		Detail:    "ok",
		Latency:   finished.Sub(started),
		CheckedAt: finished,
	}
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		result.Status = domain.HealthStatusError
		result.Detail = "timeout"
		result.Error = err.Error()
	case errors.Is(err, context.Canceled):
		result.Status = domain.HealthStatusError
		result.Detail = "cancelled"
		result.Error = err.Error()
	default:
		result.Status = domain.HealthStatusDegraded
		result.Detail = err.Error()
		result.Error = err.Error()
	}
	return result
}

// worseStatus keeps the more severe of two statuses: ok < degraded < error.
func worseStatus(current, candidate string) string {
	if current == domain.HealthStatusError || candidate == domain.HealthStatusError {
		return domain.HealthStatusError
	}
	if candidate != domain.HealthStatusOK && candidate != "" {
		return domain.HealthStatusDegraded
	}
	return current
}
