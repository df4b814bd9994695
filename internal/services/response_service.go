package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/platform/requestctx"
	"github.com/xlov-lab/experience-api/internal/platform/textutil"
	"github.com/xlov-lab/experience-api/internal/repositories"
)

// ResponseServiceDeps bundles collaborators required to construct a response service.
type ResponseServiceDeps struct {
	Responses     repositories.ResponseRepository
	Participation repositories.ParticipationRepository
	// Jobs is optional; when nil no aggregation job is published.
	Jobs  AggregationJobPublisher
	Clock func() time.Time
	// NewID is optional; defaults to ULIDs.
	NewID func() string
}

type responseService struct {
	responses     repositories.ResponseRepository
	participation repositories.ParticipationRepository
	jobs          AggregationJobPublisher
	clock         func() time.Time
	newID         func() string
	sanitizer     *bluemonday.Policy
}

var _ ResponseService = (*responseService)(nil)

// NewResponseService assembles the fan response log service.
func NewResponseService(deps ResponseServiceDeps) (ResponseService, error) {
	if deps.Responses == nil {
		return nil, errors.New("response service: response repository is required")
	}
	if deps.Participation == nil {
		return nil, errors.New("response service: participation repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = func() string { return ulid.Make().String() }
	}

	return &responseService{
		responses:     deps.Responses,
		participation: deps.Participation,
		jobs:          deps.Jobs,
		clock:         func() time.Time { return clock().UTC() },
		newID:         newID,
		sanitizer:     bluemonday.StrictPolicy(),
	}, nil
}

func (s *responseService) Record(ctx context.Context, cmd RecordResponseCommand) (domain.FanResponse, error) {
	member, ok := domain.MemberByID(strings.TrimSpace(cmd.MemberID))
	if !ok {
		return domain.FanResponse{}, fmt.Errorf("%w: %q", ErrUnknownMember, cmd.MemberID)
	}

	answers := domain.CanvasAnswers{
		Color:     s.cleanText(cmd.Answers.Color),
		Season:    s.cleanText(cmd.Answers.Season),
		TimeOfDay: s.cleanText(cmd.Answers.TimeOfDay),
		Texture:   s.cleanText(cmd.Answers.Texture),
		Emotion:   s.cleanText(cmd.Answers.Emotion),
		OneWord:   s.cleanText(cmd.Answers.OneWord),
	}
	if emptyCanvasAnswers(answers) {
		return domain.FanResponse{}, ErrEmptyAnswers
	}

	response := domain.FanResponse{
		ID:                s.newID(),
		Member:            member.ID,
		Color:             answers.Color,
		Season:            answers.Season,
		TimeOfDay:         answers.TimeOfDay,
		Texture:           answers.Texture,
		Emotion:           answers.Emotion,
		OneWord:           answers.OneWord,
		GeneratedImageURL: strings.TrimSpace(cmd.GeneratedImageURL),
		CreatedAt:         s.clock(),
	}

	if err := s.responses.Insert(ctx, response); err != nil {
		return domain.FanResponse{}, fmt.Errorf("response service: persist response: %w", err)
	}

	// The response is committed at this point; counter and job failures are
	// logged rather than surfaced so the fan never sees a failed submission.
	logger := requestctx.Logger(ctx)
	if _, err := s.participation.Increment(ctx, member.ID); err != nil {
		logger.Warn("participation increment failed",
			zap.String("response_id", response.ID),
			zap.String("member", member.ID),
			zap.Error(err),
		)
	}
	if s.jobs != nil {
		message := AggregationJobMessage{
			ResponseID: response.ID,
			Member:     member.ID,
			Program:    string(domain.ProgramCanvas),
			QueuedAt:   s.clock(),
		}
		if _, err := s.jobs.PublishAggregationJob(ctx, message); err != nil {
			logger.Warn("aggregation job publish failed",
				zap.String("response_id", response.ID),
				zap.Error(err),
			)
		}
	}

	return response, nil
}

func (s *responseService) List(ctx context.Context, query ResponseListQuery) ([]domain.FanResponse, error) {
	member := strings.TrimSpace(query.Member)
	if member != "" {
		if _, ok := domain.MemberByID(member); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMember, member)
		}
	}

	responses, err := s.responses.List(ctx, repositories.ResponseListFilter{
		Member: member,
		Limit:  query.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("response service: list responses: %w", err)
	}
	return responses, nil
}

func (s *responseService) Stats(ctx context.Context) (domain.ParticipationStats, error) {
	stats, err := s.participation.Stats(ctx)
	if err != nil {
		return domain.ParticipationStats{}, fmt.Errorf("response service: load stats: %w", err)
	}

	// Every catalog member appears in the payload even before their first
	// response.
	if stats.PerMember == nil {
		stats.PerMember = make(map[string]int64, len(domain.Members))
	}
	for _, member := range domain.Members {
		if _, ok := stats.PerMember[member.ID]; !ok {
			stats.PerMember[member.ID] = 0
		}
	}
	return stats, nil
}

func (s *responseService) cleanText(value string) string {
	return textutil.NormalizeText(s.sanitizer.Sanitize(value))
}
