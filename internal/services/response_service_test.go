package services

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	"github.com/xlov-lab/experience-api/internal/repositories"
)

type fakeResponseRepository struct {
	inserted   []domain.FanResponse
	insertErr  error
	listResult []domain.FanResponse
	listErr    error
	lastFilter repositories.ResponseListFilter
}

func (r *fakeResponseRepository) Insert(_ context.Context, response domain.FanResponse) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, response)
	return nil
}

func (r *fakeResponseRepository) List(_ context.Context, filter repositories.ResponseListFilter) ([]domain.FanResponse, error) {
	r.lastFilter = filter
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.listResult, nil
}

type fakeParticipationRepository struct {
	increments   []string
	incrementErr error
	stats        domain.ParticipationStats
	statsErr     error
}

func (r *fakeParticipationRepository) Increment(_ context.Context, memberID string) (domain.ParticipationStats, error) {
	if r.incrementErr != nil {
		return domain.ParticipationStats{}, r.incrementErr
	}
	r.increments = append(r.increments, memberID)
	return r.stats, nil
}

func (r *fakeParticipationRepository) Stats(_ context.Context) (domain.ParticipationStats, error) {
	if r.statsErr != nil {
		return domain.ParticipationStats{}, r.statsErr
	}
	return r.stats, nil
}

type fakeJobPublisher struct {
	messages   []AggregationJobMessage
	publishErr error
}

func (p *fakeJobPublisher) PublishAggregationJob(_ context.Context, message AggregationJobMessage) (string, error) {
	if p.publishErr != nil {
		return "", p.publishErr
	}
	p.messages = append(p.messages, message)
	return "msg-1", nil
}

func newTestResponseService(t *testing.T, responses *fakeResponseRepository, participation *fakeParticipationRepository, jobs AggregationJobPublisher) ResponseService {
	t.Helper()
	svc, err := NewResponseService(ResponseServiceDeps{
		Responses:     responses,
		Participation: participation,
		Jobs:          jobs,
		Clock:         func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
		NewID:         func() string { return "resp-001" },
	})
	if err != nil {
		t.Fatalf("NewResponseService: %v", err)
	}
	return svc
}

func TestResponseRecordPersistsSanitizedAnswers(t *testing.T) {
	responses := &fakeResponseRepository{}
	participation := &fakeParticipationRepository{}
	jobs := &fakeJobPublisher{}
	svc := newTestResponseService(t, responses, participation, jobs)

	recorded, err := svc.Record(context.Background(), RecordResponseCommand{
		MemberID: "umuti",
		Answers: domain.CanvasAnswers{
			Color:     "<script>alert(1)</script>#FFD93D",
			Season:    "  spring  ",
			TimeOfDay: "dawn",
			Texture:   "silk",
			Emotion:   "<b>longing</b>",
			OneWord:   "sunrise",
		},
		GeneratedImageURL: " data:image/png;base64,Zm9v ",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if recorded.ID != "resp-001" {
		t.Errorf("unexpected id %s", recorded.ID)
	}
	if recorded.Color != "#FFD93D" {
		t.Errorf("expected markup stripped from colour, got %q", recorded.Color)
	}
	if recorded.Season != "spring" {
		t.Errorf("expected trimmed season, got %q", recorded.Season)
	}
	if recorded.Emotion != "longing" {
		t.Errorf("expected tags stripped from emotion, got %q", recorded.Emotion)
	}
	if recorded.GeneratedImageURL != "data:image/png;base64,Zm9v" {
		t.Errorf("unexpected image url %q", recorded.GeneratedImageURL)
	}
	if !recorded.CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected created at %v", recorded.CreatedAt)
	}

	if len(responses.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(responses.inserted))
	}
	if len(participation.increments) != 1 || participation.increments[0] != "umuti" {
		t.Errorf("unexpected increments %v", participation.increments)
	}
	if len(jobs.messages) != 1 {
		t.Fatalf("expected one aggregation job, got %d", len(jobs.messages))
	}
	if jobs.messages[0].ResponseID != "resp-001" || jobs.messages[0].Program != "canvas" {
		t.Errorf("unexpected job message %+v", jobs.messages[0])
	}
}

func TestResponseRecordRejectsUnknownMember(t *testing.T) {
	svc := newTestResponseService(t, &fakeResponseRepository{}, &fakeParticipationRepository{}, nil)

	_, err := svc.Record(context.Background(), RecordResponseCommand{
		MemberID: "nobody",
		Answers:  domain.CanvasAnswers{Color: "#FFD93D"},
	})
	if !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected ErrUnknownMember, got %v", err)
	}
}

func TestResponseRecordRejectsEmptyAnswers(t *testing.T) {
	svc := newTestResponseService(t, &fakeResponseRepository{}, &fakeParticipationRepository{}, nil)

	_, err := svc.Record(context.Background(), RecordResponseCommand{
		MemberID: "rui",
		Answers:  domain.CanvasAnswers{Color: "<p></p>", Season: "   "},
	})
	if !errors.Is(err, ErrEmptyAnswers) {
		t.Fatalf("expected ErrEmptyAnswers, got %v", err)
	}
}

func TestResponseRecordSurfacesInsertFailure(t *testing.T) {
	responses := &fakeResponseRepository{insertErr: errors.New("firestore down")}
	svc := newTestResponseService(t, responses, &fakeParticipationRepository{}, nil)

	_, err := svc.Record(context.Background(), RecordResponseCommand{
		MemberID: "haru",
		Answers:  domain.CanvasAnswers{Color: "#A8D5BA"},
	})
	if err == nil {
		t.Fatal("expected insert error to surface")
	}
}

func TestResponseRecordToleratesCounterAndJobFailure(t *testing.T) {
	responses := &fakeResponseRepository{}
	participation := &fakeParticipationRepository{incrementErr: errors.New("contention")}
	jobs := &fakeJobPublisher{publishErr: errors.New("topic missing")}
	svc := newTestResponseService(t, responses, participation, jobs)

	recorded, err := svc.Record(context.Background(), RecordResponseCommand{
		MemberID: "hyun",
		Answers:  domain.CanvasAnswers{OneWord: "calm"},
	})
	if err != nil {
		t.Fatalf("Record should succeed despite side-effect failures: %v", err)
	}
	if recorded.Member != "hyun" {
		t.Errorf("unexpected member %s", recorded.Member)
	}
	if len(responses.inserted) != 1 {
		t.Errorf("expected response persisted, got %d", len(responses.inserted))
	}
}

func TestResponseListValidatesMemberFilter(t *testing.T) {
	responses := &fakeResponseRepository{
		listResult: []domain.FanResponse{{ID: "resp-1", Member: "rui"}},
	}
	svc := newTestResponseService(t, responses, &fakeParticipationRepository{}, nil)

	listed, err := svc.List(context.Background(), ResponseListQuery{Member: " rui ", Limit: 25})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "resp-1" {
		t.Errorf("unexpected listing %v", listed)
	}
	if responses.lastFilter.Member != "rui" || responses.lastFilter.Limit != 25 {
		t.Errorf("unexpected filter %+v", responses.lastFilter)
	}

	_, err = svc.List(context.Background(), ResponseListQuery{Member: "nobody"})
	if !errors.Is(err, ErrUnknownMember) {
		t.Fatalf("expected ErrUnknownMember, got %v", err)
	}
}

func TestResponseStatsFillsMissingMembers(t *testing.T) {
	participation := &fakeParticipationRepository{
		stats: domain.ParticipationStats{
			Total:     3,
			PerMember: map[string]int64{"umuti": 2, "haru": 1},
		},
	}
	svc := newTestResponseService(t, &fakeResponseRepository{}, participation, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("unexpected total %d", stats.Total)
	}
	if len(stats.PerMember) != len(domain.Members) {
		t.Fatalf("expected an entry per catalog member, got %d", len(stats.PerMember))
	}
	if stats.PerMember["rui"] != 0 || stats.PerMember["hyun"] != 0 {
		t.Errorf("expected zero entries for members without responses: %v", stats.PerMember)
	}
	if stats.PerMember["umuti"] != 2 {
		t.Errorf("expected stored counts preserved: %v", stats.PerMember)
	}
}
