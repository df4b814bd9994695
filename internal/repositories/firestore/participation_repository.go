package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	pfirestore "github.com/xlov-lab/experience-api/internal/platform/firestore"
	"github.com/xlov-lab/experience-api/internal/repositories"
)

const (
	statsCollection      = "stats"
	participationDocID   = "participation"
	participationInitCap = 8
)

type participationDocument struct {
	Total     int64            `firestore:"total"`
	PerMember map[string]int64 `firestore:"perMember"`
	UpdatedAt time.Time        `firestore:"updatedAt"`
}

// ParticipationRepository maintains the shared participation counter document
// using Firestore transactions so member and total counts never drift apart.
type ParticipationRepository struct {
	provider *pfirestore.Provider
	stats    *pfirestore.Collection[participationDocument]
}

var _ repositories.ParticipationRepository = (*ParticipationRepository)(nil)

// NewParticipationRepository constructs a Firestore-backed participation repository.
func NewParticipationRepository(provider *pfirestore.Provider) (*ParticipationRepository, error) {
	if provider == nil {
		return nil, errors.New("participation repository requires firestore provider")
	}
	return &ParticipationRepository{
		provider: provider,
		stats:    pfirestore.NewCollection[participationDocument](provider, statsCollection, nil, nil),
	}, nil
}

// Increment atomically bumps the member counter and the overall total.
func (r *ParticipationRepository) Increment(ctx context.Context, memberID string) (domain.ParticipationStats, error) {
	if r == nil || r.provider == nil {
		return domain.ParticipationStats{}, errors.New("participation repository not initialised")
	}
	member := strings.TrimSpace(memberID)
	if member == "" {
		return domain.ParticipationStats{}, repositories.NewParticipationError(
			repositories.ParticipationErrorInvalidInput, "member id is required", nil)
	}

	now := time.Now().UTC()
	var updated participationDocument

	err := r.provider.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		ref, err := r.stats.Doc(ctx, participationDocID)
		if err != nil {
			return err
		}

		snapshot, err := tx.Get(ref)
		switch status.Code(err) {
		case codes.NotFound:
			updated = participationDocument{
				Total:     1,
				PerMember: map[string]int64{member: 1},
				UpdatedAt: now,
			}
			return tx.Create(ref, updated)
		case codes.OK:
			// proceed
		default:
			return err
		}

		var doc participationDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return err
		}
		if doc.PerMember == nil {
			doc.PerMember = make(map[string]int64, participationInitCap)
		}
		doc.Total++
		doc.PerMember[member]++
		doc.UpdatedAt = now

		updated = doc
		return tx.Set(ref, doc)
	})
	if err != nil {
		var participationErr *repositories.ParticipationError
		if errors.As(err, &participationErr) {
			return domain.ParticipationStats{}, participationErr
		}
		return domain.ParticipationStats{}, pfirestore.WrapError("participation.increment", err)
	}

	return decodeParticipationDocument(updated), nil
}

// Stats returns the current counters; a missing document reads as zero.
func (r *ParticipationRepository) Stats(ctx context.Context) (domain.ParticipationStats, error) {
	if r == nil || r.stats == nil {
		return domain.ParticipationStats{}, errors.New("participation repository not initialised")
	}

	doc, err := r.stats.Get(ctx, participationDocID)
	if err != nil {
		if pfirestore.IsNotFound(err) {
			return domain.ParticipationStats{PerMember: map[string]int64{}}, nil
		}
		return domain.ParticipationStats{}, err
	}
	return decodeParticipationDocument(doc.Data), nil
}

func decodeParticipationDocument(doc participationDocument) domain.ParticipationStats {
	perMember := make(map[string]int64, len(doc.PerMember))
	for member, count := range doc.PerMember {
		perMember[member] = count
	}
	return domain.ParticipationStats{
		Total:     doc.Total,
		PerMember: perMember,
	}
}
