// Package firestore provides the Firestore-backed implementations of the
// repository contracts.
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	domain "github.com/xlov-lab/experience-api/internal/domain"
	pfirestore "github.com/xlov-lab/experience-api/internal/platform/firestore"
	"github.com/xlov-lab/experience-api/internal/repositories"
)

const (
	responsesCollection  = "responses"
	defaultResponseLimit = 100
	maxResponseLimit     = 500
)

type responseDocument struct {
	ID                string    `firestore:"-"`
	Member            string    `firestore:"member"`
	Color             string    `firestore:"color"`
	Season            string    `firestore:"season"`
	TimeOfDay         string    `firestore:"timeOfDay"`
	Texture           string    `firestore:"texture"`
	Emotion           string    `firestore:"emotion"`
	OneWord           string    `firestore:"oneWord"`
	GeneratedImageURL string    `firestore:"generatedImageUrl,omitempty"`
	CreatedAt         time.Time `firestore:"createdAt"`
}

// ResponseRepository persists fan questionnaire submissions.
type ResponseRepository struct {
	responses *pfirestore.Collection[domain.FanResponse]
}

var _ repositories.ResponseRepository = (*ResponseRepository)(nil)

// NewResponseRepository constructs a Firestore-backed response repository.
func NewResponseRepository(provider *pfirestore.Provider) (*ResponseRepository, error) {
	if provider == nil {
		return nil, errors.New("response repository: firestore provider is required")
	}

	encoder := func(value domain.FanResponse) (any, error) {
		return encodeResponseDocument(value), nil
	}
	decoder := func(snap *firestore.DocumentSnapshot) (domain.FanResponse, error) {
		var doc responseDocument
		if err := snap.DataTo(&doc); err != nil {
			return domain.FanResponse{}, err
		}
		doc.ID = snap.Ref.ID
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = snap.CreateTime
		}
		return decodeResponseDocument(doc), nil
	}

	return &ResponseRepository{
		responses: pfirestore.NewCollection[domain.FanResponse](provider, responsesCollection, encoder, decoder),
	}, nil
}

// Insert stores a new response document. The caller assigns the identifier.
func (r *ResponseRepository) Insert(ctx context.Context, response domain.FanResponse) error {
	if r == nil || r.responses == nil {
		return errors.New("response repository not initialised")
	}
	response.ID = strings.TrimSpace(response.ID)
	if response.ID == "" {
		return errors.New("response repository: id is required")
	}
	if strings.TrimSpace(response.Member) == "" {
		return errors.New("response repository: member is required")
	}
	return r.responses.Create(ctx, response.ID, response)
}

// List returns responses newest first, optionally restricted to one member.
func (r *ResponseRepository) List(ctx context.Context, filter repositories.ResponseListFilter) ([]domain.FanResponse, error) {
	if r == nil || r.responses == nil {
		return nil, errors.New("response repository not initialised")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultResponseLimit
	}
	if limit > maxResponseLimit {
		limit = maxResponseLimit
	}
	member := strings.TrimSpace(filter.Member)

	docs, err := r.responses.Query(ctx, func(q firestore.Query) firestore.Query {
		if member != "" {
			q = q.Where("member", "==", member)
		}
		return q.OrderBy("createdAt", firestore.Desc).Limit(limit)
	})
	if err != nil {
		return nil, err
	}

	responses := make([]domain.FanResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, doc.Data)
	}
	return responses, nil
}

func encodeResponseDocument(response domain.FanResponse) responseDocument {
	return responseDocument{
		Member:            strings.TrimSpace(response.Member),
		Color:             response.Color,
		Season:            response.Season,
		TimeOfDay:         response.TimeOfDay,
		Texture:           response.Texture,
		Emotion:           response.Emotion,
		OneWord:           response.OneWord,
		GeneratedImageURL: response.GeneratedImageURL,
		CreatedAt:         response.CreatedAt.UTC(),
	}
}

func decodeResponseDocument(doc responseDocument) domain.FanResponse {
	return domain.FanResponse{
		ID:                doc.ID,
		Member:            doc.Member,
		Color:             doc.Color,
		Season:            doc.Season,
		TimeOfDay:         doc.TimeOfDay,
		Texture:           doc.Texture,
		Emotion:           doc.Emotion,
		OneWord:           doc.OneWord,
		GeneratedImageURL: doc.GeneratedImageURL,
		CreatedAt:         doc.CreatedAt.UTC(),
	}
}
