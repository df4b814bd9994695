// Package jobs publishes background aggregation work to Pub/Sub.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"

	"github.com/xlov-lab/experience-api/internal/services"
)

// PubSubAggregationPublisher enqueues response aggregation jobs on a Pub/Sub
// topic. Subscribers fold finalized responses into the member leaderboards.
type PubSubAggregationPublisher struct {
	topic *pubsub.Topic
}

// NewPubSubAggregationPublisher wraps the given topic as an aggregation job publisher.
func NewPubSubAggregationPublisher(topic *pubsub.Topic) (*PubSubAggregationPublisher, error) {
	if topic == nil {
		return nil, errors.New("pubsub aggregation publisher: topic is required")
	}
	return &PubSubAggregationPublisher{topic: topic}, nil
}

// PublishAggregationJob publishes the message and returns the server-assigned
// message ID. Routing keys travel as attributes so subscribers can filter
// without decoding the payload.
func (p *PubSubAggregationPublisher) PublishAggregationJob(ctx context.Context, message services.AggregationJobMessage) (string, error) {
	if p == nil || p.topic == nil {
		return "", errors.New("pubsub aggregation publisher: not initialised")
	}

	data, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("marshal aggregation job: %w", err)
	}

	attrs := map[string]string{}
	for key, value := range map[string]string{
		"responseId": message.ResponseID,
		"member":     message.Member,
		"program":    message.Program,
	} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			attrs[key] = trimmed
		}
	}

	id, err := p.topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attrs}).Get(ctx)
	if err != nil {
		return "", fmt.Errorf("publish aggregation job: %w", err)
	}
	return id, nil
}
