package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
)

type recordingPublisher struct {
	mu         sync.Mutex
	published  [][]byte
	routingKey string
	failNext   int
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failNext > 0 {
		p.failNext--
		return errors.New("broker unavailable")
	}
	p.routingKey = routingKey
	p.published = append(p.published, payload)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func sampleEvent() domain.RunCompletedEvent {
	stats := domain.Statistics{TotalSlots: 3, BusiestDay: domain.NewDate(2025, 12, 9), BusiestDayCount: 2}
	return domain.NewRunCompletedEvent(uuid.New(), stats, []string{"act_1"})
}

func TestRunCompletedPublisher_PublishesSerializedEvent(t *testing.T) {
	fake := &recordingPublisher{}
	publisher := NewRunCompletedPublisher(fake, nil)

	err := publisher.Publish(context.Background(), sampleEvent())
	require.NoError(t, err)

	require.Len(t, fake.published, 1)
	assert.Equal(t, "scheduling.runs.completed", fake.routingKey)

	var decoded domain.RunCompletedEvent
	require.NoError(t, json.Unmarshal(fake.published[0], &decoded))
	assert.Equal(t, 3, decoded.TotalSlots)
}

func TestRunCompletedPublisher_SwallowsPublishFailure(t *testing.T) {
	fake := &recordingPublisher{failNext: 1}
	publisher := NewRunCompletedPublisher(fake, nil)

	err := publisher.Publish(context.Background(), sampleEvent())
	assert.NoError(t, err)
	assert.Empty(t, fake.published)
}
