package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/books4all/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaEventPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockKafka := NewMockKafkaWriter(ctrl)
	pub := NewKafkaEventPublisher(mockKafka)

	mockKafka.EXPECT().WriteMessages(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, msgs ...kafka.Message) error {
			require.Len(t, msgs, 1)
			assert.Equal(t, userID.String(), string(msgs[0].Key))
			assert.Equal(t, "type", msgs[0].Headers[0].Key)
			assert.Equal(t, models.EventOrderCreated, string(msgs[0].Headers[0].Value))

			var evt models.Event
			require.NoError(t, json.Unmarshal(msgs[0].Value, &evt))
			assert.Equal(t, models.EventOrderCreated, evt.Type)
			assert.Equal(t, userID.String(), evt.UserID)
			assert.Equal(t, "o-1", evt.Data["order_id"])
			assert.NotEmpty(t, evt.EventID)
			return nil
		})
	pub.Publish(ctx, models.EventOrderCreated, userID, map[string]string{"order_id": "o-1"})

	// Write failure is logged only
	mockKafka.EXPECT().WriteMessages(ctx, gomock.Any()).Return(errors.New("kafka error")).Times(1)
	pub.Publish(ctx, models.EventOrderCreated, userID, nil)

	// nil writer must not panic
	NewKafkaEventPublisher(nil).Publish(ctx, models.EventUserRegistered, userID, nil)
}

func TestKafkaEventPublisher_DeferredUntilSent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var pending []func(ctx context.Context)
	mockKafka := NewMockKafkaWriter(ctrl)
	pub := NewKafkaEventPublisher(mockKafka, WithEventDeferrer(func(_ context.Context, send func(ctx context.Context)) {
		pending = append(pending, send)
	}))

	// Nothing is written while the transaction is open
	pub.Publish(ctx, models.EventOrderCreated, userID, map[string]string{"order_id": "o-1"})
	require.Len(t, pending, 1)

	mockKafka.EXPECT().WriteMessages(ctx, gomock.Any()).Return(nil).Times(1)
	pending[0](ctx)
}
