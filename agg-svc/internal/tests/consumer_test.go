package tests

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/mocks"
	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/service"
)

func placedEvent() domain.OrderEvent {
	return domain.OrderEvent{
		Type:      domain.EventOrderPlaced,
		OrderID:   "order-1",
		Status:    "new",
		Total:     515,
		Items:     []domain.EventItem{{DishID: "1", Name: "Борщ", Price: 185, Quantity: 2}, {DishID: "2", Name: "Вареники", Price: 145, Quantity: 1}},
		Timestamp: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC),
	}
}

func TestConsumer_ProcessEvent(t *testing.T) {
	statusChanged := domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: "order-1", Status: "cooking", Previous: "new"}

	tests := []struct {
		name           string
		inputEvent     domain.OrderEvent
		setupMockStore func(*mocks.StoreInterface)
		wantErr        bool
	}{
		{
			name:       "order placed",
			inputEvent: placedEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, "order-1:order_placed:new").Return(true, nil).Once()
				mockStore.On("RecordOrder", mock.Anything, placedEvent()).Return(nil).Once()
			},
		},
		{
			name:       "status changed",
			inputEvent: statusChanged,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, "order-1:order_status_changed:cooking").Return(true, nil).Once()
				mockStore.On("RecordStatusChange", mock.Anything, statusChanged).Return(nil).Once()
			},
		},
		{
			name:       "redelivered event",
			inputEvent: placedEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, "order-1:order_placed:new").Return(false, nil).Once()
			},
		},
		{
			name:       "RecordOrder error",
			inputEvent: placedEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, "order-1:order_placed:new").Return(true, nil).Once()
				mockStore.On("RecordOrder", mock.Anything, mock.Anything).Return(errors.New("redis error")).Once()
				mockStore.On("UnmarkProcessed", mock.Anything, "order-1:order_placed:new").Return(nil).Once()
			},
			wantErr: true,
		},
		{
			name:       "MarkProcessed error",
			inputEvent: statusChanged,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Once()
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := service.NewConsumer(nil, mockStore, zerolog.Nop())

			err := consumer.ProcessEvent(context.Background(), testCase.inputEvent)
			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConsumer_UnknownEventType(t *testing.T) {
	mockStore := mocks.NewStoreInterface(t)
	consumer := service.NewConsumer(nil, mockStore, zerolog.Nop())

	err := consumer.ProcessEvent(context.Background(), domain.OrderEvent{Type: "new_review", OrderID: "order-1"})

	assert.NoError(t, err)
	mockStore.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
}

type scriptedReader struct {
	messages  []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func TestConsumer_StartCommitsMalformedAndAppliedMessages(t *testing.T) {
	payload, err := json.Marshal(placedEvent())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	reader := &scriptedReader{
		messages: []kafka.Message{{Offset: 1, Value: []byte("not json")}, {Offset: 2, Value: payload}},
		cancel:   cancel,
	}
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("MarkProcessed", mock.Anything, "order-1:order_placed:new").Return(true, nil).Once()
	mockStore.On("RecordOrder", mock.Anything, mock.Anything).Return(nil).Once()

	err = service.NewConsumer(reader, mockStore, zerolog.Nop()).Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumer_StartRetriesFailedEventBeforeCommit(t *testing.T) {
	placed, err := json.Marshal(placedEvent())
	require.NoError(t, err)
	changed, err := json.Marshal(domain.OrderEvent{Type: domain.EventOrderStatusChanged, OrderID: "order-1", Status: "cooking", Previous: "new"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	reader := &scriptedReader{
		messages: []kafka.Message{{Offset: 7, Value: placed}, {Offset: 8, Value: changed}},
		cancel:   cancel,
	}
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("MarkProcessed", mock.Anything, "order-1:order_placed:new").Return(true, nil).Twice()
	mockStore.On("RecordOrder", mock.Anything, mock.Anything).Return(errors.New("redis timeout")).Once()
	mockStore.On("UnmarkProcessed", mock.Anything, "order-1:order_placed:new").Return(nil).Once()
	mockStore.On("RecordOrder", mock.Anything, mock.Anything).Return(nil).Once()
	mockStore.On("MarkProcessed", mock.Anything, "order-1:order_status_changed:cooking").Return(true, nil).Once()
	mockStore.On("RecordStatusChange", mock.Anything, mock.Anything).Return(nil).Once()

	consumer := service.NewConsumer(reader, mockStore, zerolog.Nop())
	consumer.RetryDelay = time.Millisecond
	err = consumer.Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int64{7, 8}, reader.committed)
	mockStore.AssertNumberOfCalls(t, "RecordOrder", 2)
}

func TestConsumer_StartStopsRetryingOnShutdown(t *testing.T) {
	placed, err := json.Marshal(placedEvent())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	reader := &scriptedReader{messages: []kafka.Message{{Offset: 3, Value: placed}}, cancel: cancel}
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("MarkProcessed", mock.Anything, mock.Anything).Return(true, nil)
	mockStore.On("UnmarkProcessed", mock.Anything, mock.Anything).Return(nil)
	mockStore.On("RecordOrder", mock.Anything, mock.Anything).Return(errors.New("redis down")).Run(func(mock.Arguments) {
		cancel()
	})

	consumer := service.NewConsumer(reader, mockStore, zerolog.Nop())
	consumer.RetryDelay = time.Hour
	err = consumer.Start(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reader.committed)
}
