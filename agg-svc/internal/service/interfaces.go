package service

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/storage"
)

type StoreInterface interface {
	MarkProcessed(ctx context.Context, eventID string) (bool, error)
	UnmarkProcessed(ctx context.Context, eventID string) error
	RecordOrder(ctx context.Context, event domain.OrderEvent) error
	RecordStatusChange(ctx context.Context, event domain.OrderEvent) error
}

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessEvent(ctx context.Context, event domain.OrderEvent) error
}

var _ StoreInterface = (*storage.Store)(nil)
var _ ConsumerInterface = (*Consumer)(nil)
var _ MessageReader = (*kafka.Reader)(nil)
