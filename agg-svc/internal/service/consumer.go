package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/nazarkrivolesov/kitchen-2.0/agg-svc/internal/domain"
)

type Consumer struct {
	Reader     MessageReader
	Store      StoreInterface
	Logger     zerolog.Logger
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface, logger zerolog.Logger) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		Logger:     logger,
		RetryDelay: time.Second,
	}
}

// Start reads order events until ctx is cancelled. An offset is committed
// only once its event is aggregated or skipped as malformed; a failing event
// is retried in place so later events never overtake it.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info().Msg("order event consumer started")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Logger.Error().Err(err).Msg("fetch message")
			time.Sleep(time.Second)
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.Logger.Warn().Err(err).Int64("offset", message.Offset).Msg("skipping malformed message")
		} else if err := c.processWithRetry(ctx, event); err != nil {
			return err
		}

		if err := c.Reader.CommitMessages(ctx, message); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Logger.Error().Err(err).Int64("offset", message.Offset).Msg("commit offset")
		}
	}
}

func (c *Consumer) processWithRetry(ctx context.Context, event domain.OrderEvent) error {
	for {
		err := c.ProcessEvent(ctx, event)
		if err == nil {
			return nil
		}
		c.Logger.Error().Err(err).Str("order_id", event.OrderID).Str("type", event.Type).Msg("event not aggregated, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.RetryDelay):
		}
	}
}

// ProcessEvent folds one event into the aggregates. Unknown event types and
// events that were already applied are ignored.
func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	var apply func(context.Context, domain.OrderEvent) error
	switch event.Type {
	case domain.EventOrderPlaced:
		apply = c.Store.RecordOrder
	case domain.EventOrderStatusChanged:
		apply = c.Store.RecordStatusChange
	default:
		c.Logger.Debug().Str("type", event.Type).Msg("ignoring unknown event type")
		return nil
	}

	first, err := c.Store.MarkProcessed(ctx, event.ID())
	if err != nil {
		return err
	}
	if !first {
		c.Logger.Debug().Str("event_id", event.ID()).Msg("duplicate event")
		return nil
	}

	if err := apply(ctx, event); err != nil {
		if unmarkErr := c.Store.UnmarkProcessed(ctx, event.ID()); unmarkErr != nil {
			c.Logger.Error().Err(unmarkErr).Str("event_id", event.ID()).Msg("event marker not cleared")
		}
		return err
	}

	c.Logger.Info().Str("order_id", event.OrderID).Str("type", event.Type).Str("status", event.Status).Msg("event aggregated")
	return nil
}
