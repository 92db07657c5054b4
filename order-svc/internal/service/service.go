package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, status domain.Status) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Order, error)
}

type CartClient interface {
	GetCartItems(ctx context.Context, cartID string) ([]domain.Item, error)
	ClearCart(ctx context.Context, cartID string) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, event domain.OrderEvent) error
}

type OrdersNotifier interface {
	PublishOrders(ctx context.Context, orders []domain.Order) error
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, cartID string, customer domain.Customer) (*domain.Order, error)
	AdvanceStatus(ctx context.Context, id string, target domain.Status, actor string) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string, actor string) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, status domain.Status) ([]domain.Order, error)
	TrackingQRCode(ctx context.Context, id string) ([]byte, error)
}

func externalErr(service, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrConflict) {
		return err
	}
	return apperr.External(service, op, err)
}

type OrderService struct {
	repo     OrderRepository
	carts    CartClient
	events   EventPublisher
	notifier OrdersNotifier
	qr       QRGenerator
	logger   zerolog.Logger
	now      func() time.Time
}

func NewOrderService(repo OrderRepository, carts CartClient, events EventPublisher, notifier OrdersNotifier, qr QRGenerator, logger zerolog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		carts:    carts,
		events:   events,
		notifier: notifier,
		qr:       qr,
		logger:   logger,
		now:      time.Now,
	}
}

// PlaceOrder turns a cart into an order. Checkout is for shoppers only, so an
// administrator session is refused before anything else is touched. Customer
// details are checked locally, so a catalog outage cannot hide their
// violations. The cart is cleared only after the order has been stored.
func (s *OrderService) PlaceOrder(ctx context.Context, cartID string, customer domain.Customer) (*domain.Order, error) {
	if _, isAdmin := session.Admin(session.FromContext(ctx)); isAdmin {
		return nil, &apperr.PolicyError{Action: "checkout", Reason: "administrators cannot place orders"}
	}

	customerErr := customer.Validate()

	var items []domain.Item
	if cartID != "" {
		var err error
		items, err = s.carts.GetCartItems(ctx, cartID)
		if err != nil {
			if customerErr != nil {
				return nil, customerErr
			}
			return nil, externalErr("catalog-svc", "get cart", err)
		}
	}

	order, err := domain.NewOrder(items, customer, s.now())
	if err != nil {
		return nil, err
	}
	order.ID = uuid.NewString()

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, externalErr("mongodb", "create order", err)
	}
	s.logger.Info().Str("order_id", order.ID).Int64("total", order.Total).Int("items", len(order.Items)).Msg("order placed")

	if err := s.carts.ClearCart(ctx, cartID); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Str("cart_id", cartID).Msg("cart not cleared after checkout")
	}
	s.publish(ctx, domain.PlacedEvent(order))
	return order, nil
}

// AdvanceStatus moves an order one step along its lifecycle. The write is
// guarded by the status the order was loaded with, so two administrators
// racing on the same order cannot both win. A target outside the lifecycle is
// reported like any other unreachable status.
func (s *OrderService) AdvanceStatus(ctx context.Context, id string, target domain.Status, actor string) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, externalErr("mongodb", "get order", err)
	}

	change, err := order.Advance(target, actor, s.now())
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, change)
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			s.logger.Warn().Str("order_id", id).Str("from", string(change.From)).Str("to", string(change.To)).Msg("status update lost a race")
		}
		return nil, externalErr("mongodb", "update order status", err)
	}

	s.logger.Info().Str("order_id", id).Str("from", string(change.From)).Str("to", string(change.To)).Str("by", actor).Msg("order status changed")
	s.publish(ctx, domain.StatusChangedEvent(updated, change))
	return updated, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, id string, actor string) (*domain.Order, error) {
	return s.AdvanceStatus(ctx, id, domain.StatusCancelled, actor)
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	return order, externalErr("mongodb", "get order", err)
}

func (s *OrderService) List(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		v := &apperr.ValidationError{}
		v.Add("status", "unknown status")
		return nil, v
	}
	orders, err := s.repo.ListOrders(ctx, status)
	return orders, externalErr("mongodb", "list orders", err)
}

func (s *OrderService) TrackingQRCode(ctx context.Context, id string) ([]byte, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.qr.Generate(id)
}

// publish sends the event and refreshes the live orders feed. Both are best
// effort: the order is already stored.
func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.events != nil {
		if err := s.events.PublishEvent(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("order_id", event.OrderID).Str("type", event.Type).Msg("order event not published")
		}
	}
	if s.notifier == nil {
		return
	}
	orders, err := s.repo.ListOrders(ctx, "")
	if err == nil {
		err = s.notifier.PublishOrders(ctx, orders)
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("orders snapshot not published")
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
