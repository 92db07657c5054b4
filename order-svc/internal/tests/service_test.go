package tests

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nazarkrivolesov/kitchen-2.0/apperr"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/mocks"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/service"
	"github.com/nazarkrivolesov/kitchen-2.0/session"
)

type orderServiceDeps struct {
	repo     *mocks.OrderRepository
	carts    *mocks.CartClient
	events   *mocks.EventPublisher
	notifier *mocks.OrdersNotifier
	qr       *mocks.QRGenerator
}

func newOrderService(t *testing.T) (*service.OrderService, orderServiceDeps) {
	deps := orderServiceDeps{
		repo:     mocks.NewOrderRepository(t),
		carts:    mocks.NewCartClient(t),
		events:   mocks.NewEventPublisher(t),
		notifier: mocks.NewOrdersNotifier(t),
		qr:       mocks.NewQRGenerator(t),
	}
	svc := service.NewOrderService(deps.repo, deps.carts, deps.events, deps.notifier, deps.qr, zerolog.Nop())
	return svc, deps
}

// expectPublish accepts one event of the given type and one orders snapshot.
func (d orderServiceDeps) expectPublish(eventType string) {
	d.events.On("PublishEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == eventType
	})).Return(nil).Once()
	d.repo.On("ListOrders", mock.Anything, domain.Status("")).Return([]domain.Order{}, nil).Once()
	d.notifier.On("PublishOrders", mock.Anything, mock.Anything).Return(nil).Once()
}

func cartItems() []domain.Item {
	return []domain.Item{{DishID: "1", Name: "Борщ", Description: "Традиційний", Price: 185, Category: "Перші страви", Quantity: 2}}
}

func validCustomer() domain.Customer {
	return domain.Customer{Name: "Олена", Phone: "+380123456789", Address: "вул. Хрещатик, 1"}
}

func storedOrder(status domain.Status) *domain.Order {
	order, _ := domain.NewOrder(cartItems(), validCustomer(), time.Now())
	order.ID = "order-1"
	order.Status = status
	return order
}

func TestPlaceOrder_Success(t *testing.T) {
	svc, deps := newOrderService(t)
	deps.carts.On("GetCartItems", mock.Anything, "cart-1").Return(cartItems(), nil).Once()
	deps.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	deps.carts.On("ClearCart", mock.Anything, "cart-1").Return(nil).Once()
	deps.expectPublish(domain.EventOrderPlaced)

	order, err := svc.PlaceOrder(context.Background(), "cart-1", validCustomer())

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, int64(370), order.Total)
	assert.Equal(t, domain.StatusNew, order.Status)
}

func TestPlaceOrder_ValidationStoresNothing(t *testing.T) {
	svc, deps := newOrderService(t)
	deps.carts.On("GetCartItems", mock.Anything, "cart-1").Return(cartItems(), nil).Once()

	_, err := svc.PlaceOrder(context.Background(), "cart-1", domain.Customer{Name: "", Phone: "12345", Address: "вул. Хрещатик, 1"})

	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Len(t, v.Violations, 2)
	deps.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	deps.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
}

func TestPlaceOrder_CustomerViolationsWinOverCatalogOutage(t *testing.T) {
	svc, deps := newOrderService(t)
	deps.carts.On("GetCartItems", mock.Anything, "cart-1").Return(nil, errors.New("connection refused")).Once()

	_, err := svc.PlaceOrder(context.Background(), "cart-1", domain.Customer{Name: " ", Phone: "12345", Address: "вул. Хрещатик, 1"})

	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
	fields := []string{}
	for _, violation := range v.Violations {
		fields = append(fields, violation.Field)
	}
	assert.ElementsMatch(t, []string{"name", "phone"}, fields)
}

func TestPlaceOrder_MergesCustomerAndItemViolations(t *testing.T) {
	svc, deps := newOrderService(t)
	deps.carts.On("GetCartItems", mock.Anything, "cart-1").Return([]domain.Item{}, nil).Once()

	_, err := svc.PlaceOrder(context.Background(), "cart-1", domain.Customer{Phone: "+380123456789", Address: "вул. Хрещатик, 1"})

	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Len(t, v.Violations, 2)
}

func TestPlaceOrder_MissingCartID(t *testing.T) {
	svc, _ := newOrderService(t)

	_, err := svc.PlaceOrder(context.Background(), "", validCustomer())

	var v *apperr.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "items", v.Violations[0].Field)
}

func TestPlaceOrder_AdministratorRefused(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := session.WithSession(context.Background(), session.Authenticated{AdminID: "admin-1"})

	_, err := svc.PlaceOrder(ctx, "cart-1", validCustomer())

	var policy *apperr.PolicyError
	require.ErrorAs(t, err, &policy)
	assert.Equal(t, http.StatusForbidden, apperr.StatusCode(err))
}

func TestPlaceOrder_Failures(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(orderServiceDeps)
		wantCode  int
	}{
		{
			name: "catalog unreachable",
			setupMock: func(d orderServiceDeps) {
				d.carts.On("GetCartItems", mock.Anything, "cart-1").Return(nil, errors.New("connection refused")).Once()
			},
			wantCode: http.StatusBadGateway,
		},
		{
			name: "cart expired",
			setupMock: func(d orderServiceDeps) {
				d.carts.On("GetCartItems", mock.Anything, "cart-1").Return(nil, domain.ErrCartNotFound).Once()
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "store unavailable leaves cart alone",
			setupMock: func(d orderServiceDeps) {
				d.carts.On("GetCartItems", mock.Anything, "cart-1").Return(cartItems(), nil).Once()
				d.repo.On("CreateOrder", mock.Anything, mock.Anything).Return(errors.New("server selection timeout")).Once()
			},
			wantCode: http.StatusBadGateway,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, deps := newOrderService(t)
			testCase.setupMock(deps)

			order, err := svc.PlaceOrder(context.Background(), "cart-1", validCustomer())

			assert.Nil(t, order)
			assert.Equal(t, testCase.wantCode, apperr.StatusCode(err))
			deps.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
		})
	}
}

func TestPlaceOrder_CartClearFailureKeepsOrder(t *testing.T) {
	svc, deps := newOrderService(t)
	deps.carts.On("GetCartItems", mock.Anything, "cart-1").Return(cartItems(), nil).Once()
	deps.repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil).Once()
	deps.carts.On("ClearCart", mock.Anything, "cart-1").Return(errors.New("timeout")).Once()
	deps.expectPublish(domain.EventOrderPlaced)

	order, err := svc.PlaceOrder(context.Background(), "cart-1", validCustomer())

	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestAdvanceStatus(t *testing.T) {
	tests := []struct {
		name      string
		current   domain.Status
		target    domain.Status
		updateErr error
		wantCode  int
	}{
		{name: "new to cooking", current: domain.StatusNew, target: domain.StatusCooking, wantCode: http.StatusOK},
		{name: "cooking to delivery", current: domain.StatusCooking, target: domain.StatusDelivery, wantCode: http.StatusOK},
		{name: "skipping cooking", current: domain.StatusNew, target: domain.StatusDelivery, wantCode: http.StatusConflict},
		{name: "reopening completed", current: domain.StatusCompleted, target: domain.StatusNew, wantCode: http.StatusConflict},
		{name: "lost race", current: domain.StatusNew, target: domain.StatusCooking, updateErr: domain.ErrStatusConflict, wantCode: http.StatusConflict},
		{name: "unknown status", current: domain.StatusNew, target: "burnt", wantCode: http.StatusConflict},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, deps := newOrderService(t)
			current := storedOrder(testCase.current)
			deps.repo.On("GetOrder", mock.Anything, "order-1").Return(current, nil).Once()
			if current.Status.CanTransitionTo(testCase.target) {
				deps.repo.On("UpdateStatus", mock.Anything, "order-1", mock.MatchedBy(func(c domain.StatusChange) bool {
					return c.From == testCase.current && c.To == testCase.target && c.ChangedBy == "admin@kitchen.ua"
				})).Return(func(_ context.Context, _ string, c domain.StatusChange) *domain.Order {
					if testCase.updateErr != nil {
						return nil
					}
					updated := storedOrder(c.To)
					return updated
				}, testCase.updateErr).Once()
				if testCase.updateErr == nil {
					deps.expectPublish(domain.EventOrderStatusChanged)
				}
			}

			order, err := svc.AdvanceStatus(context.Background(), "order-1", testCase.target, "admin@kitchen.ua")

			if testCase.wantCode == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, testCase.target, order.Status)
				assert.Equal(t, int64(370), order.Total)
				return
			}
			assert.Equal(t, testCase.wantCode, apperr.StatusCode(err))
		})
	}
}

func TestAdvanceStatus_UnknownTargetOffersAllowed(t *testing.T) {
	svc, deps := newOrderService(t)
	deps.repo.On("GetOrder", mock.Anything, "order-1").Return(storedOrder(domain.StatusCooking), nil).Once()

	_, err := svc.AdvanceStatus(context.Background(), "order-1", "burnt", "admin@kitchen.ua")

	var invalid *domain.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.StatusCooking, invalid.From)
	assert.Equal(t, domain.Status("burnt"), invalid.To)
	assert.Equal(t, []domain.Status{domain.StatusDelivery, domain.StatusCancelled}, invalid.Allowed)
	assert.Contains(t, err.Error(), "allowed: delivery, cancelled")
	deps.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelOrder(t *testing.T) {
	t.Run("new order", func(t *testing.T) {
		svc, deps := newOrderService(t)
		deps.repo.On("GetOrder", mock.Anything, "order-1").Return(storedOrder(domain.StatusNew), nil).Once()
		deps.repo.On("UpdateStatus", mock.Anything, "order-1", mock.Anything).Return(storedOrder(domain.StatusCancelled), nil).Once()
		deps.expectPublish(domain.EventOrderStatusChanged)

		order, err := svc.CancelOrder(context.Background(), "order-1", "admin")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, order.Status)
		assert.True(t, order.Status.IsTerminal())
	})

	t.Run("completed order", func(t *testing.T) {
		svc, deps := newOrderService(t)
		deps.repo.On("GetOrder", mock.Anything, "order-1").Return(storedOrder(domain.StatusCompleted), nil).Once()

		_, err := svc.CancelOrder(context.Background(), "order-1", "admin")

		assert.ErrorAs(t, err, new(*domain.InvalidTransitionError))
	})
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newOrderService(t)

	_, err := svc.List(context.Background(), "lost")

	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
}

func TestTrackingQRCode(t *testing.T) {
	svc, deps := newOrderService(t)
	deps.repo.On("GetOrder", mock.Anything, "order-1").Return(storedOrder(domain.StatusNew), nil).Once()
	deps.repo.On("GetOrder", mock.Anything, "missing").Return(nil, domain.ErrOrderNotFound).Once()
	deps.qr.On("Generate", "order-1").Return([]byte{0x89, 'P', 'N', 'G'}, nil).Once()

	png, err := svc.TrackingQRCode(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, byte(0x89), png[0])

	_, err = svc.TrackingQRCode(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestTrackingQRGenerator(t *testing.T) {
	gen := service.NewTrackingQRGenerator("https://kitchen.example/")

	assert.Equal(t, "https://kitchen.example/orders/abc", gen.TrackingURL("abc"))

	png, err := gen.Generate("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
