package tests

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/domain"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/mocks"
	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/storage"
)

const ordersNS = "kitchen.orders"

func orderDoc(id string, status domain.Status) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "customer", Value: bson.D{{Key: "name", Value: "Олена"}, {Key: "phone", Value: "+380123456789"}, {Key: "address", Value: "Київ"}}},
		{Key: "items", Value: bson.A{bson.D{{Key: "dish_id", Value: "1"}, {Key: "name", Value: "Борщ"}, {Key: "price", Value: int64(185)}, {Key: "quantity", Value: int32(2)}}}},
		{Key: "total", Value: int64(370)},
		{Key: "status", Value: string(status)},
		{Key: "createdAt", Value: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)},
	}
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create order", func(mt *mtest.T) {
		repo := &storage.MongoRepository{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		order := storedOrder(domain.StatusNew)
		assert.NoError(mt, repo.CreateOrder(context.Background(), order))
	})

	mt.Run("get order", func(mt *mtest.T) {
		repo := &storage.MongoRepository{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch, orderDoc("order-1", domain.StatusCooking)))

		order, err := repo.GetOrder(context.Background(), "order-1")

		require.NoError(mt, err)
		assert.Equal(mt, domain.StatusCooking, order.Status)
		assert.Equal(mt, int64(370), order.Total)
		require.Len(mt, order.Items, 1)
		assert.Equal(mt, 2, order.Items[0].Quantity)
	})

	mt.Run("get missing order", func(mt *mtest.T) {
		repo := &storage.MongoRepository{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch))

		_, err := repo.GetOrder(context.Background(), "nope")

		assert.ErrorIs(mt, err, domain.ErrOrderNotFound)
	})

	mt.Run("list orders", func(mt *mtest.T) {
		repo := &storage.MongoRepository{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch,
			orderDoc("order-2", domain.StatusNew),
			orderDoc("order-1", domain.StatusNew),
		))

		orders, err := repo.ListOrders(context.Background(), domain.StatusNew)

		require.NoError(mt, err)
		require.Len(mt, orders, 2)
		assert.Equal(mt, "order-2", orders[0].ID)
	})

	mt.Run("guarded update applies", func(mt *mtest.T) {
		repo := &storage.MongoRepository{Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: orderDoc("order-1", domain.StatusCooking)}))

		change := domain.StatusChange{From: domain.StatusNew, To: domain.StatusCooking, ChangedBy: "admin", ChangedAt: time.Now()}
		order, err := repo.UpdateStatus(context.Background(), "order-1", change)

		require.NoError(mt, err)
		assert.Equal(mt, domain.StatusCooking, order.Status)
	})

	mt.Run("guarded update lost race", func(mt *mtest.T) {
		repo := &storage.MongoRepository{Collection: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		change := domain.StatusChange{From: domain.StatusNew, To: domain.StatusCooking, ChangedAt: time.Now()}
		_, err := repo.UpdateStatus(context.Background(), "order-1", change)

		assert.ErrorIs(mt, err, domain.ErrStatusConflict)
	})

	mt.Run("guarded update missing order", func(mt *mtest.T) {
		repo := &storage.MongoRepository{Collection: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch),
		)

		_, err := repo.UpdateStatus(context.Background(), "nope", domain.StatusChange{From: domain.StatusNew, To: domain.StatusCooking})

		assert.ErrorIs(mt, err, domain.ErrOrderNotFound)
	})
}

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return w.err
}

func TestKafkaPublisher_PublishEvent(t *testing.T) {
	writer := &recordingWriter{}
	publisher := storage.NewKafkaPublisher(writer)

	order := storedOrder(domain.StatusNew)
	require.NoError(t, publisher.PublishEvent(context.Background(), domain.PlacedEvent(order)))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, "order-1", string(writer.messages[0].Key))

	var event domain.OrderEvent
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &event))
	assert.Equal(t, domain.EventOrderPlaced, event.Type)
	assert.Equal(t, int64(370), event.Total)
}

func TestRedisNotifier_PublishOrders(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sub := client.Subscribe(context.Background(), storage.OrdersChannel)
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	notifier := storage.NewRedisNotifier(client)
	require.NoError(t, notifier.PublishOrders(context.Background(), []domain.Order{*storedOrder(domain.StatusNew)}))

	msg, err := sub.ReceiveMessage(context.Background())
	require.NoError(t, err)

	var envelope storage.Envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &envelope))
	assert.Equal(t, "orders", envelope.Topic)

	latest, err := mr.Get(storage.OrdersChannel + ":latest")
	require.NoError(t, err)
	assert.Equal(t, msg.Payload, latest)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestHTTPCartClient_GetCartItems(t *testing.T) {
	client := mocks.NewHTTPClient(t)
	carts := storage.NewHTTPCartClient("http://catalog-svc:8081/", client)

	client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Method == http.MethodGet && r.URL.String() == "http://catalog-svc:8081/api/carts/cart-1"
	})).Return(jsonResponse(http.StatusOK, `{"id":"cart-1","items":[{"id":"1","name":"Борщ","price":185,"category":"Перші страви","quantity":2}],"total":370,"item_count":2}`), nil).Once()

	items, err := carts.GetCartItems(context.Background(), "cart-1")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.Item{DishID: "1", Name: "Борщ", Price: 185, Category: "Перші страви", Quantity: 2}, items[0])
}

func TestHTTPCartClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		resp    *http.Response
		err     error
		wantErr error
	}{
		{name: "unknown cart", resp: jsonResponse(http.StatusNotFound, `{"error":"cart not found"}`), wantErr: domain.ErrCartNotFound},
		{name: "catalog failure", resp: jsonResponse(http.StatusInternalServerError, `boom`)},
		{name: "connection refused", err: errors.New("dial tcp: connection refused")},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			client := mocks.NewHTTPClient(t)
			client.On("Do", mock.Anything).Return(testCase.resp, testCase.err).Once()

			err := storage.NewHTTPCartClient("http://catalog-svc:8081", client).ClearCart(context.Background(), "cart-1")

			require.Error(t, err)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			}
		})
	}
}
