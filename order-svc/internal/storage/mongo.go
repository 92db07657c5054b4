package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/domain"
)

const OrdersCollection = "orders"

type MongoRepository struct {
	Collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{Collection: db.Collection(OrdersCollection)}
}

func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (r *MongoRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	_, err := r.Collection.InsertOne(ctx, order)
	return err
}

func (r *MongoRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders newest first. An empty status lists all of them.
func (r *MongoRepository) ListOrders(ctx context.Context, status domain.Status) ([]domain.Order, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus applies change only while the stored status still equals
// change.From. A miss on an existing order means another writer got there
// first and is reported as ErrStatusConflict.
func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, change domain.StatusChange) (*domain.Order, error) {
	filter := bson.M{"_id": id, "status": change.From}
	update := bson.M{
		"$set":  bson.M{"status": change.To, "updatedAt": change.ChangedAt},
		"$push": bson.M{"history": change},
	}

	var order domain.Order
	err := r.Collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&order)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	n, err := r.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return nil, domain.ErrStatusConflict
}
