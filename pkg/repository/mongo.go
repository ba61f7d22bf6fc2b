package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
)

const (
	productsCollection   = "products"
	ordersCollection     = "orders"
	newsletterCollection = "newsletter"
)

type MongoRepository struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongoRepository(cfg *config.MongoDBConfig) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// PlaceOrder appends the order record and returns the generated id.
func (m *MongoRepository) PlaceOrder(ctx context.Context, order *models.Order) (string, error) {
	res, err := m.database.Collection(ordersCollection).InsertOne(ctx, order)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

// ListOrders returns orders most recent first, for the order history view.
func (m *MongoRepository) ListOrders(ctx context.Context, limit int64) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "placedAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cursor, err := m.database.Collection(ordersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// ListProducts returns every catalog record.
func (m *MongoRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	return m.findProducts(ctx, bson.M{})
}

// FeaturedProducts returns catalog records flagged for the home screen.
func (m *MongoRepository) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return m.findProducts(ctx, bson.M{"isFeatured": true})
}

// GetProduct looks up a single catalog record by id.
func (m *MongoRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := m.database.Collection(productsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &product, nil
}

func (m *MongoRepository) findProducts(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cursor, err := m.database.Collection(productsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// SubscribeNewsletter appends a signup record with the subscription time.
func (m *MongoRepository) SubscribeNewsletter(ctx context.Context, email string) error {
	_, err := m.database.Collection(newsletterCollection).InsertOne(ctx, bson.M{
		"email":        email,
		"subscribedAt": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert newsletter signup: %w", err)
	}
	return nil
}
