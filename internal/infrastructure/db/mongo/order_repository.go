package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minimarket/storefront/internal/core/domain"
)

const (
	collectionOrders   = "orders"
	collectionCounters = "counters"
)

type OrderRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		col:      db.Collection(collectionOrders),
		counters: db.Collection(collectionCounters),
	}
}

type lineItemDoc struct {
	ProductName    string `bson:"product_name"`
	Quantity       int64  `bson:"quantity"`
	UnitPriceCents int64  `bson:"unit_price_cents"`
	TotalCents     int64  `bson:"total_cents"`
}

type orderDoc struct {
	ID         int64         `bson:"_id"`
	Owner      string        `bson:"owner"`
	Items      []lineItemDoc `bson:"items"`
	TotalCents int64         `bson:"total_cents"`
	CreatedAt  time.Time     `bson:"created_at"`
	Status     string        `bson:"status"`
}

// nextID atomically advances the order counter document. The upserted
// counter is never decremented, so ids are monotonic and never reused.
func (r *OrderRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionOrders},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next order id: %w", err)
	}
	return counter.Seq, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := orderDoc{
		ID:         id,
		Owner:      order.Owner,
		Items:      make([]lineItemDoc, 0, len(order.Items)),
		TotalCents: order.TotalCents,
		CreatedAt:  order.CreatedAt,
		Status:     order.Status,
	}
	for _, item := range order.Items {
		doc.Items = append(doc.Items, lineItemDoc(item))
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *OrderRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Order
	for cursor.Next(ctx) {
		var doc orderDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		out = append(out, *doc.toDomain())
	}
	return out, cursor.Err()
}

func (d orderDoc) toDomain() *domain.Order {
	items := make([]domain.LineItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, domain.LineItem(item))
	}
	return &domain.Order{
		ID:         d.ID,
		Owner:      d.Owner,
		Items:      items,
		TotalCents: d.TotalCents,
		CreatedAt:  d.CreatedAt,
		Status:     d.Status,
	}
}
