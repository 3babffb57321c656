package mongostore

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nagul-a/Grocery-tracker/internal/config"
	"github.com/nagul-a/Grocery-tracker/internal/domain"
)

const connectTimeout = 10 * time.Second

// Connect opens a client for cfg.URI and pings the primary.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri must be provided")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if dErr := client.Disconnect(context.Background()); dErr != nil {
			log.Warn().Err(dErr).Msg("mongo disconnect after failed ping")
		}
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}
	return client, nil
}

// ItemStore reads grocery item documents from one collection.
type ItemStore struct {
	coll *mongo.Collection
}

func NewItemStore(client *mongo.Client, cfg config.MongoConfig) *ItemStore {
	return &ItemStore{coll: client.Database(cfg.Database).Collection(cfg.Collection)}
}

func (s *ItemStore) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.RawItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	return s.find(ctx, buildFilter(filter, ""), opts)
}

func (s *ItemStore) ListPurchaseHistory(ctx context.Context, filter domain.ItemFilter, name string) ([]domain.RawItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidParameter("name", "item name is required")
	}
	opts := options.Find().SetSort(bson.D{{Key: "last_purchased", Value: -1}})
	return s.find(ctx, buildFilter(filter, name), opts)
}

// SaveItems inserts items as new documents.
func (s *ItemStore) SaveItems(ctx context.Context, items []domain.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		doc, err := toDocument(item, now)
		if err != nil {
			return 0, err
		}
		docs = append(docs, doc)
	}

	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("mongo insert failed: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (s *ItemStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.RawItem, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find failed: %w", err)
	}

	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode failed: %w", err)
	}

	items := make([]domain.RawItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, toRawItem(doc))
	}
	return items, nil
}

// buildFilter matches category and name exactly, ignoring case.
func buildFilter(filter domain.ItemFilter, name string) bson.M {
	query := bson.M{}
	if filter.UserID != "" {
		query["user_id"] = filter.UserID
	}
	if filter.Category != "" {
		query["category"] = exactInsensitive(filter.Category)
	}
	if name != "" {
		query["name"] = exactInsensitive(name)
	}
	return query
}

func exactInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}

// toRawItem flattens BSON-specific values into the types the normalizer
// understands and exposes _id as id.
func toRawItem(doc bson.M) domain.RawItem {
	raw := make(domain.RawItem, len(doc))
	for key, value := range doc {
		switch v := value.(type) {
		case primitive.ObjectID:
			value = v.Hex()
		case primitive.DateTime:
			value = v.Time().UTC()
		case primitive.Decimal128:
			value = v.String()
		case primitive.Null, primitive.Undefined:
			value = nil
		}
		if key == "_id" {
			key = "id"
		}
		raw[key] = value
	}
	return raw
}

func toDocument(item domain.Item, now time.Time) (bson.M, error) {
	doc := bson.M{
		"name":       item.Name,
		"category":   string(item.Category),
		"unit":       item.Unit,
		"brand":      item.Brand,
		"store":      item.Store,
		"notes":      item.Notes,
		"barcode":    item.Barcode,
		"user_id":    item.UserID,
		"created_at": now,
		"updated_at": now,
	}
	if item.Quantity != nil {
		doc["quantity"] = *item.Quantity
	}
	if item.Price != nil {
		price, err := primitive.ParseDecimal128(item.Price.String())
		if err != nil {
			return nil, fmt.Errorf("encode price of %q: %w", item.Name, err)
		}
		doc["price"] = price
	}
	if item.ExpiryDate != nil {
		doc["expiry_date"] = *item.ExpiryDate
	}
	if item.LastPurchased != nil {
		doc["last_purchased"] = *item.LastPurchased
	}
	return doc, nil
}
