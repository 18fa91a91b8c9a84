package userdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository using a Mongo collection. The
// document body is stored as a JSON string so opaque company records
// round-trip unchanged.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

type mongoDoc struct {
	Key       string    `bson:"key"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (r *MongoRepository) Load(ctx context.Context, key string) (*Document, error) {
	var md mongoDoc
	if err := r.col.FindOne(ctx, bson.M{"key": key}).Decode(&md); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal([]byte(md.Body), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.normalize()
	return &doc, nil
}

func (r *MongoRepository) Save(ctx context.Context, key string, doc *Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	filter := bson.M{"key": key}
	update := bson.M{"$set": mongoDoc{Key: key, Body: string(b), UpdatedAt: time.Now().UTC()}}
	opts := options.Update().SetUpsert(true)
	_, err = r.col.UpdateOne(ctx, filter, update, opts)
	return err
}
