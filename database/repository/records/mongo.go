package records

import (
	"context"
	"fmt"
	"time"

	"bookline/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecordRepo implements Repository backed by a Mongo collection.
type MongoRecordRepo struct {
	coll *mongo.Collection
}

func NewMongoRecordRepo(db *mongo.Database) *MongoRecordRepo {
	return &MongoRecordRepo{coll: db.Collection("booking_records")}
}

func (r *MongoRecordRepo) Insert(ctx context.Context, entry models.BookingRecordEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert booking record: %w", err)
	}
	return nil
}

func (r *MongoRecordRepo) FindByPhone(ctx context.Context, phone string, limit int64) ([]models.BookingRecordEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{"phone": phone}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query booking records: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.BookingRecordEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode booking records: %w", err)
	}
	return entries, nil
}
