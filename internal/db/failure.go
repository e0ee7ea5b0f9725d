package db

import (
	"context"
	"time"

	"github.com/flotasur/fleet-management/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFailureCollection implements FailureCollection for MongoDB.
type MongoFailureCollection struct {
	Collection *mongo.Collection
}

// InsertFailure inserts a failure event.
func (c *MongoFailureCollection) InsertFailure(ctx context.Context, failure models.Failure) error {
	failure.CreatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, failure)
	return err
}

// FindFailures queries failure events, most recent first.
func (c *MongoFailureCollection) FindFailures(ctx context.Context, filter bson.M) ([]models.Failure, error) {
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var failures []models.Failure
	if err := cursor.All(ctx, &failures); err != nil {
		return nil, err
	}
	return failures, nil
}
