package db

import (
	"context"
	"fmt"
	"time"

	"github.com/flotasur/fleet-management/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRecipientCollection implements RecipientCollection for MongoDB.
type MongoRecipientCollection struct {
	Collection *mongo.Collection
}

// InsertRecipient inserts an alert recipient. A duplicate email surfaces as a
// duplicate-key error.
func (c *MongoRecipientCollection) InsertRecipient(ctx context.Context, recipient models.Recipient) error {
	recipient.CreatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, recipient)
	return err
}

// FindRecipients queries recipients, sorted by name.
func (c *MongoRecipientCollection) FindRecipients(ctx context.Context, filter bson.M) ([]models.Recipient, error) {
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipients []models.Recipient
	if err := cursor.All(ctx, &recipients); err != nil {
		return nil, err
	}
	return recipients, nil
}

// UpdateRecipient updates a recipient by ID.
func (c *MongoRecipientCollection) UpdateRecipient(ctx context.Context, id string, recipient models.Recipient) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid recipient ID: %w", err)
	}

	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": recipient})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("recipient not found")
	}
	return nil
}

// DeleteRecipient deletes a recipient by ID.
func (c *MongoRecipientCollection) DeleteRecipient(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid recipient ID: %w", err)
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("recipient not found")
	}
	return nil
}
