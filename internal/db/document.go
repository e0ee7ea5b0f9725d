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

// MongoDocumentCollection implements DocumentCollection for MongoDB.
type MongoDocumentCollection struct {
	Collection *mongo.Collection
}

// InsertDocument inserts an expiring document.
func (c *MongoDocumentCollection) InsertDocument(ctx context.Context, doc models.ExpiringDocument) error {
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = time.Now()
	if doc.State == "" {
		doc.State = models.DocumentActive
	}
	if doc.AlertDays == 0 {
		doc.AlertDays = models.DefaultDocumentAlertDays
	}
	_, err := c.Collection.InsertOne(ctx, doc)
	return err
}

// FindDocuments queries expiring documents, sorted by due date ascending.
func (c *MongoDocumentCollection) FindDocuments(ctx context.Context, filter bson.M) ([]models.ExpiringDocument, error) {
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []models.ExpiringDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateDocument updates an expiring document by ID.
func (c *MongoDocumentCollection) UpdateDocument(ctx context.Context, id string, doc models.ExpiringDocument) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}

	doc.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

// DeleteDocument deletes an expiring document by ID.
func (c *MongoDocumentCollection) DeleteDocument(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}
