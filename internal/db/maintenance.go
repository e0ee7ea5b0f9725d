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

// MongoMaintenanceCollection implements MaintenanceCollection for MongoDB.
type MongoMaintenanceCollection struct {
	Collection *mongo.Collection
}

// InsertMaintenance inserts a maintenance item.
func (c *MongoMaintenanceCollection) InsertMaintenance(ctx context.Context, item models.MaintenanceItem) error {
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	if item.AlertKm == 0 {
		item.AlertKm = models.DefaultMaintenanceAlertKm
	}
	_, err := c.Collection.InsertOne(ctx, item)
	return err
}

// FindMaintenance queries maintenance items, most recent first.
func (c *MongoMaintenanceCollection) FindMaintenance(ctx context.Context, filter bson.M) ([]models.MaintenanceItem, error) {
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.MaintenanceItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// LatestPerType returns, for each (vehicle, type) pair among the given vehicle
// IDs, only the most recent item by date. Older rows are historical detail the
// compliance engine does not consume.
func (c *MongoMaintenanceCollection) LatestPerType(ctx context.Context, vehicleIDs []string) ([]models.MaintenanceItem, error) {
	if len(vehicleIDs) == 0 {
		return nil, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"vehicle_id": bson.M{"$in": vehicleIDs}}}},
		{{Key: "$sort", Value: bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    bson.M{"vehicle_id": "$vehicle_id", "type": "$type"},
			"latest": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$latest"}}},
	}

	cursor, err := c.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.MaintenanceItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteMaintenance deletes a maintenance item by ID.
func (c *MongoMaintenanceCollection) DeleteMaintenance(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid maintenance ID: %w", err)
	}

	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("maintenance item not found")
	}
	return nil
}
