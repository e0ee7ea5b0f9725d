package db

import (
	"context"
	"time"

	"github.com/flotasur/fleet-management/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoFuelCollection implements FuelCollection for MongoDB.
type MongoFuelCollection struct {
	Collection *mongo.Collection
}

// InsertFuelRecord inserts a fuel fill-up.
func (c *MongoFuelCollection) InsertFuelRecord(ctx context.Context, record models.FuelRecord) error {
	record.CreatedAt = time.Now()
	_, err := c.Collection.InsertOne(ctx, record)
	return err
}

// FindFuelRecords queries fill-ups, most recent first.
func (c *MongoFuelCollection) FindFuelRecords(ctx context.Context, filter bson.M) ([]models.FuelRecord, error) {
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.FuelRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LastForVehicle returns the most recent fill-up of a vehicle by date then
// odometer, or nil when the vehicle has none.
func (c *MongoFuelCollection) LastForVehicle(ctx context.Context, vehicleID string) (*models.FuelRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "odometer", Value: -1}})

	var record models.FuelRecord
	err := c.Collection.FindOne(ctx, bson.M{"vehicle_id": vehicleID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
