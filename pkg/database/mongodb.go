package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// Connect establishes a connection to MongoDB and bootstraps the indexes the
// compliance queries rely on.
func Connect(mongoURI string) (*mongo.Database, error) {
	cs, err := connstring.ParseAndValidate(mongoURI)
	if err != nil {
		return nil, fmt.Errorf("invalid MongoDB URI: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	log.Println("Successfully connected to MongoDB")

	dbName := cs.Database
	if dbName == "" {
		dbName = "fleet_compliance"
	}

	db := client.Database(dbName)

	if err := createIndexes(db); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	return db, nil
}

func createIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	usersCollection := db.Collection("users")
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
	}
	if _, err := usersCollection.Indexes().CreateMany(ctx, userIndexes); err != nil {
		log.Printf("Failed to create user indexes: %v", err)
	}

	ridersCollection := db.Collection("riders")
	riderIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "assignment_status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "vehicle_id", Value: 1}},
		},
	}
	if _, err := ridersCollection.Indexes().CreateMany(ctx, riderIndexes); err != nil {
		log.Printf("Failed to create rider indexes: %v", err)
	}

	vehiclesCollection := db.Collection("vehicles")
	vehicleIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "plate_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "insurance.mandatory.expiry_date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "insurance.comprehensive.expiry_date", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "license_expiry_date", Value: 1}},
		},
	}
	if _, err := vehiclesCollection.Indexes().CreateMany(ctx, vehicleIndexes); err != nil {
		log.Printf("Failed to create vehicle indexes: %v", err)
	}

	// Non-unique by design: one-record-per-period is enforced by the cycle
	// generator's existence check, this index only serves that probe.
	checksCollection := db.Collection("monthly_checks")
	checkIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "rider_id", Value: 1},
				{Key: "vehicle_id", Value: 1},
				{Key: "check_date", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "check_date", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	if _, err := checksCollection.Indexes().CreateMany(ctx, checkIndexes); err != nil {
		log.Printf("Failed to create monthly check indexes: %v", err)
	}

	log.Println("Database indexes created successfully")
	return nil
}

// Disconnect closes the MongoDB connection.
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %v", err)
	}

	log.Println("Disconnected from MongoDB")
	return nil
}

// Health checks the database connection health.
func Health(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.Client().Ping(ctx, nil)
}
