package repository

import (
	"context"
	"time"

	"fleet-compliance/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RiderRepository struct {
	collection *mongo.Collection
}

func NewRiderRepository(db *mongo.Database) *RiderRepository {
	return &RiderRepository{
		collection: db.Collection("riders"),
	}
}

func (r *RiderRepository) Create(rider *models.Rider) (*models.Rider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rider.CreatedAt = time.Now()
	rider.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, rider)
	if err != nil {
		return nil, err
	}

	rider.ID = result.InsertedID.(primitive.ObjectID)
	return rider, nil
}

func (r *RiderRepository) FindByID(id string) (*models.Rider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var rider models.Rider
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&rider)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRiderNotFound
		}
		return nil, err
	}

	return &rider, nil
}

func (r *RiderRepository) FindAll() ([]*models.Rider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeRiders(ctx, cursor)
}

// FindActive returns all riders with active status, assigned or not.
func (r *RiderRepository) FindActive() ([]*models.Rider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"status": models.RiderStatusActive})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeRiders(ctx, cursor)
}

func (r *RiderRepository) Update(id string, rider *models.Rider) (*models.Rider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	rider.UpdatedAt = time.Now()

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": rider},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Rider
	if err := result.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrRiderNotFound
		}
		return nil, err
	}

	return &updated, nil
}

// UpdateAssignment binds the rider to a vehicle, or unbinds when vehicleID is
// empty.
func (r *RiderRepository) UpdateAssignment(id string, vehicleID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	assignment := models.AssignmentAssigned
	if vehicleID == "" {
		assignment = models.AssignmentUnassigned
	}

	update := bson.M{
		"$set": bson.M{
			"vehicle_id":        vehicleID,
			"assignment_status": assignment,
			"updated_at":        time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrRiderNotFound
	}

	return nil
}

func (r *RiderRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return ErrRiderNotFound
	}

	return nil
}

func decodeRiders(ctx context.Context, cursor *mongo.Cursor) ([]*models.Rider, error) {
	var riders []*models.Rider
	for cursor.Next(ctx) {
		var rider models.Rider
		if err := cursor.Decode(&rider); err != nil {
			return nil, err
		}
		riders = append(riders, &rider)
	}
	return riders, cursor.Err()
}
