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

// InspectionRepository is the gateway to the monthly_checks collection. It
// applies no business rules; uniqueness of (rider, vehicle, period) is the
// cycle generator's check-then-write responsibility.
type InspectionRepository struct {
	collection *mongo.Collection
}

func NewInspectionRepository(db *mongo.Database) *InspectionRepository {
	return &InspectionRepository{
		collection: db.Collection("monthly_checks"),
	}
}

func (r *InspectionRepository) Insert(record *models.InspectionRecord) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	record.ID = primitive.NewObjectID()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return "", err
	}

	return record.ID.Hex(), nil
}

func (r *InspectionRepository) FindByID(id string) (*models.InspectionRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var record models.InspectionRecord
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCheckNotFound
		}
		return nil, err
	}

	return &record, nil
}

// FindByRiderVehiclePeriod looks up the single record a (rider, vehicle,
// period) triple may have. The period must be a normalized first-of-month
// date, the same value the cycle generator writes.
func (r *InspectionRepository) FindByRiderVehiclePeriod(riderID, vehicleID string, period time.Time) (*models.InspectionRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"rider_id":   riderID,
		"vehicle_id": vehicleID,
		"check_date": period,
	}

	var record models.InspectionRecord
	err := r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCheckNotFound
		}
		return nil, err
	}

	return &record, nil
}

func (r *InspectionRepository) FindPendingByPeriod(period time.Time) ([]*models.InspectionRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.CheckStatusPending,
		"check_date": period,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeRecords(ctx, cursor)
}

// FindFiltered lists records for the CRUD surface. Zero values mean "any".
func (r *InspectionRepository) FindFiltered(period *time.Time, status, riderID string) ([]*models.InspectionRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if period != nil {
		filter["check_date"] = *period
	}
	if status != "" {
		filter["status"] = status
	}
	if riderID != "" {
		filter["rider_id"] = riderID
	}

	opts := options.Find().SetSort(bson.D{{Key: "check_date", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeRecords(ctx, cursor)
}

func (r *InspectionRepository) SetLastReminderSent(id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	update := bson.M{
		"$set": bson.M{
			"last_reminder_sent": at,
			"updated_at":         time.Now(),
			"updated_by":         models.SystemActor,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrCheckNotFound
	}

	return nil
}

func (r *InspectionRepository) SetStatus(id string, status string, by models.Actor) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
			"updated_by": by,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrCheckNotFound
	}

	return nil
}

// MarkCompleted writes the completed transition in one update: status,
// answers, odometer and completedAt together, so completed_at is set exactly
// when the status flips.
func (r *InspectionRepository) MarkCompleted(id string, answers models.InspectionAnswers, odometer *int, completedAt time.Time, by models.Actor) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	fields := bson.M{
		"status":       models.CheckStatusCompleted,
		"answers":      answers,
		"completed_at": completedAt,
		"updated_at":   time.Now(),
		"updated_by":   by,
	}
	if odometer != nil {
		fields["odometer_reading"] = *odometer
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return ErrCheckNotFound
	}

	return nil
}

func (r *InspectionRepository) Delete(id string) error {
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
		return ErrCheckNotFound
	}

	return nil
}

func decodeRecords(ctx context.Context, cursor *mongo.Cursor) ([]*models.InspectionRecord, error) {
	var records []*models.InspectionRecord
	for cursor.Next(ctx) {
		var record models.InspectionRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, cursor.Err()
}
