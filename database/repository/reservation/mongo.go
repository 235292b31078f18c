package reservationRepo

import (
	"context"
	"errors"
	"time"

	"casaluna/database"
	"casaluna/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoReservationStore struct {
	coll *mongo.Collection
}

// NewMongoReservationStore returns the primary reservation store backed by
// MongoDB.
func NewMongoReservationStore() Store {
	db := database.MongoClient.Database("casaluna")
	return &mongoReservationStore{
		coll: db.Collection("reservations"),
	}
}

func (r *mongoReservationStore) Name() string { return "mongo" }

func (r *mongoReservationStore) Insert(ctx context.Context, res models.Reservation) error {
	_, err := r.coll.InsertOne(ctx, res)
	return err
}

func (r *mongoReservationStore) Upsert(ctx context.Context, res models.Reservation) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": res.ID}, res, opts)
	return err
}

func (r *mongoReservationStore) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *mongoReservationStore) GetByProviderRef(ctx context.Context, reference string) (*models.Reservation, error) {
	var res models.Reservation
	err := r.coll.FindOne(ctx, bson.M{"provider.reference": reference}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *mongoReservationStore) ListByStatus(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoReservationStore) ListAll(ctx context.Context) ([]models.Reservation, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Reservation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Transition is a single conditional update keyed on the current status, so
// a concurrent or repeated confirmation matches zero documents instead of
// transitioning twice.
func (r *mongoReservationStore) Transition(ctx context.Context, id string, from, to models.ReservationStatus, at time.Time) (bool, error) {
	set := bson.M{"status": to}
	if to == models.StatusConfirmed {
		set["confirmedAt"] = at
	}
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}
