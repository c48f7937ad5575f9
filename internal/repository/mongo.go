package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Anittaa1111/Hostel-Management/internal/models"
)

const (
	usersCollection   = "users"
	otpsCollection    = "otps"
	hostelsCollection = "hostels"
)

// NewMongoStore wires the mongo repositories. The client is disconnected on Close.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Users:    &MongoUsers{Col: db.Collection(usersCollection)},
		Pending:  &MongoPending{Col: db.Collection(otpsCollection)},
		Hostels:  &MongoHostels{Col: db.Collection(hostelsCollection)},
		closeFns: []func(context.Context) error{client.Disconnect},
	}
}

// EnsureMongoIndexes creates the unique indexes and the TTL index that
// reaps expired pending verifications.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := db.Collection(hostelsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("hostels index: %w", err)
	}
	if _, err := db.Collection(otpsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return fmt.Errorf("otps index: %w", err)
	}
	return nil
}

func mongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func stamp(id *string, createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}

type MongoUsers struct {
	Col *mongo.Collection
}

func (r *MongoUsers) Create(ctx context.Context, user *models.User) error {
	stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	_, err := r.Col.InsertOne(ctx, user)
	return mongoErr(err)
}

func (r *MongoUsers) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.Col.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoErr(err)
	}
	return &user, nil
}

func (r *MongoUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUsers) List(ctx context.Context) ([]models.User, error) {
	cursor, err := r.Col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUsers) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.Col.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUsers) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUsers) Count(ctx context.Context) (int64, error) {
	return r.Col.CountDocuments(ctx, bson.M{})
}

type MongoPending struct {
	Col *mongo.Collection
}

func (r *MongoPending) Upsert(ctx context.Context, pending *models.PendingVerification) error {
	update := bson.M{"$set": bson.M{
		"codeHash":  pending.CodeHash,
		"createdAt": pending.CreatedAt,
		"expiresAt": pending.ExpiresAt,
	}}
	_, err := r.Col.UpdateByID(ctx, pending.Email, update, options.Update().SetUpsert(true))
	return err
}

func (r *MongoPending) Get(ctx context.Context, email string) (*models.PendingVerification, error) {
	var pending models.PendingVerification
	if err := r.Col.FindOne(ctx, bson.M{"_id": email}).Decode(&pending); err != nil {
		return nil, mongoErr(err)
	}
	return &pending, nil
}

func (r *MongoPending) Delete(ctx context.Context, email string) error {
	_, err := r.Col.DeleteOne(ctx, bson.M{"_id": email})
	return err
}

type MongoHostels struct {
	Col *mongo.Collection
}

func hostelQuery(filter HostelFilter) bson.M {
	query := bson.M{}
	if filter.ActiveOnly {
		query["isActive"] = true
	}
	if filter.VerifiedOnly {
		query["verified"] = true
	}
	if filter.OwnerID != "" {
		query["owner"] = filter.OwnerID
	}
	return query
}

func (r *MongoHostels) Create(ctx context.Context, hostel *models.Hostel) error {
	stamp(&hostel.ID, &hostel.CreatedAt, &hostel.UpdatedAt)
	_, err := r.Col.InsertOne(ctx, hostel)
	return mongoErr(err)
}

func (r *MongoHostels) findOne(ctx context.Context, filter bson.M) (*models.Hostel, error) {
	var hostel models.Hostel
	if err := r.Col.FindOne(ctx, filter).Decode(&hostel); err != nil {
		return nil, mongoErr(err)
	}
	return &hostel, nil
}

func (r *MongoHostels) GetByID(ctx context.Context, id string) (*models.Hostel, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoHostels) GetBySlug(ctx context.Context, slug string) (*models.Hostel, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoHostels) List(ctx context.Context, filter HostelFilter) ([]models.Hostel, error) {
	cursor, err := r.Col.Find(ctx, hostelQuery(filter), options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	hostels := []models.Hostel{}
	if err := cursor.All(ctx, &hostels); err != nil {
		return nil, err
	}
	return hostels, nil
}

func (r *MongoHostels) Update(ctx context.Context, hostel *models.Hostel) error {
	hostel.UpdatedAt = time.Now().UTC()
	res, err := r.Col.ReplaceOne(ctx, bson.M{"_id": hostel.ID}, hostel)
	if err != nil {
		return mongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoHostels) Delete(ctx context.Context, id string) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoHostels) Count(ctx context.Context, filter HostelFilter) (int64, error) {
	return r.Col.CountDocuments(ctx, hostelQuery(filter))
}
