package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Anittaa1111/Hostel-Management/internal/models"
)

func TestMongoUsers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get by email decodes document", func(mt *mtest.T) {
		users := &MongoUsers{Col: mt.DB.Collection(usersCollection)}
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "hostel.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "name", Value: "Hostel Owner"},
			{Key: "email", Value: "owner@hostel.com"},
			{Key: "password", Value: "hash"},
			{Key: "role", Value: models.RoleHostelAuthority},
			{Key: "isActive", Value: true},
			{Key: "isVerified", Value: true},
			{Key: "createdAt", Value: created},
		}))

		user, err := users.GetByEmail(context.Background(), "owner@hostel.com")
		require.NoError(mt, err)
		assert.Equal(mt, "u-1", user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)
		assert.Equal(mt, models.RoleHostelAuthority, user.Role)
		assert.True(mt, user.CanAuthenticate())
		assert.True(mt, user.CreatedAt.Equal(created))
	})

	mt.Run("missing user maps to ErrNotFound", func(mt *mtest.T) {
		users := &MongoUsers{Col: mt.DB.Collection(usersCollection)}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "hostel.users", mtest.FirstBatch))

		_, err := users.GetByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("duplicate email maps to ErrDuplicate", func(mt *mtest.T) {
		users := &MongoUsers{Col: mt.DB.Collection(usersCollection)}
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		user := &models.User{Email: "a@x.com", Role: models.RoleUser}
		err := users.Create(context.Background(), user)
		assert.ErrorIs(mt, err, ErrDuplicate)
		assert.NotEmpty(mt, user.ID)
	})

	mt.Run("delete of missing user maps to ErrNotFound", func(mt *mtest.T) {
		users := &MongoUsers{Col: mt.DB.Collection(usersCollection)}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, users.Delete(context.Background(), "u-1"), ErrNotFound)
	})
}

func TestMongoPending(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert is keyed by email", func(mt *mtest.T) {
		pending := &MongoPending{Col: mt.DB.Collection(otpsCollection)}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		now := time.Now().UTC()
		err := pending.Upsert(context.Background(), &models.PendingVerification{
			Email: "a@x.com", CodeHash: "h", CreatedAt: now, ExpiresAt: now.Add(10 * time.Minute),
		})
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
		updates := started.Command.Lookup("updates").Array()
		first, err := updates.IndexErr(0)
		require.NoError(mt, err)
		doc := first.Value().Document()
		assert.Equal(mt, "a@x.com", doc.Lookup("q", "_id").StringValue())
		assert.True(mt, doc.Lookup("upsert").Boolean())
	})

	mt.Run("get returns stored code hash", func(mt *mtest.T) {
		pending := &MongoPending{Col: mt.DB.Collection(otpsCollection)}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "hostel.otps", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "a@x.com"},
			{Key: "codeHash", Value: "h"},
		}))

		got, err := pending.Get(context.Background(), "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, "a@x.com", got.Email)
		assert.Equal(mt, "h", got.CodeHash)
	})
}
