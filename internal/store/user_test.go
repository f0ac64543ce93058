package store

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/query"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestCreateUser(t *testing.T) {
	id := primitive.NewObjectID()
	var inserted *model.User
	coll := &database.FakeCollection{
		InsertOneFn: func(_ context.Context, doc any, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
			inserted = doc.(*model.User)
			return &mongo.InsertOneResult{InsertedID: id}, nil
		},
	}
	db := fakeDB(t, map[string]*database.FakeCollection{UsersCollection: coll})

	u, err := CreateUser(context.Background(), db, &model.User{Name: "A", Email: " John@Gmail.com ", Role: model.RoleUser})
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "john@gmail.com", inserted.Email)
	require.Equal(t, fixedNow, u.CreatedAt)

	coll.InsertOneFn = func(context.Context, any, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
		return nil, errors.New("dup")
	}
	_, err = CreateUser(context.Background(), db, &model.User{})
	require.ErrorContains(t, err, "CreateUser")

	coll.InsertOneFn = func(context.Context, any, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
		return &mongo.InsertOneResult{InsertedID: "x"}, nil
	}
	_, err = CreateUser(context.Background(), db, &model.User{})
	require.Error(t, err)
}

func TestGetUser(t *testing.T) {
	id := primitive.NewObjectID()
	stored := model.User{ID: id, Name: "A", Email: "a@b.c", PasswordHash: "h", Role: model.RolePublisher}
	var filters []any
	coll := &database.FakeCollection{
		FindOneFn: func(_ context.Context, f any, _ ...*options.FindOneOptions) *mongo.SingleResult {
			filters = append(filters, f)
			return single(stored)
		},
	}
	db := fakeDB(t, map[string]*database.FakeCollection{UsersCollection: coll})

	u, err := GetUserByID(context.Background(), db, id)
	require.NoError(t, err)
	require.Equal(t, "h", u.PasswordHash)

	u, err = GetUserByEmail(context.Background(), db, "A@B.C")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)

	_, err = GetUserByResetToken(context.Background(), db, "hash")
	require.NoError(t, err)

	require.Equal(t, bson.M{"_id": id}, filters[0])
	require.Equal(t, bson.M{"email": "a@b.c"}, filters[1])
	require.Equal(t, bson.M{
		"resetPasswordToken":  "hash",
		"resetPasswordExpire": bson.M{"$gt": fixedNow},
	}, filters[2])

	coll.FindOneFn = func(context.Context, any, ...*options.FindOneOptions) *mongo.SingleResult { return missing() }
	_, err = GetUserByID(context.Background(), db, id)
	require.True(t, IsNotFound(err))
	_, err = GetUserByEmail(context.Background(), db, "x")
	require.True(t, IsNotFound(err))
	_, err = GetUserByResetToken(context.Background(), db, "x")
	require.True(t, IsNotFound(err))
}

func TestUserUpdates(t *testing.T) {
	id := primitive.NewObjectID()
	var updates []any
	coll := &database.FakeCollection{
		UpdateOneFn: func(_ context.Context, f any, u any, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
			require.Equal(t, bson.M{"_id": id}, f)
			updates = append(updates, u)
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	db := fakeDB(t, map[string]*database.FakeCollection{UsersCollection: coll})
	exp := fixedNow.Add(10 * time.Minute)

	require.NoError(t, SetResetToken(context.Background(), db, id, "h", exp))
	require.NoError(t, ClearResetToken(context.Background(), db, id))
	require.NoError(t, UpdatePassword(context.Background(), db, id, "new"))

	require.Equal(t, bson.M{"$set": bson.M{"resetPasswordToken": "h", "resetPasswordExpire": exp}}, updates[0])
	require.Equal(t, bson.M{"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""}}, updates[1])
	require.Equal(t, bson.M{"$set": bson.M{"password": "new"}, "$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""}}, updates[2])

	coll.UpdateOneFn = func(context.Context, any, any, ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
		return nil, errors.New("fail")
	}
	require.ErrorContains(t, SetResetToken(context.Background(), db, id, "h", exp), "SetResetToken")
	require.ErrorContains(t, ClearResetToken(context.Background(), db, id), "ClearResetToken")
	require.ErrorContains(t, UpdatePassword(context.Background(), db, id, "x"), "UpdatePassword")
}

func TestListUsersStripsSecrets(t *testing.T) {
	q, err := query.Parse(url.Values{"role": {"publisher"}}, UserFields)
	require.NoError(t, err)
	coll := &database.FakeCollection{
		CountDocumentsFn: func(context.Context, any, ...*options.CountOptions) (int64, error) { return 1, nil },
		FindFn: func(_ context.Context, f any, _ ...*options.FindOptions) (*mongo.Cursor, error) {
			require.Equal(t, bson.M{"role": bson.M{"$eq": "publisher"}}, f)
			return cursor(bson.D{
				{Key: "name", Value: "A"},
				{Key: "password", Value: "hash"},
				{Key: "resetPasswordToken", Value: "t"},
			})
		},
	}
	db := fakeDB(t, map[string]*database.FakeCollection{UsersCollection: coll})

	docs, total, err := ListUsers(context.Background(), db, q)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, bson.M{"name": "A"}, docs[0])

	_, err = query.Parse(url.Values{"password": {"x"}}, UserFields)
	require.Error(t, err)
}

func TestUpdateAndDeleteUser(t *testing.T) {
	id := primitive.NewObjectID()
	var update any
	coll := &database.FakeCollection{
		FindOneAndUpdateFn: func(_ context.Context, _ any, u any, _ ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
			update = u
			return single(model.User{ID: id, Name: "B", Email: "b@c.d"})
		},
		DeleteOneFn: func(context.Context, any, ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		},
	}
	db := fakeDB(t, map[string]*database.FakeCollection{UsersCollection: coll})

	u, err := UpdateUser(context.Background(), db, id, bson.M{"email": " B@C.D "})
	require.NoError(t, err)
	require.Equal(t, "B", u.Name)
	require.Equal(t, bson.M{"$set": bson.M{"email": "b@c.d"}}, update)

	coll.FindOneAndUpdateFn = func(context.Context, any, any, ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
		return missing()
	}
	_, err = UpdateUser(context.Background(), db, id, bson.M{"name": "x"})
	require.True(t, IsNotFound(err))

	require.NoError(t, DeleteUser(context.Background(), db, id))
	coll.DeleteOneFn = func(context.Context, any, ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
		return &mongo.DeleteResult{}, nil
	}
	require.True(t, IsNotFound(DeleteUser(context.Background(), db, id)))
	coll.DeleteOneFn = func(context.Context, any, ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
		return nil, errors.New("boom")
	}
	require.ErrorContains(t, DeleteUser(context.Background(), db, id), "DeleteUser")
}
