package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestFakeDB(t *testing.T) {
	db := &FakeDB{}
	require.Panics(t, func() { db.Collection("users") })
	require.Panics(t, func() { db.Ping(context.Background()) })
	require.NoError(t, db.Close(context.Background()))

	coll := &FakeCollection{}
	var gotName string
	db.CollectionFn = func(name string) Collection { gotName = name; return coll }
	db.PingFn = func(context.Context) error { return errors.New("ping") }
	db.CloseFn = func(context.Context) error { return errors.New("close") }

	require.Same(t, coll, db.Collection("bootcamps"))
	require.Equal(t, "bootcamps", gotName)
	require.EqualError(t, db.Ping(context.Background()), "ping")
	require.EqualError(t, db.Close(context.Background()), "close")
}

func TestFakeCollection(t *testing.T) {
	ctx := context.Background()
	c := &FakeCollection{}
	require.Panics(t, func() { c.FindOne(ctx, bson.M{}) })
	require.Panics(t, func() { c.Find(ctx, bson.M{}) })
	require.Panics(t, func() { c.CountDocuments(ctx, bson.M{}) })
	require.Panics(t, func() { c.InsertOne(ctx, bson.M{}) })
	require.Panics(t, func() { c.UpdateOne(ctx, bson.M{}, bson.M{}) })
	require.Panics(t, func() { c.FindOneAndUpdate(ctx, bson.M{}, bson.M{}) })
	require.Panics(t, func() { c.DeleteOne(ctx, bson.M{}) })
	require.Panics(t, func() { c.DeleteMany(ctx, bson.M{}) })

	called := map[string]bool{}
	c.FindOneFn = func(context.Context, any, ...*options.FindOneOptions) *mongo.SingleResult {
		called["findOne"] = true
		return mongo.NewSingleResultFromDocument(bson.M{"name": "x"}, nil, nil)
	}
	c.FindFn = func(context.Context, any, ...*options.FindOptions) (*mongo.Cursor, error) {
		called["find"] = true
		return mongo.NewCursorFromDocuments(nil, nil, nil)
	}
	c.CountDocumentsFn = func(context.Context, any, ...*options.CountOptions) (int64, error) {
		called["count"] = true
		return 3, nil
	}
	c.InsertOneFn = func(context.Context, any, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
		called["insert"] = true
		return &mongo.InsertOneResult{}, nil
	}
	c.UpdateOneFn = func(context.Context, any, any, ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
		called["update"] = true
		return &mongo.UpdateResult{}, nil
	}
	c.FindOneAndUpdateFn = func(context.Context, any, any, ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
		called["findOneAndUpdate"] = true
		return mongo.NewSingleResultFromDocument(bson.M{}, nil, nil)
	}
	c.DeleteOneFn = func(context.Context, any, ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
		called["deleteOne"] = true
		return &mongo.DeleteResult{DeletedCount: 1}, nil
	}
	c.DeleteManyFn = func(context.Context, any, ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
		called["deleteMany"] = true
		return &mongo.DeleteResult{DeletedCount: 2}, nil
	}

	var doc bson.M
	require.NoError(t, c.FindOne(ctx, bson.M{}).Decode(&doc))
	require.Equal(t, "x", doc["name"])
	_, err := c.Find(ctx, bson.M{})
	require.NoError(t, err)
	n, err := c.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	_, err = c.InsertOne(ctx, bson.M{})
	require.NoError(t, err)
	_, err = c.UpdateOne(ctx, bson.M{}, bson.M{})
	require.NoError(t, err)
	require.NoError(t, c.FindOneAndUpdate(ctx, bson.M{}, bson.M{}).Err())
	_, err = c.DeleteOne(ctx, bson.M{})
	require.NoError(t, err)
	_, err = c.DeleteMany(ctx, bson.M{})
	require.NoError(t, err)
	require.Len(t, called, 8)
}
