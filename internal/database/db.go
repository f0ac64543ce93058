package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the subset of *mongo.Collection the store layer uses.
type Collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// DB 封裝 MongoDB database，方便測試時替換 FakeDB
type DB interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type FakeDB struct {
	CollectionFn func(name string) Collection
	PingFn       func(ctx context.Context) error
	CloseFn      func(ctx context.Context) error
}

func (f *FakeDB) Collection(name string) Collection {
	if f.CollectionFn != nil {
		return f.CollectionFn(name)
	}
	panic("unexpected Collection")
}

func (f *FakeDB) Ping(ctx context.Context) error {
	if f.PingFn != nil {
		return f.PingFn(ctx)
	}
	panic("unexpected Ping")
}

func (f *FakeDB) Close(ctx context.Context) error {
	if f.CloseFn != nil {
		return f.CloseFn(ctx)
	}
	return nil
}

// FakeCollection 每個方法都可由 ...Fn 覆寫，未設定時 panic
type FakeCollection struct {
	FindOneFn          func(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindFn             func(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	CountDocumentsFn   func(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
	InsertOneFn        func(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOneFn        func(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOneAndUpdateFn func(ctx context.Context, filter any, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	DeleteOneFn        func(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteManyFn       func(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

func (f *FakeCollection) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult {
	if f.FindOneFn != nil {
		return f.FindOneFn(ctx, filter, opts...)
	}
	panic("unexpected FindOne")
}

func (f *FakeCollection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.FindFn != nil {
		return f.FindFn(ctx, filter, opts...)
	}
	panic("unexpected Find")
}

func (f *FakeCollection) CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error) {
	if f.CountDocumentsFn != nil {
		return f.CountDocumentsFn(ctx, filter, opts...)
	}
	panic("unexpected CountDocuments")
}

func (f *FakeCollection) InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.InsertOneFn != nil {
		return f.InsertOneFn(ctx, document, opts...)
	}
	panic("unexpected InsertOne")
}

func (f *FakeCollection) UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	if f.UpdateOneFn != nil {
		return f.UpdateOneFn(ctx, filter, update, opts...)
	}
	panic("unexpected UpdateOne")
}

func (f *FakeCollection) FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	if f.FindOneAndUpdateFn != nil {
		return f.FindOneAndUpdateFn(ctx, filter, update, opts...)
	}
	panic("unexpected FindOneAndUpdate")
}

func (f *FakeCollection) DeleteOne(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if f.DeleteOneFn != nil {
		return f.DeleteOneFn(ctx, filter, opts...)
	}
	panic("unexpected DeleteOne")
}

func (f *FakeCollection) DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	if f.DeleteManyFn != nil {
		return f.DeleteManyFn(ctx, filter, opts...)
	}
	panic("unexpected DeleteMany")
}
