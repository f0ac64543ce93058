package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	mongoConnect = mongo.Connect
	pingClient   = func(ctx context.Context, c *mongo.Client) error { return c.Ping(ctx, readpref.Primary()) }
)

type mongoDB struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoDB 連線並 Ping，10 秒內未完成則回傳錯誤
func NewMongoDB(ctx context.Context, uri, name string) (DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongoConnect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := pingClient(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &mongoDB{client: client, db: client.Database(name)}, nil
}

func (m *mongoDB) Collection(name string) Collection {
	return m.db.Collection(name)
}

func (m *mongoDB) Ping(ctx context.Context) error {
	return pingClient(ctx, m.client)
}

func (m *mongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
