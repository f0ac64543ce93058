package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devcamper/internal/database"
	"devcamper/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	UsersCollection     = "users"
	BootcampsCollection = "bootcamps"
	CoursesCollection   = "courses"
)

// timeNow 測試可覆寫
var timeNow = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// IsNotFound reports whether err comes from a lookup that matched nothing.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// IsDuplicateKey reports a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// list 依 Query 計數後取出當頁文件；filter 與額外條件合併
func list(ctx context.Context, coll database.Collection, q *query.Query, extra bson.M) ([]bson.M, int64, error) {
	filter := q.Filter.BSON()
	for k, v := range extra {
		filter[k] = v
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	cur, err := coll.Find(ctx, filter, q.FindOptions())
	if err != nil {
		return nil, 0, err
	}
	docs := []bson.M{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func insertedID(res *mongo.InsertOneResult) (primitive.ObjectID, error) {
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id %v", res.InsertedID)
	}
	return id, nil
}
