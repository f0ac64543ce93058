package store

import (
	"context"
	"fmt"
	"math"

	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func courses(db database.DB) database.Collection { return db.Collection(CoursesCollection) }

func ListCourses(ctx context.Context, db database.DB, q *query.Query) ([]bson.M, int64, error) {
	docs, total, err := list(ctx, courses(db), q, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("ListCourses: %w", err)
	}
	return docs, total, nil
}

func ListCoursesByBootcamp(ctx context.Context, db database.DB, bootcampID primitive.ObjectID) ([]model.Course, error) {
	cur, err := courses(db).Find(ctx, bson.M{"bootcamp": bootcampID})
	if err != nil {
		return nil, fmt.Errorf("ListCoursesByBootcamp: %w", err)
	}
	out := []model.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("ListCoursesByBootcamp: %w", err)
	}
	return out, nil
}

func GetCourseByID(ctx context.Context, db database.DB, id primitive.ObjectID) (*model.Course, error) {
	c := &model.Course{}
	if err := courses(db).FindOne(ctx, bson.M{"_id": id}).Decode(c); err != nil {
		return nil, fmt.Errorf("GetCourseByID: %w", err)
	}
	return c, nil
}

func CreateCourse(ctx context.Context, db database.DB, c *model.Course) (*model.Course, error) {
	c.CreatedAt = timeNow()
	res, err := courses(db).InsertOne(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("CreateCourse: %w", err)
	}
	if c.ID, err = insertedID(res); err != nil {
		return nil, fmt.Errorf("CreateCourse: %w", err)
	}
	return c, nil
}

func UpdateCourse(ctx context.Context, db database.DB, id primitive.ObjectID, set bson.M) (*model.Course, error) {
	c := &model.Course{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := courses(db).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(c); err != nil {
		return nil, fmt.Errorf("UpdateCourse: %w", err)
	}
	return c, nil
}

func DeleteCourse(ctx context.Context, db database.DB, id primitive.ObjectID) error {
	res, err := courses(db).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("DeleteCourse: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("DeleteCourse: %w", mongo.ErrNoDocuments)
	}
	return nil
}

// DeleteCoursesByBootcamp 回傳刪除筆數
func DeleteCoursesByBootcamp(ctx context.Context, db database.DB, bootcampID primitive.ObjectID) (int64, error) {
	res, err := courses(db).DeleteMany(ctx, bson.M{"bootcamp": bootcampID})
	if err != nil {
		return 0, fmt.Errorf("DeleteCoursesByBootcamp: %w", err)
	}
	return res.DeletedCount, nil
}

// AverageTuition 回傳 bootcamp 課程學費平均，無條件進位到 10；無課程時回傳 nil
func AverageTuition(ctx context.Context, db database.DB, bootcampID primitive.ObjectID) (*float64, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "tuition", Value: 1}})
	cur, err := courses(db).Find(ctx, bson.M{"bootcamp": bootcampID}, opts)
	if err != nil {
		return nil, fmt.Errorf("AverageTuition: %w", err)
	}
	var rows []struct {
		Tuition float64 `bson:"tuition"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("AverageTuition: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	sum := 0.0
	for _, r := range rows {
		sum += r.Tuition
	}
	avg := math.Ceil(sum/float64(len(rows))/10) * 10
	return &avg, nil
}

// RecalculateAverageCost 課程新增、修改或刪除後同步 bootcamp.averageCost
func RecalculateAverageCost(ctx context.Context, db database.DB, bootcampID primitive.ObjectID) error {
	avg, err := AverageTuition(ctx, db, bootcampID)
	if err != nil {
		return err
	}
	return SetBootcampAverageCost(ctx, db, bootcampID, avg)
}
