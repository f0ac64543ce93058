package store

import (
	"context"
	"fmt"

	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EarthRadiusMiles 將距離 (mile) 換算為弧度
const EarthRadiusMiles = 3963.0

func bootcamps(db database.DB) database.Collection { return db.Collection(BootcampsCollection) }

// ListBootcamps 回傳當頁（可能經過 projection 的）文件與符合條件的總數
func ListBootcamps(ctx context.Context, db database.DB, q *query.Query) ([]bson.M, int64, error) {
	docs, total, err := list(ctx, bootcamps(db), q, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("ListBootcamps: %w", err)
	}
	return docs, total, nil
}

func GetBootcampByID(ctx context.Context, db database.DB, id primitive.ObjectID) (*model.Bootcamp, error) {
	b := &model.Bootcamp{}
	if err := bootcamps(db).FindOne(ctx, bson.M{"_id": id}).Decode(b); err != nil {
		return nil, fmt.Errorf("GetBootcampByID: %w", err)
	}
	return b, nil
}

func CountBootcampsByUser(ctx context.Context, db database.DB, userID primitive.ObjectID) (int64, error) {
	n, err := bootcamps(db).CountDocuments(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, fmt.Errorf("CountBootcampsByUser: %w", err)
	}
	return n, nil
}

// CreateBootcamp 產生 slug、預設照片與建立時間後寫入
func CreateBootcamp(ctx context.Context, db database.DB, b *model.Bootcamp) (*model.Bootcamp, error) {
	b.Slug = model.Slugify(b.Name)
	if b.Photo == "" {
		b.Photo = model.DefaultPhoto
	}
	if b.Careers == nil {
		b.Careers = []string{}
	}
	b.CreatedAt = timeNow()
	res, err := bootcamps(db).InsertOne(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("CreateBootcamp: %w", err)
	}
	if b.ID, err = insertedID(res); err != nil {
		return nil, fmt.Errorf("CreateBootcamp: %w", err)
	}
	return b, nil
}

// UpdateBootcamp 套用 $set 並回傳更新後的文件；name 變更時一併更新 slug
func UpdateBootcamp(ctx context.Context, db database.DB, id primitive.ObjectID, set bson.M) (*model.Bootcamp, error) {
	if name, ok := set["name"].(string); ok {
		set["slug"] = model.Slugify(name)
	}
	b := &model.Bootcamp{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := bootcamps(db).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(b); err != nil {
		return nil, fmt.Errorf("UpdateBootcamp: %w", err)
	}
	return b, nil
}

func UpdateBootcampPhoto(ctx context.Context, db database.DB, id primitive.ObjectID, photo string) error {
	res, err := bootcamps(db).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"photo": photo}})
	if err != nil {
		return fmt.Errorf("UpdateBootcampPhoto: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("UpdateBootcampPhoto: %w", mongo.ErrNoDocuments)
	}
	return nil
}

// SetBootcampAverageCost 寫入平均學費；cost 為 nil 時移除欄位
func SetBootcampAverageCost(ctx context.Context, db database.DB, id primitive.ObjectID, cost *float64) error {
	update := bson.M{"$unset": bson.M{"averageCost": ""}}
	if cost != nil {
		update = bson.M{"$set": bson.M{"averageCost": *cost}}
	}
	if _, err := bootcamps(db).UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("SetBootcampAverageCost: %w", err)
	}
	return nil
}

// DeleteBootcamp removes only the bootcamp document; courses are removed
// separately by DeleteCoursesByBootcamp.
func DeleteBootcamp(ctx context.Context, db database.DB, id primitive.ObjectID) error {
	res, err := bootcamps(db).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("DeleteBootcamp: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("DeleteBootcamp: %w", mongo.ErrNoDocuments)
	}
	return nil
}

// FindBootcampsWithinRadius 以 $centerSphere 查詢，radius 單位為弧度
func FindBootcampsWithinRadius(ctx context.Context, db database.DB, lng, lat, radius float64) ([]model.Bootcamp, error) {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	}
	cur, err := bootcamps(db).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("FindBootcampsWithinRadius: %w", err)
	}
	out := []model.Bootcamp{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("FindBootcampsWithinRadius: %w", err)
	}
	return out, nil
}

// GetBootcampSummaries 以 $in 一次取回多個 bootcamp 的 name/description
func GetBootcampSummaries(ctx context.Context, db database.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]model.BootcampSummary, error) {
	out := make(map[primitive.ObjectID]model.BootcampSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.D{{Key: "name", Value: 1}, {Key: "description", Value: 1}})
	cur, err := bootcamps(db).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("GetBootcampSummaries: %w", err)
	}
	var rows []model.BootcampSummary
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("GetBootcampSummaries: %w", err)
	}
	for _, r := range rows {
		out[r.ID] = r
	}
	return out, nil
}
