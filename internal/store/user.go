package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devcamper/internal/database"
	"devcamper/internal/model"
	"devcamper/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// privateUserFields 永不出現在清單回應中
var privateUserFields = []string{"password", "resetPasswordToken", "resetPasswordExpire"}

func users(db database.DB) database.Collection { return db.Collection(UsersCollection) }

func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = timeNow()
	res, err := users(db).InsertOne(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	if u.ID, err = insertedID(res); err != nil {
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return u, nil
}

func GetUserByID(ctx context.Context, db database.DB, id primitive.ObjectID) (*model.User, error) {
	u := &model.User{}
	if err := users(db).FindOne(ctx, bson.M{"_id": id}).Decode(u); err != nil {
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return u, nil
}

func GetUserByEmail(ctx context.Context, db database.DB, email string) (*model.User, error) {
	u := &model.User{}
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := users(db).FindOne(ctx, filter).Decode(u); err != nil {
		return nil, fmt.Errorf("GetUserByEmail: %w", err)
	}
	return u, nil
}

// GetUserByResetToken 找出 token hash 相符且尚未過期的使用者
func GetUserByResetToken(ctx context.Context, db database.DB, hash string) (*model.User, error) {
	u := &model.User{}
	filter := bson.M{
		"resetPasswordToken":  hash,
		"resetPasswordExpire": bson.M{"$gt": timeNow()},
	}
	if err := users(db).FindOne(ctx, filter).Decode(u); err != nil {
		return nil, fmt.Errorf("GetUserByResetToken: %w", err)
	}
	return u, nil
}

func SetResetToken(ctx context.Context, db database.DB, id primitive.ObjectID, hash string, expires time.Time) error {
	update := bson.M{"$set": bson.M{"resetPasswordToken": hash, "resetPasswordExpire": expires}}
	if _, err := users(db).UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("SetResetToken: %w", err)
	}
	return nil
}

func ClearResetToken(ctx context.Context, db database.DB, id primitive.ObjectID) error {
	update := bson.M{"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""}}
	if _, err := users(db).UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("ClearResetToken: %w", err)
	}
	return nil
}

// UpdatePassword 更新密碼並清除 reset token
func UpdatePassword(ctx context.Context, db database.DB, id primitive.ObjectID, hash string) error {
	update := bson.M{
		"$set":   bson.M{"password": hash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	}
	if _, err := users(db).UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("UpdatePassword: %w", err)
	}
	return nil
}

// ListUsers 依 Query 回傳使用者，移除密碼與 reset token
func ListUsers(ctx context.Context, db database.DB, q *query.Query) ([]bson.M, int64, error) {
	docs, total, err := list(ctx, users(db), q, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	for _, d := range docs {
		for _, k := range privateUserFields {
			delete(d, k)
		}
	}
	return docs, total, nil
}

// UpdateUser 只更新 set 中的欄位並回傳更新後的使用者
func UpdateUser(ctx context.Context, db database.DB, id primitive.ObjectID, set bson.M) (*model.User, error) {
	if email, ok := set["email"].(string); ok {
		set["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	u := &model.User{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := users(db).FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(u); err != nil {
		return nil, fmt.Errorf("UpdateUser: %w", err)
	}
	return u, nil
}

func DeleteUser(ctx context.Context, db database.DB, id primitive.ObjectID) error {
	res, err := users(db).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("DeleteUser: %w", mongo.ErrNoDocuments)
	}
	return nil
}
