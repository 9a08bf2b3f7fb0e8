package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepo interface {
	SaveNotification(ctx context.Context, n *Notification) error
	GetByUser(ctx context.Context, userID uint64, before time.Time, pageSize int) ([]*Notification, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, id string) error
	MarkAllRead(ctx context.Context, userID uint64) error
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection("notification"),
	}
}

// SaveNotification 将通知存入 MongoDB
func (s *notificationRepoImpl) SaveNotification(ctx context.Context, n *Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := s.col.InsertOne(ctx, n)
	return err
}

// GetByUser 通知列表查询逻辑
// before 为当前页面最旧一条通知的时间。如果是第一页，传零值。
func (s *notificationRepoImpl) GetByUser(ctx context.Context, userID uint64, before time.Time, pageSize int) ([]*Notification, error) {
	// 基础过滤：指定用户 ID
	filter := bson.M{"user_id": userID}

	// 游标过滤：拉取比当前最旧一条更早的通知
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(pageSize))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var notifications []*Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}

// CountUnread 未读数量统计
func (s *notificationRepoImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"user_id": userID, "read": false})
}

// MarkRead 标记单条通知为已读
func (s *notificationRepoImpl) MarkRead(ctx context.Context, userID uint64, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = s.col.UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}

// MarkAllRead 标记用户全部通知为已读
func (s *notificationRepoImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := s.col.UpdateMany(ctx,
		bson.M{"user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
