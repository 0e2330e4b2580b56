package store

import (
	"context"
	"time"

	"blogify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCommentStore struct {
	coll *mongo.Collection
}

func NewMongoCommentStore(db *mongo.Database) *MongoCommentStore {
	return &MongoCommentStore{coll: db.Collection("comments")}
}

func (s *MongoCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}

	_, err := s.coll.InsertOne(ctx, comment)
	return err
}

func (s *MongoCommentStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *MongoCommentStore) ByPost(ctx context.Context, post primitive.ObjectID) ([]models.Comment, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "post", Value: post}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "authorDoc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$authorDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		models.Comment `bson:",inline"`
		AuthorDoc      *models.Author `bson:"authorDoc"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	comments := make([]models.Comment, len(rows))
	for i, row := range rows {
		comments[i] = row.Comment
		comments[i].Author = row.AuthorDoc
	}
	return comments, nil
}

func (s *MongoCommentStore) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	update := bson.M{"$set": bson.M{
		"content":   content,
		"updatedAt": time.Now().Unix(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment models.Comment
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *MongoCommentStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoCommentStore) ToggleLike(ctx context.Context, id, user primitive.ObjectID) (bool, int, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	// Try to add first; the filter makes the add a no-match when the
	// user already liked, so each branch is a single atomic update.
	addFilter := bson.M{"_id": id, "likes": bson.M{"$ne": user}}
	addUpdate := bson.M{"$addToSet": bson.M{"likes": user}}

	var comment models.Comment
	err := s.coll.FindOneAndUpdate(ctx, addFilter, addUpdate, opts).Decode(&comment)
	if err == nil {
		return true, len(comment.Likes), nil
	}
	if err != mongo.ErrNoDocuments {
		return false, 0, err
	}

	pullFilter := bson.M{"_id": id, "likes": user}
	pullUpdate := bson.M{"$pull": bson.M{"likes": user}}

	err = s.coll.FindOneAndUpdate(ctx, pullFilter, pullUpdate, opts).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return false, 0, ErrNotFound
	}
	if err != nil {
		return false, 0, err
	}
	return false, len(comment.Likes), nil
}

func (s *MongoCommentStore) CountByAuthor(ctx context.Context, author primitive.ObjectID) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"author": author})
}
