package store

import (
	"context"

	"blogify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoPostStore struct {
	coll *mongo.Collection
}

func NewMongoPostStore(db *mongo.Database) *MongoPostStore {
	return &MongoPostStore{coll: db.Collection("posts")}
}

func (s *MongoPostStore) Create(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}

	_, err := s.coll.InsertOne(ctx, post)
	return err
}

func (s *MongoPostStore) ByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoPostStore) All(ctx context.Context) ([]models.Post, error) {
	return s.aggregate(ctx, bson.D{})
}

func (s *MongoPostStore) ByAuthor(ctx context.Context, author primitive.ObjectID) ([]models.Post, error) {
	return s.aggregate(ctx, bson.D{{Key: "author", Value: author}})
}

// aggregate fetches posts matching the filter, newest first, with the
// author document joined in.
func (s *MongoPostStore) aggregate(ctx context.Context, match bson.D) ([]models.Post, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
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
		models.Post `bson:",inline"`
		AuthorDoc   *models.Author `bson:"authorDoc"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	posts := make([]models.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.Post
		posts[i].Author = row.AuthorDoc
	}
	return posts, nil
}

func (s *MongoPostStore) Update(ctx context.Context, id primitive.ObjectID, patch PostPatch) (*models.Post, error) {
	set := bson.M{}
	if patch.Title != "" {
		set["title"] = patch.Title
	}
	if patch.Content != "" {
		set["content"] = patch.Content
	}
	if patch.Category != "" {
		set["category"] = patch.Category
	}
	if patch.Image != nil {
		set["image"] = patch.Image
	}
	if len(set) == 0 {
		return s.ByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoPostStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPostStore) AddLike(ctx context.Context, id, user primitive.ObjectID) (int, error) {
	// Single atomic document update so concurrent likers can't lose
	// writes. The filter rejects the update when the user already liked.
	filter := bson.M{"_id": id, "likes": bson.M{"$ne": user}}
	update := bson.M{"$addToSet": bson.M{"likes": user}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		// Either the post doesn't exist or the user already liked it.
		if _, lookupErr := s.ByID(ctx, id); lookupErr != nil {
			return 0, lookupErr
		}
		return 0, ErrAlreadyLiked
	}
	if err != nil {
		return 0, err
	}
	return len(post.Likes), nil
}

func (s *MongoPostStore) RemoveLike(ctx context.Context, id, user primitive.ObjectID) (int, error) {
	update := bson.M{"$pull": bson.M{"likes": user}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return len(post.Likes), nil
}
