package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Comment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	PostID        primitive.ObjectID   `bson:"post" json:"postId"`
	AuthorID      primitive.ObjectID   `bson:"author" json:"authorId"`
	Content       string               `bson:"content" json:"content"`
	ParentComment *primitive.ObjectID  `bson:"parentComment,omitempty" json:"parentComment,omitempty"`
	Likes         []primitive.ObjectID `bson:"likes" json:"likes"`
	CreatedAt     int64                `bson:"createdAt" json:"createdAt"`
	UpdatedAt     int64                `bson:"updatedAt" json:"updatedAt"`
	Author        *Author              `bson:"-" json:"author,omitempty"` // Populated in response only
}
